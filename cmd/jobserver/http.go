package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/nixpig/jobconsole/internal/idrange"
	"github.com/nixpig/jobconsole/internal/jobmanager"
)

// newRouter serves read-only status endpoints alongside the gRPC console.
func newRouter(manager *jobmanager.Manager, ready *atomic.Bool) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if !ready.Load() {
			http.Error(w, "Not Ready", http.StatusServiceUnavailable)
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("Ready"))
	})

	r.Get("/jobs", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, manager.Jobs())
	})

	r.Get("/jobs/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, err := idrange.ParseID(chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, "invalid job id", http.StatusBadRequest)
			return
		}

		info, err := manager.JobInfo(id)
		if errors.Is(err, jobmanager.ErrJobNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, info)
	})

	return r
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
