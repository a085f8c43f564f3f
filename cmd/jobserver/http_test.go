package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/nixpig/jobconsole/internal/jobmanager"
	"github.com/stretchr/testify/require"
)

func TestStatusRouter(t *testing.T) {
	manager := jobmanager.NewManager(nil)
	defer manager.Shutdown()

	id, err := manager.Register(
		"listener",
		jobmanager.Module{Name: "test/listener"},
		jobmanager.TaskFunc(func(ctx context.Context) error {
			<-ctx.Done()
			return nil
		}),
	)
	require.NoError(t, err)

	var ready atomic.Bool
	router := newRouter(manager, &ready)

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	t.Run("Test healthz", func(t *testing.T) {
		require.Equal(t, http.StatusOK, get("/healthz").Code)
	})

	t.Run("Test readyz", func(t *testing.T) {
		require.Equal(t, http.StatusServiceUnavailable, get("/readyz").Code)

		ready.Store(true)
		require.Equal(t, http.StatusOK, get("/readyz").Code)
	})

	t.Run("Test jobs", func(t *testing.T) {
		rec := get("/jobs")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var jobs []map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &jobs))
		require.Len(t, jobs, 1)
		require.Equal(t, "listener", jobs[0]["name"])
	})

	t.Run("Test job by id", func(t *testing.T) {
		require.Equal(t, http.StatusOK, get("/jobs/"+strconv.Itoa(id)).Code)
		require.Equal(t, http.StatusNotFound, get("/jobs/99").Code)
		require.Equal(t, http.StatusBadRequest, get("/jobs/-1").Code)
	})
}
