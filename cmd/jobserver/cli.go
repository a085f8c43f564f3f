package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/nixpig/jobconsole/internal/jobmanager"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const shutdownTimeout = 10 * time.Second

func rootCmd() *cobra.Command {
	var cfgFile string

	v := viper.New()

	c := &cobra.Command{
		Use:          "jobserver",
		Short:        "Host background jobs and serve the job console over gRPC",
		Example:      "  jobserver --debug --jobs-file jobs.yaml",
		Version:      version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v, cmd.Flags(), cfgFile)
			if err != nil {
				return err
			}

			return run(cmd.Context(), cfg)
		},
	}

	c.Flags().StringVar(&cfgFile, "config", "", "Path to YAML config file")
	bindFlags(c.Flags())

	return c
}

func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

func run(ctx context.Context, cfg *config) error {
	logger := newLogger(cfg.debug)

	manager := jobmanager.NewManager(logger)
	defer manager.Shutdown()

	if cfg.jobsFile != "" {
		manifest, err := jobmanager.LoadManifest(cfg.jobsFile)
		if err != nil {
			return err
		}

		ids, err := manifest.Start(manager)
		if err != nil {
			return err
		}

		logger.Info("started manifest jobs", "file", cfg.jobsFile, "ids", ids)
	}

	listener, err := net.Listen("tcp", net.JoinHostPort(cfg.host, cfg.port))
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	s := newServer(manager, logger, cfg)
	if err := s.setup(); err != nil {
		listener.Close()
		return err
	}

	var ready atomic.Bool

	var httpServer *http.Server
	if cfg.httpAddr != "" {
		httpServer = &http.Server{
			Addr:              cfg.httpAddr,
			Handler:           newRouter(manager, &ready),
			ReadHeaderTimeout: 5 * time.Second,
		}

		go func() {
			if err := httpServer.ListenAndServe(); err != nil &&
				!errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server", "err", err)
			}
		}()

		logger.Info("http status endpoints listening", "addr", cfg.httpAddr)
	}

	errCh := make(chan error, 1)

	go func() {
		errCh <- s.serve(listener)
	}()

	// The listener is bound, so connections made before Serve runs wait in
	// its backlog.
	ready.Store(true)

	logger.Info(
		"job server listening",
		"addr", listener.Addr().String(),
		"insecure", cfg.insecure,
	)

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		if err != nil {
			ready.Store(false)
			return fmt.Errorf("serve: %w", err)
		}
	}

	ready.Store(false)

	s.shutdown()

	if httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("http shutdown", "err", err)
		}
	}

	return nil
}
