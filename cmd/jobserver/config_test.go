package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func newTestFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()

	flags := pflag.NewFlagSet("jobserver", pflag.ContinueOnError)
	bindFlags(flags)

	if err := flags.Parse(args); err != nil {
		t.Fatalf("failed to parse flags: '%v'", err)
	}

	return flags
}

func TestLoadConfig(t *testing.T) {
	t.Run("Test flags", func(t *testing.T) {
		cfg, err := loadConfig(
			viper.New(),
			newTestFlags(t, "--insecure", "--port", "9000"),
			"",
		)
		if err != nil {
			t.Fatalf("expected not to get error: got '%v'", err)
		}

		if cfg.port != "9000" || !cfg.insecure {
			t.Errorf("expected flags to apply: got '%+v'", cfg)
		}
	})

	t.Run("Test env overrides default", func(t *testing.T) {
		t.Setenv("JOBSERVER_INSECURE", "true")
		t.Setenv("JOBSERVER_HTTP_ADDR", "127.0.0.1:8080")

		cfg, err := loadConfig(viper.New(), newTestFlags(t), "")
		if err != nil {
			t.Fatalf("expected not to get error: got '%v'", err)
		}

		if cfg.httpAddr != "127.0.0.1:8080" {
			t.Errorf(
				"expected http addr: got '%s', want '%s'",
				cfg.httpAddr,
				"127.0.0.1:8080",
			)
		}
	})

	t.Run("Test config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "jobserver.yaml")
		if err := os.WriteFile(path, []byte("insecure: true\nhost: 0.0.0.0\n"), 0o644); err != nil {
			t.Fatalf("failed to write config: '%v'", err)
		}

		cfg, err := loadConfig(viper.New(), newTestFlags(t), path)
		if err != nil {
			t.Fatalf("expected not to get error: got '%v'", err)
		}

		if cfg.host != "0.0.0.0" {
			t.Errorf("expected host: got '%s', want '%s'", cfg.host, "0.0.0.0")
		}
	})

	scenarios := map[string][]string{
		"invalid port":      {"--insecure", "--port", "http"},
		"port out of range": {"--insecure", "--port", "70000"},
		"missing certs":     {"--cert-path", "/nonexistent/server.crt"},
		"missing jobs file": {"--insecure", "--jobs-file", "/nonexistent/jobs.yaml"},
	}

	for scenario, args := range scenarios {
		t.Run("Test "+scenario, func(t *testing.T) {
			if _, err := loadConfig(viper.New(), newTestFlags(t, args...), ""); err == nil {
				t.Errorf("expected to get error: got '%v'", err)
			}
		})
	}
}
