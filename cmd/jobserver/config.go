package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "JOBSERVER"

type config struct {
	host     string
	port     string
	httpAddr string

	certPath   string
	keyPath    string
	caCertPath string
	insecure   bool

	jobsFile string
	debug    bool
}

func bindFlags(flags *pflag.FlagSet) {
	flags.String("host", "localhost", "gRPC server host to bind")
	flags.String("port", "8443", "gRPC server port")
	flags.String("http-addr", "", "Address for the HTTP status endpoints (disabled if empty)")
	flags.Bool("debug", false, "Enable debug logs")

	flags.String("cert-path", "certs/server.crt", "Path to server TLS certificate")
	flags.String("key-path", "certs/server.key", "Path to server TLS private key")
	flags.String("ca-cert-path", "certs/ca.crt", "Path to CA certificate for mTLS")
	flags.Bool("insecure", false, "Serve without TLS or authorisation (local development only)")

	flags.String("jobs-file", "", "YAML manifest of jobs to start on boot")
}

// loadConfig merges flags, JOBSERVER_* environment variables and an optional
// config file, in that order of precedence.
func loadConfig(v *viper.Viper, flags *pflag.FlagSet, cfgFile string) (*config, error) {
	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &config{
		host:       v.GetString("host"),
		port:       v.GetString("port"),
		httpAddr:   v.GetString("http-addr"),
		certPath:   v.GetString("cert-path"),
		keyPath:    v.GetString("key-path"),
		caCertPath: v.GetString("ca-cert-path"),
		insecure:   v.GetBool("insecure"),
		jobsFile:   v.GetString("jobs-file"),
		debug:      v.GetBool("debug"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *config) validate() error {
	port, err := strconv.Atoi(c.port)
	if err != nil {
		return fmt.Errorf("port string to number: %w", err)
	}

	if port < 0 || port > 65535 {
		return errors.New("port must be in valid range")
	}

	if c.jobsFile != "" {
		if _, err := os.Stat(c.jobsFile); err != nil {
			return fmt.Errorf("failed to stat jobs-file: %w", err)
		}
	}

	if c.insecure {
		return nil
	}

	for _, f := range []struct{ name, path string }{
		{"cert-path", c.certPath},
		{"key-path", c.keyPath},
		{"ca-cert-path", c.caCertPath},
	} {
		if f.path == "" {
			return fmt.Errorf("%s cannot be empty", f.name)
		}

		if _, err := os.Stat(f.path); err != nil {
			return fmt.Errorf("failed to stat %s: %w", f.name, err)
		}
	}

	return nil
}
