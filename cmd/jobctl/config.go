package main

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "JOBCTL"

type config struct {
	serverHostname string
	serverPort     string
	caCertPath     string
	certPath       string
	keyPath        string
	insecure       bool
}

func bindFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "Path to YAML config file")
	flags.String("server-hostname", "localhost", "Server hostname")
	flags.String("server-port", "8443", "Server port")
	flags.String("cert-path", "certs/client-operator.crt", "Path to client TLS certificate")
	flags.String("key-path", "certs/client-operator.key", "Path to client TLS private key")
	flags.String("ca-cert-path", "certs/ca.crt", "Path to CA certificate for mTLS")
	flags.Bool("insecure", false, "Connect without TLS")
}

// loadConfig merges flags, JOBCTL_* environment variables and an optional
// config file, in that order of precedence.
func loadConfig(v *viper.Viper, flags *pflag.FlagSet) (*config, error) {
	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile := v.GetString("config"); cfgFile != "" {
		v.SetConfigFile(cfgFile)

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	return &config{
		serverHostname: v.GetString("server-hostname"),
		serverPort:     v.GetString("server-port"),
		caCertPath:     v.GetString("ca-cert-path"),
		certPath:       v.GetString("cert-path"),
		keyPath:        v.GetString("key-path"),
		insecure:       v.GetBool("insecure"),
	}, nil
}

// splitConnFlags consumes leading long-form connection flags from args
// into flags and returns the remainder. Console commands parse their own
// arguments, so cobra hands them everything after the command name.
func splitConnFlags(flags *pflag.FlagSet, args []string) ([]string, error) {
	for len(args) > 0 {
		arg := args[0]
		if !strings.HasPrefix(arg, "--") || arg == "--" {
			break
		}

		name, value, hasValue := strings.Cut(arg[2:], "=")

		f := flags.Lookup(name)
		if f == nil {
			break
		}

		args = args[1:]

		if !hasValue {
			switch {
			case f.NoOptDefVal != "":
				value = f.NoOptDefVal
			case len(args) > 0:
				value, args = args[0], args[1:]
			default:
				return nil, fmt.Errorf("flag needs an argument: --%s", name)
			}
		}

		if err := flags.Set(name, value); err != nil {
			return nil, fmt.Errorf("invalid value for --%s: %w", name, err)
		}
	}

	return args, nil
}
