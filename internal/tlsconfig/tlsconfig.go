// Package tlsconfig builds mutual TLS configurations for the job server and
// its clients.
package tlsconfig

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
)

// Config describes the certificate material for one side of a connection.
type Config struct {
	CertPath   string
	KeyPath    string
	CACertPath string

	// ServerName is the name clients verify the server certificate against.
	// Ignored when Server is true.
	ServerName string

	// Server selects a server config that requires and verifies client
	// certificates.
	Server bool
}

// SetupTLS loads the certificates in config and returns a TLS 1.3 config.
func SetupTLS(config *Config) (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(config.CertPath, config.KeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load certificate: %w", err)
	}

	caCert, err := os.ReadFile(config.CACertPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA certificate: %w", err)
	}

	caCertPool := x509.NewCertPool()
	if !caCertPool.AppendCertsFromPEM(caCert) {
		return nil, fmt.Errorf("failed to parse CA certificate %s", config.CACertPath)
	}

	tlsConfig := &tls.Config{
		MinVersion:   tls.VersionTLS13,
		Certificates: []tls.Certificate{cert},
	}

	if config.Server {
		tlsConfig.ClientAuth = tls.RequireAndVerifyClientCert
		tlsConfig.ClientCAs = caCertPool
	} else {
		tlsConfig.RootCAs = caCertPool
		tlsConfig.ServerName = config.ServerName
	}

	return tlsConfig, nil
}
