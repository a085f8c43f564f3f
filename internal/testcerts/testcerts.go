// Package testcerts generates a throwaway CA plus server and client
// certificates for tests that exercise mutual TLS.
package testcerts

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"time"
)

// Paths locates the files written by Generate.
type Paths struct {
	CACert       string
	ServerCert   string
	ServerKey    string
	OperatorCert string
	OperatorKey  string
	ViewerCert   string
	ViewerKey    string
}

type issuer struct {
	cert *x509.Certificate
	key  *ecdsa.PrivateKey
}

// Generate writes a CA, a server certificate valid for localhost and
// 127.0.0.1, and operator and viewer client certificates into dir.
func Generate(dir string) (*Paths, error) {
	paths := &Paths{
		CACert:       filepath.Join(dir, "ca.crt"),
		ServerCert:   filepath.Join(dir, "server.crt"),
		ServerKey:    filepath.Join(dir, "server.key"),
		OperatorCert: filepath.Join(dir, "client-operator.crt"),
		OperatorKey:  filepath.Join(dir, "client-operator.key"),
		ViewerCert:   filepath.Join(dir, "client-viewer.crt"),
		ViewerKey:    filepath.Join(dir, "client-viewer.key"),
	}

	ca, err := newCA(paths.CACert)
	if err != nil {
		return nil, fmt.Errorf("generate CA: %w", err)
	}

	server := &x509.Certificate{
		Subject:     pkix.Name{CommonName: "localhost"},
		DNSNames:    []string{"localhost"},
		IPAddresses: []net.IP{net.IPv4(127, 0, 0, 1)},
		ExtKeyUsage: []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}
	if err := ca.issue(server, paths.ServerCert, paths.ServerKey); err != nil {
		return nil, fmt.Errorf("generate server cert: %w", err)
	}

	for _, c := range []struct {
		cn, ou, cert, key string
	}{
		{"alice", "operator", paths.OperatorCert, paths.OperatorKey},
		{"bob", "viewer", paths.ViewerCert, paths.ViewerKey},
	} {
		client := &x509.Certificate{
			Subject: pkix.Name{
				CommonName:         c.cn,
				OrganizationalUnit: []string{c.ou},
			},
			ExtKeyUsage: []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth},
		}

		if err := ca.issue(client, c.cert, c.key); err != nil {
			return nil, fmt.Errorf("generate %s cert: %w", c.ou, err)
		}
	}

	return paths, nil
}

func newCA(certPath string) (*issuer, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, err
	}

	template := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "jobconsole test CA"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(24 * time.Hour),
		IsCA:                  true,
		BasicConstraintsValid: true,
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageDigitalSignature,
	}

	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		return nil, err
	}

	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, err
	}

	if err := writePEM(certPath, "CERTIFICATE", der); err != nil {
		return nil, err
	}

	return &issuer{cert: cert, key: key}, nil
}

func (ca *issuer) issue(template *x509.Certificate, certPath, keyPath string) error {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return err
	}

	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 62))
	if err != nil {
		return err
	}

	template.SerialNumber = serial
	template.NotBefore = time.Now().Add(-time.Hour)
	template.NotAfter = time.Now().Add(24 * time.Hour)
	template.KeyUsage = x509.KeyUsageDigitalSignature

	der, err := x509.CreateCertificate(rand.Reader, template, ca.cert, &key.PublicKey, ca.key)
	if err != nil {
		return err
	}

	keyDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		return err
	}

	if err := writePEM(certPath, "CERTIFICATE", der); err != nil {
		return err
	}

	return writePEM(keyPath, "EC PRIVATE KEY", keyDER)
}

func writePEM(path, blockType string, der []byte) error {
	return os.WriteFile(path, pem.EncodeToMemory(&pem.Block{Type: blockType, Bytes: der}), 0600)
}
