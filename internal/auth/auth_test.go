package auth_test

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"fmt"
	"testing"

	"github.com/nixpig/jobconsole/internal/api"
	"github.com/nixpig/jobconsole/internal/auth"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/peer"
)

func peerContext(t *testing.T, cn string, ou ...string) context.Context {
	t.Helper()

	cert := &x509.Certificate{
		Subject: pkix.Name{
			CommonName:         cn,
			OrganizationalUnit: ou,
		},
	}

	authInfo := credentials.TLSInfo{
		State: tls.ConnectionState{
			VerifiedChains: [][]*x509.Certificate{{cert}},
		},
	}

	return peer.NewContext(t.Context(), &peer.Peer{AuthInfo: authInfo})
}

func TestIsAuthorised(t *testing.T) {
	t.Parallel()

	scenarios := map[string]struct {
		role         auth.Role
		method       string
		isAuthorised bool
	}{
		"Test operator can exec": {
			role:         auth.RoleOperator,
			method:       api.ConsoleService_Exec_FullMethodName,
			isAuthorised: true,
		},
		"Test operator can run job": {
			role:         auth.RoleOperator,
			method:       api.ConsoleService_RunJob_FullMethodName,
			isAuthorised: true,
		},
		"Test operator can complete": {
			role:         auth.RoleOperator,
			method:       api.ConsoleService_Complete_FullMethodName,
			isAuthorised: true,
		},
		"Test viewer cannot exec": {
			role:         auth.RoleViewer,
			method:       api.ConsoleService_Exec_FullMethodName,
			isAuthorised: false,
		},
		"Test viewer cannot run job": {
			role:         auth.RoleViewer,
			method:       api.ConsoleService_RunJob_FullMethodName,
			isAuthorised: false,
		},
		"Test viewer can complete": {
			role:         auth.RoleViewer,
			method:       api.ConsoleService_Complete_FullMethodName,
			isAuthorised: true,
		},
		"Test unknown method returns error": {
			role:         auth.RoleOperator,
			method:       "/" + api.ServiceName + "/Unknown",
			isAuthorised: false,
		},
		"Test unknown role returns error": {
			role:         auth.Role("Unknown"),
			method:       api.ConsoleService_Complete_FullMethodName,
			isAuthorised: false,
		},
	}

	for scenario, config := range scenarios {
		t.Run(scenario, func(t *testing.T) {
			t.Parallel()

			err := auth.IsAuthorised(config.role, config.method)

			if config.isAuthorised && err != nil {
				t.Errorf("expected authorised not to return error: got '%v'", err)
			}

			if !config.isAuthorised && err == nil {
				t.Errorf("expected not authorised to return error")
			}
		})
	}
}

func TestMethodsHavePermissions(t *testing.T) {
	t.Parallel()

	for _, m := range api.ConsoleService_ServiceDesc.Methods {
		fullMethodName := fmt.Sprintf(
			"/%s/%s",
			api.ConsoleService_ServiceDesc.ServiceName,
			m.MethodName,
		)

		if _, exists := auth.MethodPermissions[fullMethodName]; !exists {
			t.Errorf("gRPC method doesn't have permission assigned: '%v'", fullMethodName)
		}
	}
}

func TestGetClientIdentity(t *testing.T) {
	t.Parallel()

	t.Run("Test peer with valid TLS info", func(t *testing.T) {
		id, err := auth.GetClientIdentity(peerContext(t, "alice", "operator"))
		if err != nil {
			t.Errorf("expected not to receive error: got '%v'", err)
		}

		if id.CommonName != "alice" {
			t.Errorf("expected CN: got '%s', want 'alice'", id.CommonName)
		}

		if id.Role != auth.RoleOperator {
			t.Errorf("expected role: got '%s', want 'operator'", id.Role)
		}
	})

	t.Run("Test certificate without OU", func(t *testing.T) {
		id, err := auth.GetClientIdentity(peerContext(t, "dave"))
		if err != nil {
			t.Errorf("expected not to receive error: got '%v'", err)
		}

		if id.Role != "" {
			t.Errorf("expected empty role: got '%s'", id.Role)
		}
	})

	t.Run("Test peer with no TLS info", func(t *testing.T) {
		ctx := peer.NewContext(t.Context(), &peer.Peer{AuthInfo: nil})

		if _, err := auth.GetClientIdentity(ctx); err == nil {
			t.Errorf("expected to receive error")
		}
	})

	t.Run("Test no peer in context", func(t *testing.T) {
		if _, err := auth.GetClientIdentity(t.Context()); err == nil {
			t.Errorf("expected to receive error")
		}
	})
}

func TestAuthorise(t *testing.T) {
	t.Parallel()

	scenarios := map[string]struct {
		ctx     func(t *testing.T) context.Context
		method  string
		wantErr bool
	}{
		"Test operator can exec": {
			ctx:    func(t *testing.T) context.Context { return peerContext(t, "alice", "operator") },
			method: api.ConsoleService_Exec_FullMethodName,
		},
		"Test viewer cannot exec": {
			ctx:     func(t *testing.T) context.Context { return peerContext(t, "bob", "viewer") },
			method:  api.ConsoleService_Exec_FullMethodName,
			wantErr: true,
		},
		"Test viewer can complete": {
			ctx:    func(t *testing.T) context.Context { return peerContext(t, "bob", "viewer") },
			method: api.ConsoleService_Complete_FullMethodName,
		},
		"Test unknown role": {
			ctx:     func(t *testing.T) context.Context { return peerContext(t, "charlie", "admin") },
			method:  api.ConsoleService_Complete_FullMethodName,
			wantErr: true,
		},
		"Test invalid context": {
			ctx:     func(t *testing.T) context.Context { return t.Context() },
			method:  api.ConsoleService_Complete_FullMethodName,
			wantErr: true,
		},
	}

	for scenario, config := range scenarios {
		t.Run(scenario, func(t *testing.T) {
			_, err := auth.Authorise(config.ctx(t), config.method)

			if config.wantErr && err == nil {
				t.Errorf("expected to receive error")
			}

			if !config.wantErr && err != nil {
				t.Errorf("expected not to receive error: got '%v'", err)
			}
		})
	}
}
