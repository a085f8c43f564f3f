// Package auth maps client certificate identities to console permissions.
//
// A client's role is the first OrganizationalUnit of its verified client
// certificate. Each gRPC method requires exactly one permission.
package auth

import (
	"context"
	"fmt"
	"slices"

	"github.com/nixpig/jobconsole/internal/api"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/peer"
)

type Permission string

const (
	PermissionJobRun      Permission = "job:run"
	PermissionJobControl  Permission = "job:control"
	PermissionJobComplete Permission = "job:complete"
)

type Role string

const (
	RoleOperator Role = "operator"
	RoleViewer   Role = "viewer"
)

var RolePermissions = map[Role][]Permission{
	RoleOperator: {
		PermissionJobRun,
		PermissionJobControl,
		PermissionJobComplete,
	},
	RoleViewer: {PermissionJobComplete},
}

var MethodPermissions = map[string]Permission{
	api.ConsoleService_Exec_FullMethodName:     PermissionJobControl,
	api.ConsoleService_Complete_FullMethodName: PermissionJobComplete,
	api.ConsoleService_RunJob_FullMethodName:   PermissionJobRun,
}

// Identity is the authenticated client behind a request.
type Identity struct {
	CommonName string
	Role       Role
}

// GetClientIdentity extracts the client's identity from the verified
// certificate chain of the peer in ctx.
func GetClientIdentity(ctx context.Context) (Identity, error) {
	p, ok := peer.FromContext(ctx)
	if !ok {
		return Identity{}, fmt.Errorf("failed to get peer info from context")
	}

	tlsInfo, ok := p.AuthInfo.(credentials.TLSInfo)
	if !ok {
		return Identity{}, fmt.Errorf("failed to get TLS info from peer auth info")
	}

	if len(tlsInfo.State.VerifiedChains) == 0 ||
		len(tlsInfo.State.VerifiedChains[0]) == 0 {
		return Identity{}, fmt.Errorf("no verified chains in TLS info")
	}

	cert := tlsInfo.State.VerifiedChains[0][0]

	id := Identity{CommonName: cert.Subject.CommonName}
	if len(cert.Subject.OrganizationalUnit) > 0 {
		id.Role = Role(cert.Subject.OrganizationalUnit[0])
	}

	return id, nil
}

// IsAuthorised returns an error unless role holds the permission method
// requires.
func IsAuthorised(role Role, method string) error {
	required, exists := MethodPermissions[method]
	if !exists {
		return fmt.Errorf("method %q not in method permissions", method)
	}

	permissions, ok := RolePermissions[role]
	if !ok {
		return fmt.Errorf("role %q not in role permissions", role)
	}

	if !slices.Contains(permissions, required) {
		return fmt.Errorf("role %q lacks permission %q", role, required)
	}

	return nil
}

// Authorise identifies the client in ctx and checks it may call method.
func Authorise(ctx context.Context, method string) (Identity, error) {
	id, err := GetClientIdentity(ctx)
	if err != nil {
		return Identity{}, fmt.Errorf("get client identity: %w", err)
	}

	if err := IsAuthorised(id.Role, method); err != nil {
		return id, fmt.Errorf("authorise client: %w", err)
	}

	return id, nil
}
