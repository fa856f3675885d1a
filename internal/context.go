package internal

import (
	"context"
	"strings"
	"time"
)

type ctxKey string

const ContextPrincipalKey ctxKey = "principal"

// AuthorityRolePrefix marks role authorities, e.g. ROLE_ADMIN.
const AuthorityRolePrefix = "ROLE_"

// Identity headers written by the gateway and read by downstream services.
const (
	HeaderUserID      = "X-User-Id"
	HeaderUserName    = "X-User-Name"
	HeaderUsername    = "X-Username"
	HeaderRoles       = "X-Roles"
	HeaderPermissions = "X-Permissions"
)

// IdentityHeaders lists every header only the gateway may assert.
var IdentityHeaders = []string{HeaderUserID, HeaderUserName, HeaderUsername, HeaderRoles, HeaderPermissions}

// Principal is the authenticated caller attached to a request context.
type Principal struct {
	UserID      int64
	Username    string
	Roles       []string
	Permissions []string
	Authorities []string
}

func (p *Principal) HasAuthority(authority string) bool {
	if p == nil {
		return false
	}
	for _, a := range p.Authorities {
		if a == authority {
			return true
		}
	}
	return false
}

func (p *Principal) HasRole(role string) bool {
	return p.HasAuthority(AuthorityRolePrefix + strings.TrimPrefix(role, AuthorityRolePrefix))
}

func (p *Principal) HasPermission(permission string) bool {
	if p == nil {
		return false
	}
	for _, perm := range p.Permissions {
		if perm == permission {
			return true
		}
	}
	return p.HasAuthority(permission)
}

func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, ContextPrincipalKey, p)
}

// PrincipalFromContext returns the caller, or false for anonymous requests.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	if ctx == nil {
		return nil, false
	}
	p, ok := ctx.Value(ContextPrincipalKey).(*Principal)
	return p, ok && p != nil
}

func UserIDFromContext(ctx context.Context) int64 {
	if p, ok := PrincipalFromContext(ctx); ok {
		return p.UserID
	}
	return 0
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
