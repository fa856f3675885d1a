package rbac

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/evaluation-platform/internal"
	"github.com/frahmantamala/evaluation-platform/internal/transport"
)

// Authorization guards routes using the principal placed in the request
// context by an upstream authentication middleware.
type Authorization struct {
	checker PermissionChecker
	logger  *slog.Logger
}

func NewAuthorization(checker PermissionChecker, logger *slog.Logger) *Authorization {
	if checker == nil {
		checker = NewPermissionChecker()
	}
	return &Authorization{
		checker: checker,
		logger:  logger,
	}
}

func (a *Authorization) guard(allowed func(*internal.Principal) bool, describe ...any) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := internal.PrincipalFromContext(r.Context())
			if !ok {
				a.logger.WarnContext(r.Context(), "authorization check failed: no principal in context", "path", r.URL.Path)
				transport.WriteAppError(w, r, internal.ErrUnauthenticated, a.logger)
				return
			}

			if !allowed(p) {
				a.logger.WarnContext(r.Context(), "access denied",
					append([]any{"user_id", p.UserID, "authorities", p.Authorities}, describe...)...)
				transport.WriteAppError(w, r, internal.ErrAccessDenied, a.logger)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuthenticated rejects anonymous requests with 401.
func (a *Authorization) RequireAuthenticated() func(http.Handler) http.Handler {
	return a.guard(func(*internal.Principal) bool { return true })
}

// RequireRole admits principals holding any of roles.
func (a *Authorization) RequireRole(roles ...string) func(http.Handler) http.Handler {
	return a.guard(func(p *internal.Principal) bool {
		return a.checker.HasAnyRole(p, roles)
	}, "required_roles", roles)
}

// RequirePermission admits principals holding any of permissions.
func (a *Authorization) RequirePermission(permissions ...string) func(http.Handler) http.Handler {
	return a.guard(func(p *internal.Principal) bool {
		return a.checker.HasAnyPermission(p, permissions)
	}, "required_permissions", permissions)
}

// RequireAllPermissions admits principals holding every one of permissions.
func (a *Authorization) RequireAllPermissions(permissions ...string) func(http.Handler) http.Handler {
	return a.guard(func(p *internal.Principal) bool {
		return a.checker.HasAllPermissions(p, permissions)
	}, "required_permissions", permissions)
}
