package gateway

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/frahmantamala/evaluation-platform/internal"
	"github.com/frahmantamala/evaluation-platform/internal/token"
	"github.com/frahmantamala/evaluation-platform/internal/transport"
	"github.com/frahmantamala/evaluation-platform/internal/transport/middleware"
)

const (
	corsAllowMethods = "GET, POST, PUT, DELETE, OPTIONS, PATCH, HEAD"
	corsAllowHeaders = "*"
)

// TrustBoundary authenticates every non-public request before it is routed
// and asserts the caller's identity to downstream services through headers.
type TrustBoundary struct {
	Verifier       middleware.TokenVerifier
	Policy         *Policy
	AllowedOrigins []string
	Logger         *slog.Logger
}

func (t *TrustBoundary) Middleware(next http.Handler) http.Handler {
	policy := t.Policy
	if policy == nil {
		policy = defaultPolicy
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		// Only the gateway may assert identity.
		for _, h := range internal.IdentityHeaders {
			r.Header.Del(h)
		}

		if policy.IsPublic(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			t.reject(w, r, internal.ErrMissingAuthHeader, "no authorization header")
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			t.reject(w, r, internal.ErrMalformedAuthHeader, "not a bearer credential")
			return
		}

		raw := strings.TrimSpace(authHeader[len("Bearer "):])
		claims, err := t.Verifier.VerifyType(raw, token.TypeAccess)
		if err != nil {
			t.reject(w, r, internal.ErrTokenInvalidOrExpired, err.Error())
			return
		}

		r.Header.Set(internal.HeaderUserID, claims.Subject)
		r.Header.Set(internal.HeaderUserName, claims.Username)
		r.Header.Set(internal.HeaderUsername, claims.Username)
		r.Header.Set(internal.HeaderRoles, strings.Join(claims.Roles, ","))
		r.Header.Set(internal.HeaderPermissions, strings.Join(claims.Permissions, ","))

		next.ServeHTTP(w, r)
	})
}

// reject answers with the uniform gateway error body. The reason is only
// logged.
func (t *TrustBoundary) reject(w http.ResponseWriter, r *http.Request, appErr *internal.AppError, reason string) {
	t.Logger.InfoContext(r.Context(), "gateway rejected request",
		"method", r.Method,
		"path", r.URL.Path,
		"code", appErr.Code,
		"reason", reason,
	)

	if origin := r.Header.Get("Origin"); origin != "" && t.allowedOrigin(origin) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Credentials", strconv.FormatBool(true))
		h.Set("Access-Control-Allow-Methods", corsAllowMethods)
		h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
		h.Add("Vary", "Origin")
	}

	transport.WriteJSON(w, appErr.StatusCode, transport.NewErrorResponse(appErr.Message), t.Logger)
}

func (t *TrustBoundary) allowedOrigin(origin string) bool {
	for _, o := range t.AllowedOrigins {
		if o == origin {
			return true
		}
	}
	return false
}
