package middleware

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/evaluation-platform/internal"
	"github.com/frahmantamala/evaluation-platform/internal/rbac"
	"github.com/frahmantamala/evaluation-platform/internal/token"
	"github.com/frahmantamala/evaluation-platform/internal/transport"
	"github.com/frahmantamala/evaluation-platform/pkg/logger"
)

// TokenVerifier is satisfied by *token.Verifier and *token.Issuer.
type TokenVerifier interface {
	VerifyType(raw string, want token.Type) (*token.Claims, error)
}

// Authenticate attaches a principal for requests carrying a valid access
// token. It never rejects: requests without a usable token continue
// anonymously and the route guards decide.
func Authenticate(verifier TokenVerifier, lg *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := transport.ExtractBearerToken(r)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := verifier.VerifyType(raw, token.TypeAccess)
			if err != nil {
				lg.DebugContext(r.Context(), "bearer token ignored", "token_prefix", transport.TokenPrefix(raw), "error", err)
				next.ServeHTTP(w, r)
				return
			}

			userID, err := claims.UserID()
			if err != nil {
				lg.WarnContext(r.Context(), "bearer token has unusable subject", "subject", claims.Subject)
				next.ServeHTTP(w, r)
				return
			}

			p := &internal.Principal{
				UserID:      userID,
				Username:    claims.Username,
				Roles:       claims.Roles,
				Permissions: claims.Permissions,
				Authorities: rbac.RoleAuthorities(claims.Roles),
			}
			ctx := internal.ContextWithPrincipal(r.Context(), p)
			ctx = logger.With(ctx, "user_id", userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
