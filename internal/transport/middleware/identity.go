package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/frahmantamala/evaluation-platform/internal"
	"github.com/frahmantamala/evaluation-platform/internal/rbac"
	"github.com/frahmantamala/evaluation-platform/pkg/logger"
)

// TrustedIdentity builds the principal from the identity headers set by the
// gateway. Services behind the gateway use it instead of verifying tokens;
// it must never face clients directly.
func TrustedIdentity(lg *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rawID := r.Header.Get(internal.HeaderUserID)
			username := r.Header.Get(internal.HeaderUsername)
			if rawID == "" || username == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := strconv.ParseInt(rawID, 10, 64)
			if err != nil {
				lg.WarnContext(r.Context(), "ignoring non-numeric identity header", "value", rawID)
				next.ServeHTTP(w, r)
				return
			}

			roles := splitList(r.Header.Get(internal.HeaderRoles))
			perms := splitList(r.Header.Get(internal.HeaderPermissions))

			authorities := append(rbac.RoleAuthorities(roles), perms...)
			p := &internal.Principal{
				UserID:      userID,
				Username:    username,
				Roles:       roles,
				Permissions: perms,
				Authorities: authorities,
			}

			ctx := internal.ContextWithPrincipal(r.Context(), p)
			ctx = logger.With(ctx, "user_id", userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
