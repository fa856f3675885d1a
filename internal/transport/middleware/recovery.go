package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/frahmantamala/evaluation-platform/internal"
	"github.com/frahmantamala/evaluation-platform/internal/transport"
)

// RecoveryMiddleware turns a panic into the generic 500 envelope. The panic
// value and stack only reach the log.
func RecoveryMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					logger.ErrorContext(r.Context(), "panic recovered",
						"error", rec,
						"method", r.Method,
						"url", r.URL.String(),
						"stack", string(debug.Stack()))

					resp := transport.NewErrorResponse("An unexpected error occurred")
					resp.Code = internal.ErrCodeInternal
					transport.WriteJSON(w, http.StatusInternalServerError, resp, logger)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
