package middleware

import (
	"context"
	"net/http"

	"github.com/frahmantamala/evaluation-platform/pkg/logger"
	"github.com/go-chi/chi/middleware"
	"github.com/google/uuid"
)

const HeaderRequestID = "X-Request-Id"

// RequestID reuses an inbound X-Request-Id or mints one, exposes it through
// chi's request id accessor and the context logger, and forwards it on the
// request so proxied services see the same value.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(HeaderRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
			r.Header.Set(HeaderRequestID, reqID)
		}

		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, reqID)
		ctx = logger.With(ctx, "request_id", reqID)

		w.Header().Set(HeaderRequestID, reqID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
