package gateway

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/evaluation-platform/internal/transport/middleware"
	"github.com/frahmantamala/evaluation-platform/internal/transport/rest"
	"github.com/go-chi/chi"
	"github.com/go-chi/cors"
	"github.com/unrolled/secure"
)

type Options struct {
	Verifier       middleware.TokenVerifier
	Router         *Router
	Policy         *Policy
	AllowedOrigins []string
	Info           rest.Info
	Development    bool
	Logger         *slog.Logger
}

// NewHandler assembles the perimeter: RequestID, Recovery, CORS, security
// headers, the trust boundary and request logging, in that order, in front
// of the upstream router.
func NewHandler(opts Options) http.Handler {
	boundary := &TrustBoundary{
		Verifier:       opts.Verifier,
		Policy:         opts.Policy,
		AllowedOrigins: opts.AllowedOrigins,
		Logger:         opts.Logger,
	}

	secureHeaders := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		IsDevelopment:      opts.Development,
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RecoveryMiddleware(opts.Logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH", "HEAD"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Authorization", "Content-Type", "X-Total-Count", middleware.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           3600,
	}))
	r.Use(secureHeaders.Handler)
	r.Use(boundary.Middleware)
	r.Use(middleware.LoggingMiddleware(opts.Logger))

	health := rest.NewHealthHandler(nil, opts.Info)
	r.Get("/actuator/health", health.Health)
	r.Get("/actuator/info", health.InfoHandler)
	r.Handle("/*", opts.Router)

	return r
}
