package rest

import (
	"database/sql"
	"log/slog"

	"github.com/frahmantamala/evaluation-platform/internal/auth"
	"github.com/frahmantamala/evaluation-platform/internal/rbac"
	"github.com/frahmantamala/evaluation-platform/internal/transport/middleware"
	"github.com/frahmantamala/evaluation-platform/internal/transport/swagger"
	"github.com/frahmantamala/evaluation-platform/internal/user"
	"github.com/go-chi/chi"
)

// IdentityDeps are the collaborators of the identity service router.
type IdentityDeps struct {
	DB            *sql.DB
	Info          Info
	Verifier      middleware.TokenVerifier
	AuthHandler   *auth.Handler
	UserHandler   *user.Handler
	Authorization *rbac.Authorization
	Logger        *slog.Logger
}

// RegisterIdentityRoutes installs middleware in order RequestID, Recovery,
// Logging, Authenticate and then mounts the routes.
func RegisterIdentityRoutes(router *chi.Mux, deps IdentityDeps) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(deps.Logger))
	router.Use(middleware.LoggingMiddleware(deps.Logger))
	router.Use(middleware.Authenticate(deps.Verifier, deps.Logger))

	health := NewHealthHandler(deps.DB, deps.Info)
	router.Get("/actuator/health", health.Health)
	router.Get("/actuator/info", health.InfoHandler)

	router.Handle(swagger.SpecPath, swagger.SpecHandler())
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/auth", func(r chi.Router) {
		if deps.UserHandler != nil {
			r.Route("/users", func(ur chi.Router) {
				ur.Use(deps.Authorization.RequireRole(rbac.RoleAdmin))
				deps.UserHandler.Routes(ur)
			})
		}
		if deps.AuthHandler != nil {
			deps.AuthHandler.Routes(r)
		}
	})
}
