package cmd

import (
	"fmt"
	"net/http"
	"os"

	"github.com/frahmantamala/evaluation-platform/internal/gateway"
	"github.com/frahmantamala/evaluation-platform/internal/token"
	"github.com/frahmantamala/evaluation-platform/internal/transport/rest"
	"github.com/frahmantamala/evaluation-platform/pkg/logger"
	"github.com/spf13/cobra"
)

// defaultRoutes is used when gateway.routes is empty.
var defaultRoutes = map[string]string{
	"/api/auth": "http://localhost:8081",
}

var gatewayServerCmd = &cobra.Command{
	Use:   "gateway",
	Short: "Start the API gateway",
	Long:  `Start the perimeter gateway that verifies tokens and forwards requests to the services`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return startGatewayServer()
	},
}

func startGatewayServer() error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	setupLogger(cfg)
	lg := logger.L()

	verifier, err := token.NewVerifier(cfg.Security.JWTSecret)
	if err != nil {
		return fmt.Errorf("failed to create token verifier: %w", err)
	}

	routes := cfg.Gateway.Routes
	if len(routes) == 0 {
		routes = defaultRoutes
	}

	router, err := gateway.NewRouter(gateway.RouterConfig{
		Routes:          routes,
		StripPrefix:     cfg.Gateway.StripPrefix,
		UpstreamTimeout: cfg.Gateway.UpstreamTimeout,
	}, lg)
	if err != nil {
		return fmt.Errorf("failed to build gateway routes: %w", err)
	}

	handler := gateway.NewHandler(gateway.Options{
		Verifier:       verifier,
		Router:         router,
		Policy:         gateway.NewPolicy(),
		AllowedOrigins: cfg.Gateway.AllowedOrigins,
		Info:           rest.Info{Name: "api-gateway", Version: version},
		Development:    os.Getenv("APP_ENV") != "production",
		Logger:         lg,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Gateway.Port),
		Handler:           handler,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	return serve(srv, lg, nil)
}
