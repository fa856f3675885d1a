package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/frahmantamala/evaluation-platform/internal"
	"github.com/frahmantamala/evaluation-platform/internal/auth"
	authPostgres "github.com/frahmantamala/evaluation-platform/internal/auth/postgres"
	"github.com/frahmantamala/evaluation-platform/internal/core/events"
	"github.com/frahmantamala/evaluation-platform/internal/mail"
	"github.com/frahmantamala/evaluation-platform/internal/rbac"
	"github.com/frahmantamala/evaluation-platform/internal/seed"
	"github.com/frahmantamala/evaluation-platform/internal/token"
	"github.com/frahmantamala/evaluation-platform/internal/transport/rest"
	"github.com/frahmantamala/evaluation-platform/internal/transport/swagger"
	"github.com/frahmantamala/evaluation-platform/internal/user"
	userPostgres "github.com/frahmantamala/evaluation-platform/internal/user/postgres"
	"github.com/frahmantamala/evaluation-platform/pkg/logger"

	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const (
	serviceName = "identity-service"
	version     = "1.0.0"
)

var identityServerCmd = &cobra.Command{
	Use:     "identity",
	Aliases: []string{"server"},
	Short:   "Start the identity service",
	Long:    `Start the HTTP server that authenticates users, issues tokens and administers accounts`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return startIdentityServer()
	},
}

type Dependencies struct {
	Config     *internal.Config
	DB         *sqlx.DB
	Gorm       *gorm.DB
	Router     *chi.Mux
	EventBus   *events.EventBus
	Dispatcher *mail.Dispatcher
	Logger     *slog.Logger
}

func startIdentityServer() error {
	deps, err := initializeDependencies()
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	if deps.Config.Seed.OnStartup {
		seeder := seed.NewSeeder(deps.Gorm, deps.Config.Security.BCryptCost, deps.Logger)
		if _, err := seeder.Run(context.Background()); err != nil {
			deps.close()
			return fmt.Errorf("failed to seed database: %w", err)
		}
	}

	if err := setupRoutes(deps); err != nil {
		deps.close()
		return err
	}

	cfg := deps.Config.Server
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           deps.Router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	return serve(server, deps.Logger, deps.close)
}

func setupRoutes(deps *Dependencies) error {
	sec := deps.Config.Security

	if _, err := swagger.LoadSpec(context.Background()); err != nil {
		return fmt.Errorf("invalid openapi document: %w", err)
	}

	issuer, err := token.NewIssuer(sec.JWTSecret, sec.AccessTokenDuration, sec.RefreshTokenDuration)
	if err != nil {
		return fmt.Errorf("failed to create token issuer: %w", err)
	}
	verifier, err := token.NewVerifier(sec.JWTSecret)
	if err != nil {
		return fmt.Errorf("failed to create token verifier: %w", err)
	}

	authService := auth.NewService(authPostgres.NewRepository(deps.Gorm), issuer, sec.BCryptCost, deps.Logger).
		WithMailer(deps.Dispatcher).
		WithPublisher(deps.EventBus).
		WithStudentMailDomain(sec.StudentMailDomain)
	authHandler := auth.NewHandler(authService, deps.Logger).
		WithRateLimit(sec.LoginRateLimit, sec.LoginRateWindow)

	userService := user.NewService(userPostgres.NewUserRepository(deps.Gorm), deps.EventBus, deps.Logger)
	userHandler := user.NewHandler(userService, deps.Logger)

	rest.RegisterIdentityRoutes(deps.Router, rest.IdentityDeps{
		DB:            deps.DB.DB,
		Info:          rest.Info{Name: serviceName, Version: version},
		Verifier:      verifier,
		AuthHandler:   authHandler,
		UserHandler:   userHandler,
		Authorization: rbac.NewAuthorization(rbac.NewPermissionChecker(), deps.Logger),
		Logger:        deps.Logger,
	})
	return nil
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	setupLogger(config)
	lg := logger.L()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gdb, err := openGorm(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	bus := events.NewEventBus(lg)
	bus.Subscribe("*", events.AuditLogger(lg))

	dispatcher := mail.NewDispatcher(mail.Config{
		MaxWorkers:  config.Mail.MaxWorkers,
		QueueSize:   config.Mail.QueueSize,
		SendTimeout: 30 * time.Second,
	}, newMailSender(config.Mail, lg), lg)
	dispatcher.Start()

	return &Dependencies{
		Config:     config,
		DB:         db,
		Gorm:       gdb,
		Router:     chi.NewRouter(),
		EventBus:   bus,
		Dispatcher: dispatcher,
		Logger:     lg,
	}, nil
}

func newMailSender(cfg internal.MailConfig, lg *slog.Logger) mail.Sender {
	if !cfg.Enabled {
		return mail.LogSender{Logger: lg}
	}
	return mail.NewSMTPSender(mail.SMTPConfig{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Username: cfg.Username,
		Password: cfg.Password,
		From:     cfg.From,
	})
}

// close drains the mail queue and pending event handlers before the
// database goes away.
func (d *Dependencies) close() {
	d.Dispatcher.Shutdown()
	d.EventBus.Wait()
	if err := d.DB.Close(); err != nil {
		d.Logger.Error("Database close error", "error", err)
	}
}
