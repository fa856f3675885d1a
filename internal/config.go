package internal

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

// MinSecretLength is the minimum HMAC-SHA256 key length in bytes.
const MinSecretLength = 32

type Config struct {
	Server   ServerConfig   `mapstructure:"http_server" envconfig:"HTTP_SERVER"`
	Gateway  GatewayConfig  `mapstructure:"gateway" envconfig:"GATEWAY"`
	Database DatabaseConfig `mapstructure:"database" envconfig:"DATABASE"`
	Security SecurityConfig `mapstructure:"security" envconfig:"SECURITY"`
	Mail     MailConfig     `mapstructure:"mail" envconfig:"MAIL"`
	Seed     SeedConfig     `mapstructure:"seed" envconfig:"SEED"`
	Logging  LoggingConfig  `mapstructure:"logging" envconfig:"LOGGING"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port" envconfig:"PORT" default:"8081" validate:"min=0,max=65535"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" envconfig:"READ_HEADER_TIMEOUT" default:"5s"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
}

type GatewayConfig struct {
	Port            int               `mapstructure:"port" envconfig:"PORT" default:"8080" validate:"min=0,max=65535"`
	Routes          map[string]string `mapstructure:"routes" envconfig:"ROUTES"`
	StripPrefix     string            `mapstructure:"strip_prefix" envconfig:"STRIP_PREFIX" default:"/api"`
	AllowedOrigins  []string          `mapstructure:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000,http://localhost:3001,http://127.0.0.1:3000,http://127.0.0.1:3001"`
	UpstreamTimeout time.Duration     `mapstructure:"upstream_timeout" envconfig:"UPSTREAM_TIMEOUT" default:"30s"`
}

type DatabaseConfig struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns" envconfig:"MAX_OPEN_CONNS" default:"25" validate:"min=0"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" envconfig:"MAX_IDLE_CONNS" default:"5" validate:"min=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" envconfig:"CONN_MAX_LIFETIME" default:"30m"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time" envconfig:"CONN_MAX_IDLE_TIME" default:"5m"`
	Source          string        `mapstructure:"source" envconfig:"SOURCE"`
}

type SecurityConfig struct {
	JWTSecret            string        `mapstructure:"jwt_secret" envconfig:"JWT_SECRET" validate:"required"`
	AccessTokenDuration  time.Duration `mapstructure:"access_token_duration" envconfig:"ACCESS_TOKEN_DURATION" default:"1h"`
	RefreshTokenDuration time.Duration `mapstructure:"refresh_token_duration" envconfig:"REFRESH_TOKEN_DURATION" default:"168h"`
	BCryptCost           int           `mapstructure:"bcrypt_cost" envconfig:"BCRYPT_COST" default:"10" validate:"min=4,max=15"`
	LoginRateLimit       int           `mapstructure:"login_rate_limit" envconfig:"LOGIN_RATE_LIMIT" default:"20" validate:"min=0"`
	LoginRateWindow      time.Duration `mapstructure:"login_rate_window" envconfig:"LOGIN_RATE_WINDOW" default:"1m"`
	StudentMailDomain    string        `mapstructure:"student_mail_domain" envconfig:"STUDENT_MAIL_DOMAIN" default:"student.ptithcm.edu.vn" validate:"omitempty,fqdn"`
}

type MailConfig struct {
	Enabled    bool   `mapstructure:"enabled" envconfig:"ENABLED"`
	Host       string `mapstructure:"host" envconfig:"HOST" validate:"required_if=Enabled true"`
	Port       int    `mapstructure:"port" envconfig:"PORT" default:"587"`
	Username   string `mapstructure:"username" envconfig:"USERNAME"`
	Password   string `mapstructure:"password" envconfig:"PASSWORD"`
	From       string `mapstructure:"from" envconfig:"FROM" default:"no-reply@ptit.edu.vn"`
	MaxWorkers int    `mapstructure:"max_workers" envconfig:"MAX_WORKERS" default:"2" validate:"min=0"`
	QueueSize  int    `mapstructure:"queue_size" envconfig:"QUEUE_SIZE" default:"100" validate:"min=0"`
}

type SeedConfig struct {
	OnStartup bool `mapstructure:"on_startup" envconfig:"ON_STARTUP" default:"true"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" envconfig:"LEVEL" default:"info" validate:"omitempty,oneof=debug info warn error"`
	Format string `mapstructure:"format" envconfig:"FORMAT" default:"json" validate:"omitempty,oneof=json text"`
}

// LoadConfigFromEnv reads configuration from APP_* environment variables.
func LoadConfigFromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("app", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	return &cfg, nil
}

// ----------------- VALIDATION -----------------

var configValidator = validator.New()

func (c *Config) Validate() error {
	var errs []string

	if err := configValidator.Struct(c); err != nil {
		errs = append(errs, err.Error())
	}

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Gateway.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("gateway config: %v", err))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}

	if err := c.Security.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("security config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

func (c *GatewayConfig) Validate() error {
	for prefix, upstream := range c.Routes {
		if !strings.HasPrefix(prefix, "/") {
			return fmt.Errorf("route prefix %q must start with /", prefix)
		}
		u, err := url.Parse(upstream)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid upstream %q for route %s", upstream, prefix)
		}
	}
	for _, origin := range c.AllowedOrigins {
		origin = strings.TrimSpace(origin)
		if origin == "*" {
			return errors.New("wildcard origin is not allowed with credentials")
		}
		if _, err := url.Parse(origin); err != nil {
			return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
		}
	}
	return nil
}

func (c *DatabaseConfig) Validate() error {
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *DatabaseConfig) GetDSN() string {
	return c.Source
}

func (c *SecurityConfig) Validate() error {
	if len(c.JWTSecret) < MinSecretLength {
		return fmt.Errorf("jwt secret must be at least %d bytes", MinSecretLength)
	}
	if c.AccessTokenDuration <= 0 {
		return errors.New("access_token_duration must be positive")
	}
	if c.RefreshTokenDuration <= c.AccessTokenDuration {
		return errors.New("refresh_token_duration must be longer than access_token_duration")
	}
	return nil
}
