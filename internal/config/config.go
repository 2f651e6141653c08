package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
)

// Count and duplicate policy names accepted in CART_* variables.
const (
	CountModeDerived = "derived"
	CountModeLegacy  = "legacy"

	DuplicateModeAppend = "append"
	DuplicateModeMerge  = "merge"

	QueryModeBypass   = "bypass"
	QueryModeComposed = "composed"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Logger    LoggerConfig
	Upstream  UpstreamConfig
	Session   SessionConfig
	Cart      CartConfig
	Catalog   CatalogConfig
	Database  DatabaseConfig
	Snapshot  SnapshotConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port int    `env:"SERVER_PORT" envDefault:"8080" validate:"min=1,max=65535"`
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	Format string `env:"LOG_FORMAT" envDefault:"json" validate:"oneof=json console"` // "json" or "console"
}

// UpstreamConfig describes the remote menu/order API.
type UpstreamConfig struct {
	BaseURL string        `env:"UPSTREAM_BASE_URL" envDefault:"https://w17-wareg.onrender.com" validate:"required,url"`
	Timeout time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"0s" validate:"gte=0"` // 0 disables the client timeout

	BreakerEnabled      bool          `env:"UPSTREAM_BREAKER_ENABLED" envDefault:"true"`
	BreakerMinRequests  uint32        `env:"UPSTREAM_BREAKER_MIN_REQUESTS" envDefault:"5"`
	BreakerFailureRatio float64       `env:"UPSTREAM_BREAKER_FAILURE_RATIO" envDefault:"0.6" validate:"gt=0,lte=1"`
	BreakerOpenTimeout  time.Duration `env:"UPSTREAM_BREAKER_OPEN_TIMEOUT" envDefault:"30s"`
}

// SessionConfig controls the lifetime of browser sessions.
type SessionConfig struct {
	CookieName   string        `env:"SESSION_COOKIE" envDefault:"sid" validate:"required"`
	TokenCookie  string        `env:"TOKEN_COOKIE" envDefault:"token" validate:"required"`
	IdleTimeout  time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"30m"`
	SecureCookie bool          `env:"SESSION_SECURE_COOKIE" envDefault:"false"`
}

// CartConfig selects the cart bookkeeping policies.
type CartConfig struct {
	CountMode     string `env:"CART_COUNT_MODE" envDefault:"derived" validate:"oneof=derived legacy"`
	DuplicateMode string `env:"CART_DUPLICATE_MODE" envDefault:"append" validate:"oneof=append merge"`
}

// CatalogConfig controls catalogue filtering and paging.
type CatalogConfig struct {
	PageSize  int    `env:"CATALOG_PAGE_SIZE" envDefault:"9" validate:"min=1"`
	QueryMode string `env:"CATALOG_QUERY_MODE" envDefault:"bypass" validate:"oneof=bypass composed"`
}

// DatabaseConfig holds the checkout journal database configuration.
type DatabaseConfig struct {
	Enabled         bool   `env:"DB_ENABLED" envDefault:"false"`
	Host            string `env:"DB_HOST" envDefault:"localhost"`
	Port            int    `env:"DB_PORT" envDefault:"5432"`
	User            string `env:"DB_USER" envDefault:"postgres"`
	Password        string `env:"DB_PASSWORD" envDefault:""`
	Database        string `env:"DB_NAME" envDefault:"wareg"`
	MaxConnections  int    `env:"DB_MAX_CONNECTIONS" envDefault:"10"`
	MinConnections  int    `env:"DB_MIN_CONNECTIONS" envDefault:"1"`
	MaxConnLifetime int    `env:"DB_MAX_CONN_LIFETIME" envDefault:"300"` // seconds
}

// SnapshotConfig holds the menu snapshot fallback configuration.
type SnapshotConfig struct {
	Enabled   bool   `env:"SNAPSHOT_ENABLED" envDefault:"false"`
	Path      string `env:"SNAPSHOT_PATH" envDefault:"data/menus.json.gz"`
	S3Enabled bool   `env:"S3_ENABLED" envDefault:"false"`
	Bucket    string `env:"S3_BUCKET" envDefault:""`
	Region    string `env:"S3_REGION" envDefault:"ap-southeast-1"`
	Prefix    string `env:"S3_PREFIX" envDefault:"snapshots/"` // Path prefix within bucket
}

// RateLimitConfig bounds request rates per session and per client IP.
type RateLimitConfig struct {
	Enabled        bool          `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	RPS            float64       `env:"RATE_LIMIT_RPS" envDefault:"10"`
	Burst          int           `env:"RATE_LIMIT_BURST" envDefault:"20"`
	ClientRPS      float64       `env:"RATE_LIMIT_CLIENT_RPS" envDefault:"20"`
	ClientBurst    int           `env:"RATE_LIMIT_CLIENT_BURST" envDefault:"40"`
	ClientTTL      time.Duration `env:"RATE_LIMIT_CLIENT_TTL" envDefault:"3m"`
	TrustForwarded bool          `env:"RATE_LIMIT_TRUST_FORWARDED" envDefault:"false"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("invalid %s: %v (rule %s)", fe.Namespace(), fe.Value(), fe.Tag())
		}
		return err
	}

	if c.Database.Enabled {
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}

		if c.Database.Port < 1 || c.Database.Port > 65535 {
			return fmt.Errorf("invalid database port: %d", c.Database.Port)
		}

		if c.Database.User == "" {
			return fmt.Errorf("database user is required")
		}

		if c.Database.Database == "" {
			return fmt.Errorf("database name is required")
		}

		if c.Database.MaxConnections < 1 {
			return fmt.Errorf("database max connections must be at least 1")
		}

		if c.Database.MinConnections < 1 {
			return fmt.Errorf("database min connections must be at least 1")
		}

		if c.Database.MinConnections > c.Database.MaxConnections {
			return fmt.Errorf("database min connections cannot exceed max connections")
		}
	}

	if c.Snapshot.S3Enabled {
		if c.Snapshot.Bucket == "" {
			return fmt.Errorf("S3 bucket is required when S3 is enabled")
		}
		if c.Snapshot.Region == "" {
			return fmt.Errorf("S3 region is required when S3 is enabled")
		}
	}

	if c.RateLimit.Enabled && (c.RateLimit.RPS <= 0 || c.RateLimit.Burst < 1) {
		return fmt.Errorf("rate limit requires positive rps and burst")
	}

	if c.RateLimit.Enabled && (c.RateLimit.ClientRPS <= 0 || c.RateLimit.ClientBurst < 1) {
		return fmt.Errorf("client rate limit requires positive rps and burst")
	}

	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
