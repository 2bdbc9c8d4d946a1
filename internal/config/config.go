package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// Database
	DBDriver   string `env:"DB_DRIVER" envDefault:"postgres"` // postgres, sqlite
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME" envDefault:"drillcoach_db"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"drillcoach.db"`

	// JWT issued by the identity provider
	JWTSecret string `env:"JWT_SECRET"`

	// Platform admins are treated as owner of every tenant.
	AdminUserIDs string `env:"ADMIN_USER_IDS"`

	// Subscriptions
	RevenueCatWebhookAuth string `env:"REVENUECAT_WEBHOOK_AUTH"`

	// Server
	Port        string        `env:"PORT" envDefault:"8080"`
	CORSOrigins string        `env:"CORS_ORIGINS" envDefault:"*"`
	RateLimit   int           `env:"RATE_LIMIT" envDefault:"60"`
	RateWindow  time.Duration `env:"RATE_WINDOW" envDefault:"1m"`
	RedisAddr   string        `env:"REDIS_ADDR"`

	// Observability
	AppEnv          string        `env:"APP_ENV" envDefault:"development"`
	SentryDSN       string        `env:"SENTRY_DSN"`
	OtelEnabled     bool          `env:"OTEL_ENABLED" envDefault:"false"`
	OtelEndpoint    string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OtelInsecure    bool          `env:"OTEL_EXPORTER_OTLP_INSECURE" envDefault:"false"`
	OtelSampleRatio float64       `env:"OTEL_SAMPLER_RATIO" envDefault:"0.1"`
	LogRetention    time.Duration `env:"LOG_RETENTION" envDefault:"720h"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET environment variable is required")
	}
	if c.DBDriver == "postgres" && c.DBPassword == "" {
		return fmt.Errorf("DB_PASSWORD environment variable is required")
	}
	if c.DBDriver != "postgres" && c.DBDriver != "sqlite" {
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	return nil
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}
