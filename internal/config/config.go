package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the admin API and the worker
type Config struct {
	// Database Configuration
	Database DatabaseConfig

	// Redis Configuration
	Redis RedisConfig

	// Logging Configuration
	Logging LoggingConfig

	// HTTP Configuration
	HTTP HTTPConfig

	// Auth Configuration
	Auth AuthConfig

	// Maintenance Configuration
	Maintenance MaintenanceConfig

	// Worker Configuration
	Worker WorkerConfig

	// SeedFile is a YAML file applied once to an empty database
	SeedFile string `env:"SEED_FILE"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL string `env:"DATABASE_URL" envDefault:"deliverydesk.sqlite"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Address string `env:"REDIS_ADDRESS"` // Redis address (host:port), empty disables task enqueueing
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"` // json, console
	File   string `env:"LOG_FILE"`
}

// HTTPConfig holds the listener configuration
type HTTPConfig struct {
	Addr        string   `env:"HTTP_ADDR" envDefault:":8080"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
}

// AuthConfig holds the OAuth client and token settings
type AuthConfig struct {
	TokenTTL     time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	ClientID     string        `env:"OAUTH_CLIENT_ID" envDefault:"deliverydesk-admin-console"`
	ClientSecret string        `env:"OAUTH_CLIENT_SECRET"`
}

// MaintenanceConfig holds the cleanup schedule
type MaintenanceConfig struct {
	CleanupSchedule string        `env:"CLEANUP_SCHEDULE" envDefault:"0 * * * *"`
	AuditRetention  time.Duration `env:"AUDIT_RETENTION" envDefault:"720h"`
}

// WorkerConfig holds the worker's own listener
type WorkerConfig struct {
	MetricsAddr string `env:"WORKER_METRICS_ADDR" envDefault:":9091"` // empty disables /metrics
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env files (fails silently if files don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if cfg.Auth.TokenTTL <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL must be positive, got %s", cfg.Auth.TokenTTL)
	}

	return cfg, nil
}
