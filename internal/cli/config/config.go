package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Mode is the build mode of the console binary
type Mode string

const (
	ModeDevelopment Mode = "development"
	ModeProduction  Mode = "production"
)

const (
	// DefaultDevProxyURL is the local dev proxy in front of the API
	DefaultDevProxyURL = "http://localhost:5173/api/v1"
	// ProductionAPIURL is the absolute URL of the production admin API
	ProductionAPIURL = "https://admin-api.deliverydesk.io/api/v1"
	// ProductionDashboardURL is the web dashboard served for production
	ProductionDashboardURL = "https://admin.deliverydesk.io"

	DefaultClientID = "deliverydesk-admin-console"

	configDirName = "deliverydesk"
)

// Token store backends
const (
	TokenStoreKeyring = "keyring"
	TokenStoreFile    = "file"
)

// Environment is a named admin API deployment
type Environment struct {
	Name         string `json:"name"`
	APIURL       string `json:"api_url"`
	DashboardURL string `json:"dashboard_url,omitempty"`
}

// Config holds the console configuration. Every field can be overridden from the environment.
type Config struct {
	Mode         Mode   `env:"DESK_MODE"`
	APIURL       string `env:"DESK_API_URL"`
	DevProxyURL  string `env:"DESK_DEV_PROXY" envDefault:"http://localhost:5173/api/v1"`
	Environment  string `env:"DESK_ENV"`
	TokenStore   string `env:"DESK_TOKEN_STORE" envDefault:"keyring"`
	ClientID     string `env:"DESK_CLIENT_ID" envDefault:"deliverydesk-admin-console"`
	ClientSecret string `env:"DESK_CLIENT_SECRET"`
	LogLevel     string `env:"DESK_LOG_LEVEL" envDefault:"warn"`
	ConfigDir    string `env:"DESK_CONFIG_DIR"`
}

// Load reads the configuration. buildMode is the value baked in at build time; DESK_MODE wins
// over it.
func Load(buildMode string) (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse console config: %w", err)
	}

	if cfg.Mode == "" {
		cfg.Mode = ParseMode(buildMode)
	} else {
		cfg.Mode = ParseMode(string(cfg.Mode))
	}

	switch cfg.TokenStore {
	case TokenStoreKeyring, TokenStoreFile:
	default:
		return nil, fmt.Errorf("invalid DESK_TOKEN_STORE '%s', must be one of: keyring, file", cfg.TokenStore)
	}

	if cfg.ConfigDir == "" {
		dir, err := DefaultConfigDir()
		if err != nil {
			return nil, err
		}
		cfg.ConfigDir = dir
	}

	return cfg, nil
}

// ParseMode maps a build flag to a Mode. Anything that isn't development is production.
func ParseMode(value string) Mode {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "dev", "development":
		return ModeDevelopment
	default:
		return ModeProduction
	}
}

// BaseURL selects the API root for a build mode: the dev proxy path in development, the
// absolute production URL otherwise.
func BaseURL(mode Mode, devProxyURL string) string {
	if mode == ModeDevelopment {
		if devProxyURL == "" {
			return DefaultDevProxyURL
		}
		return devProxyURL
	}
	return ProductionAPIURL
}

// DefaultEnvironment is the environment used when none was selected
func (c *Config) DefaultEnvironment() Environment {
	env := Environment{
		Name:   string(c.Mode),
		APIURL: BaseURL(c.Mode, c.DevProxyURL),
	}
	if c.Mode == ModeProduction {
		env.DashboardURL = ProductionDashboardURL
	} else {
		env.DashboardURL = strings.TrimSuffix(env.APIURL, "/api/v1")
	}
	return env
}

// Environments returns the built-in environments followed by the user defined ones
func (c *Config) Environments(custom []Environment) []Environment {
	dev := Config{Mode: ModeDevelopment, DevProxyURL: c.DevProxyURL}
	prod := Config{Mode: ModeProduction}

	envs := []Environment{prod.DefaultEnvironment(), dev.DefaultEnvironment()}
	for _, e := range custom {
		replaced := false
		for i := range envs {
			if envs[i].Name == e.Name {
				envs[i] = e
				replaced = true
			}
		}
		if !replaced {
			envs = append(envs, e)
		}
	}
	return envs
}

// DefaultConfigDir returns ~/.config/deliverydesk
func DefaultConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", configDirName), nil
}
