package userconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/deliverydesk/deliverydesk/internal/cli/config"
)

const configFileName = "config.json"

// UserConfig represents the user's local configuration stored in ~/.config/deliverydesk/config.json
type UserConfig struct {
	SelectedEnvironment string               `json:"selected_environment"`
	Environments        []config.Environment `json:"environments,omitempty"`
}

// Path returns the path to the user config file inside dir
func Path(dir string) string {
	return filepath.Join(dir, configFileName)
}

// Load reads the user configuration file. A missing file yields an empty config.
func Load(dir string) (*UserConfig, error) {
	configPath := Path(dir)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return &UserConfig{}, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read user config file: %w", err)
	}

	var cfg UserConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse user config file: %w", err)
	}

	return &cfg, nil
}

// Save writes the user configuration to a file
func Save(dir string, cfg *UserConfig) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal user config: %w", err)
	}

	if err := os.WriteFile(Path(dir), data, 0644); err != nil {
		return fmt.Errorf("failed to write user config file: %w", err)
	}

	return nil
}

// SetSelectedEnvironment updates the selected environment and saves the config
func SetSelectedEnvironment(dir, name string) error {
	cfg, err := Load(dir)
	if err != nil {
		return err
	}

	cfg.SelectedEnvironment = name
	return Save(dir, cfg)
}
