package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the client-side configuration file (~/.ragchat/config.yaml).
// Flags override it; it never holds backend settings, which live
// server-side behind /api/settings.
type Config struct {
	// Server is the backend base URL.
	Server string `yaml:"server"`
	// PollSeconds overrides the synchronization interval. Zero means
	// the built-in default.
	PollSeconds int `yaml:"poll_seconds,omitempty"`
	// Theme selects the TUI color theme ("dark" or "light").
	Theme string `yaml:"theme,omitempty"`
	// DeepSearch turns on the deep_search flag for outgoing messages.
	DeepSearch bool `yaml:"deep_search,omitempty"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Server: "http://localhost:5000",
		Theme:  "dark",
	}
}

// DefaultConfigPath returns ~/.ragchat/config.yaml.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".ragchat", "config.yaml"), nil
}

// LoadConfig reads the config file, falling back to defaults when it
// does not exist. A malformed file is an error, not a silent default.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Server == "" {
		cfg.Server = DefaultConfig().Server
	}
	return cfg, nil
}

// SaveConfig writes the config file, creating its directory first.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// PollInterval returns the effective synchronization interval.
func (c Config) PollInterval() time.Duration {
	if c.PollSeconds > 0 {
		return time.Duration(c.PollSeconds) * time.Second
	}
	return PollInterval
}
