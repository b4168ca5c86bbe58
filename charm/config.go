// ABOUTME: Configuration for the Charm KV backend connection
// ABOUTME: Handles server settings and auto-sync preferences

package charm

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/charm/kv"
)

const (
	// DefaultCharmHost is the self-hosted 2389 research server.
	DefaultCharmHost = "charm.2389.dev"

	// AppName is the application name for the Charm KV database.
	AppName = "salespad"

	// ConfigFileName is where we store local config.
	ConfigFileName = "charm-config.json"
)

// Config holds charm connection settings.
type Config struct {
	// Host is the charm server hostname (default: charm.2389.dev)
	Host string `json:"host,omitempty"`

	// AutoSync enables automatic sync after every write operation
	AutoSync bool `json:"auto_sync"`

	// StaleThreshold is the duration before data is considered stale and needs a sync
	StaleThreshold time.Duration `json:"stale_threshold,omitempty"`
}

// DefaultConfig returns a new config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Host:           DefaultCharmHost,
		AutoSync:       true,
		StaleThreshold: kv.DefaultStaleThreshold,
	}
}

// configPath returns the path to the config file.
func configPath() (string, error) {
	dataDir := filepath.Join(xdg.DataHome, AppName)
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return "", err
	}
	return filepath.Join(dataDir, ConfigFileName), nil
}

// LoadConfig loads config from disk, or returns defaults if not found.
func LoadConfig() (*Config, error) {
	path, err := configPath()
	if err != nil {
		// Can't determine config path, use defaults
		return DefaultConfig(), nil //nolint:nilerr // Intentionally returning defaults on path error
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		// Invalid config, use defaults
		return DefaultConfig(), nil //nolint:nilerr // Intentionally returning defaults on parse error
	}

	// Apply defaults for missing fields
	if cfg.Host == "" {
		cfg.Host = DefaultCharmHost
	}
	if cfg.StaleThreshold == 0 {
		cfg.StaleThreshold = kv.DefaultStaleThreshold
	}

	return &cfg, nil
}

// Save persists the config to disk.
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// SetHost sets the charm server host and saves.
func (c *Config) SetHost(host string) error {
	c.Host = host
	return c.Save()
}

// SetAutoSync enables or disables auto-sync and saves.
func (c *Config) SetAutoSync(enabled bool) error {
	c.AutoSync = enabled
	return c.Save()
}
