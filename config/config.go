// ABOUTME: Application configuration for the backend API connection
// ABOUTME: Handles XDG config storage, .env loading, env overrides, and device ID generation
package config

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/oklog/ulid/v2"
)

// DefaultBaseURL is used when neither the config file nor the environment
// names a backend.
const DefaultBaseURL = "http://localhost:8000/api"

// Config stores backend connection settings and local preferences.
type Config struct {
	BaseURL      string `json:"base_url"`
	Token        string `json:"token,omitempty"`
	DeviceID     string `json:"device_id"`
	DemoFallback bool   `json:"demo_fallback"`
}

// Dir returns the XDG-compliant directory for salespad configuration.
func Dir() string {
	return filepath.Join(xdg.DataHome, "salespad")
}

// Path returns the XDG-compliant path for the config file.
func Path() string {
	return filepath.Join(Dir(), "config.json")
}

// Load reads configuration in layers: defaults, then the XDG config file,
// then a .env file in the working directory, then process environment
// variables. Later layers win. Environment overrides:
// - SALESPAD_API_URL
// - SALESPAD_API_TOKEN
// - SALESPAD_DEVICE_ID
// - SALESPAD_DEMO_FALLBACK.
func Load() (*Config, error) {
	cfg := &Config{
		BaseURL:      DefaultBaseURL,
		DemoFallback: true,
	}

	f, err := os.Open(Path())
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to open config file: %w", err)
		}
	} else {
		defer func() { _ = f.Close() }()
		if err := json.NewDecoder(f).Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config: %w", err)
		}
	}

	// .env is optional; missing file is not an error
	_ = godotenv.Load()

	applyEnvOverrides(cfg)

	if cfg.DeviceID == "" {
		cfg.DeviceID = GenerateDeviceID()
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	if url := os.Getenv("SALESPAD_API_URL"); url != "" {
		cfg.BaseURL = url
	}
	if token := os.Getenv("SALESPAD_API_TOKEN"); token != "" {
		cfg.Token = token
	}
	if deviceID := os.Getenv("SALESPAD_DEVICE_ID"); deviceID != "" {
		cfg.DeviceID = deviceID
	}
	if demo := os.Getenv("SALESPAD_DEMO_FALLBACK"); demo != "" {
		cfg.DemoFallback = demo == "true" || demo == "1"
	}
}

// Save persists the configuration to the XDG data directory.
func Save(cfg *Config) error {
	path := Path()

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Token lives in here, so keep permissions restricted
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

// IsConfigured checks whether the config carries enough to talk to a backend.
func (c *Config) IsConfigured() bool {
	return c.BaseURL != "" && c.Token != ""
}

// GenerateDeviceID generates a new ULID for device identification.
func GenerateDeviceID() string {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
