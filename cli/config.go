// ABOUTME: Configuration CLI commands
// ABOUTME: Shows and updates the persisted client configuration
package cli

import (
	"flag"
	"fmt"

	"salespad/config"
)

// ConfigShowCommand prints the current configuration. The API token is
// masked.
func ConfigShowCommand(cfg *config.Config, args []string) error {
	fmt.Printf("Config file: %s\n\n", config.Path())
	fmt.Printf("API URL: %s\n", cfg.BaseURL)
	token := "(not set)"
	if cfg.Token != "" {
		token = maskToken(cfg.Token)
	}
	fmt.Printf("API token: %s\n", token)
	fmt.Printf("Device ID: %s\n", cfg.DeviceID)
	fmt.Printf("Demo fallback: %t\n", cfg.DemoFallback)
	return nil
}

// ConfigSetCommand updates configuration fields and saves the file.
func ConfigSetCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("config set", flag.ExitOnError)
	apiURL := fs.String("api-url", "", "Backend API base URL")
	token := fs.String("token", "", "Backend API token")
	demo := fs.String("demo-fallback", "", "Enable demo data fallback (true or false)")
	_ = fs.Parse(args)

	changed := false
	if *apiURL != "" {
		cfg.BaseURL = *apiURL
		changed = true
	}
	if *token != "" {
		cfg.Token = *token
		changed = true
	}
	switch *demo {
	case "":
	case "true":
		cfg.DemoFallback = true
		changed = true
	case "false":
		cfg.DemoFallback = false
		changed = true
	default:
		return fmt.Errorf("--demo-fallback must be true or false")
	}

	if !changed {
		return fmt.Errorf("nothing to set; see config set -h")
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Println("✓ Configuration saved")
	return nil
}

func maskToken(token string) string {
	if len(token) <= 8 {
		return "********"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
