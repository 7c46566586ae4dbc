// Package config resolves the CLI shell's runtime settings from the
// environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config carries everything the intake shell needs to run against a platform
// environment.
type Config struct {
	// BackendURL is the platform API endpoint. Empty keeps the mock client.
	BackendURL string `env:"INTAKE_BACKEND_URL"`

	// APIKey authenticates platform calls.
	APIKey string `env:"INTAKE_API_KEY"`

	// DraftDBPath locates the local draft database.
	DraftDBPath string `env:"INTAKE_DRAFT_DB" envDefault:"intake-drafts.db"`

	// DraftDebounce is the auto-save settle interval.
	DraftDebounce time.Duration `env:"INTAKE_DRAFT_DEBOUNCE" envDefault:"500ms"`

	// TeamName signs outgoing supplier emails.
	TeamName string `env:"INTAKE_TEAM_NAME" envDefault:"The Buying Team"`

	// Verbose switches the logger from production to development output.
	Verbose bool `env:"INTAKE_VERBOSE"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse environment: %w", err)
	}
	return cfg, nil
}
