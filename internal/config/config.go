// Package config provides configuration loading and validation for the CLI
// and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided
// via CLI flags.
type Config struct {
	// Inputs
	Requisition    string `json:"requisition,omitempty"`     // Path to a requisition JSON file
	RequisitionURL string `json:"requisition_url,omitempty"` // URL of a job posting to ingest

	// Model
	Provider string `json:"provider,omitempty"` // LLM provider: gemini or openrouter
	Model    string `json:"model,omitempty"`    // Model identifier
	APIKey   string `json:"api_key,omitempty"`  // Provider API key

	// Loop
	MaxIterations int     `json:"max_iterations,omitempty"` // Cap on analysis rounds
	FitThreshold  float64 `json:"fit_threshold,omitempty"`  // Overall fit score required to converge

	// Server
	Port        int    `json:"port,omitempty"`         // HTTP listen port
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL

	// Behavior
	Verbose bool `json:"verbose,omitempty"` // Print detailed progress information
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Required fields are enforced by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.Requisition != "" && c.RequisitionURL != "" {
		return fmt.Errorf("config error: 'requisition' and 'requisition_url' are mutually exclusive")
	}

	if c.MaxIterations < 0 {
		return fmt.Errorf("config error: 'max_iterations' must be non-negative")
	}
	if c.FitThreshold < 0 || c.FitThreshold > 10 {
		return fmt.Errorf("config error: 'fit_threshold' must be between 0 and 10")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' out of range: %d", c.Port)
	}

	switch c.Provider {
	case "", "gemini", "openrouter":
	default:
		return fmt.Errorf("config error: unknown provider %q", c.Provider)
	}

	if c.Requisition != "" {
		if _, err := os.Stat(c.Requisition); os.IsNotExist(err) {
			return fmt.Errorf("config error: requisition file not found: %s", c.Requisition)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with unset fields filled from
// defaults. This is used to apply config file values as defaults for CLI
// flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Requisition == "" {
		result.Requisition = defaults.Requisition
	}
	if result.RequisitionURL == "" {
		result.RequisitionURL = defaults.RequisitionURL
	}
	if result.Provider == "" {
		result.Provider = defaults.Provider
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	// Numeric fields: use default if zero
	if result.MaxIterations == 0 {
		result.MaxIterations = defaults.MaxIterations
	}
	if result.FitThreshold == 0 {
		result.FitThreshold = defaults.FitThreshold
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
