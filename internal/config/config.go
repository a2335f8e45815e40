// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Paths
	Input         string `json:"input,omitempty"`          // Path to the input SKU table (CSV/TSV)
	Output        string `json:"output,omitempty"`         // Path to the generated reviews CSV
	CheckpointDir string `json:"checkpoint_dir,omitempty"` // Directory holding run checkpoints

	// Generation
	Mode        string  `json:"mode,omitempty"`        // quick, medium, or comprehensive
	Provider    string  `json:"provider,omitempty"`    // openai or gemini
	Model       string  `json:"model,omitempty"`       // Override the provider's default model
	Temperature float64 `json:"temperature,omitempty"` // Sampling temperature (0.0-2.0)
	FMCGOnly    bool    `json:"fmcg_only,omitempty"`   // Restrict input rows to the FMCG category

	// Cadence
	CheckpointInterval int `json:"checkpoint_interval,omitempty"` // Reviews between checkpoints
	BackupInterval     int `json:"backup_interval,omitempty"`     // Reviews between output backups
	MaxCheckpoints     int `json:"max_checkpoints,omitempty"`     // Non-final checkpoints retained per run

	// Behavior
	APIKey      string `json:"api_key,omitempty"`      // Provider API key
	Verbose     bool   `json:"verbose,omitempty"`      // Print detailed debug information
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
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
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.Mode != "" {
		switch c.Mode {
		case "quick", "medium", "comprehensive":
		default:
			return fmt.Errorf("config error: 'mode' must be quick, medium, or comprehensive")
		}
	}

	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("config error: 'temperature' must be between 0.0 and 2.0")
	}
	if c.CheckpointInterval < 0 {
		return fmt.Errorf("config error: 'checkpoint_interval' must be non-negative")
	}
	if c.BackupInterval < 0 {
		return fmt.Errorf("config error: 'backup_interval' must be non-negative")
	}
	if c.MaxCheckpoints < 0 {
		return fmt.Errorf("config error: 'max_checkpoints' must be non-negative")
	}

	// Validate file paths exist (if specified)
	if c.Input != "" {
		if _, err := os.Stat(c.Input); os.IsNotExist(err) {
			return fmt.Errorf("config error: input file not found: %s", c.Input)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Input == "" {
		result.Input = defaults.Input
	}
	if result.Output == "" {
		result.Output = defaults.Output
	}
	if result.CheckpointDir == "" {
		result.CheckpointDir = defaults.CheckpointDir
	}
	if result.Mode == "" {
		result.Mode = defaults.Mode
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
	if result.Temperature == 0 {
		result.Temperature = defaults.Temperature
	}
	if result.CheckpointInterval == 0 {
		result.CheckpointInterval = defaults.CheckpointInterval
	}
	if result.BackupInterval == 0 {
		result.BackupInterval = defaults.BackupInterval
	}
	if result.MaxCheckpoints == 0 {
		result.MaxCheckpoints = defaults.MaxCheckpoints
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
