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
	ReadBooks   string `json:"read_books,omitempty"`   // Path to JSON file with already-read books
	UnreadBooks string `json:"unread_books,omitempty"` // Path to JSON file with candidate books

	// LLM backend
	Provider      string  `json:"provider,omitempty"`        // "gemini" or "ollama"
	APIKey        string  `json:"api_key,omitempty"`         // Gemini API key
	OllamaBaseURL string  `json:"ollama_base_url,omitempty"` // Ollama server URL
	LiteModel     string  `json:"lite_model,omitempty"`      // Model for lightweight calls
	StandardModel string  `json:"standard_model,omitempty"`  // Model for scoring and analysis
	Temperature   float64 `json:"temperature,omitempty"`     // Sampling temperature (0.0-1.0)

	// Vision backend
	DetectionAPIKey string `json:"detection_api_key,omitempty"` // Hosted detection API key
	DetectionModel  string `json:"detection_model,omitempty"`   // Detection model ID

	// Behavior
	TopN    int  `json:"top_n,omitempty"`   // Number of recommendations to return
	Verbose bool `json:"verbose,omitempty"` // Print detailed debug information

	// Server
	Port           int      `json:"port,omitempty"`            // HTTP server port
	AllowedOrigins []string `json:"allowed_origins,omitempty"` // CORS origins for the server
	DatabaseURL    string   `json:"database_url,omitempty"`    // PostgreSQL connection URL
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
// Required fields are handled by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.Provider != "" && c.Provider != "gemini" && c.Provider != "ollama" {
		return fmt.Errorf("config error: 'provider' must be 'gemini' or 'ollama', got %q", c.Provider)
	}

	if c.Temperature < 0 || c.Temperature > 1 {
		return fmt.Errorf("config error: 'temperature' must be between 0.0 and 1.0")
	}
	if c.TopN < 0 {
		return fmt.Errorf("config error: 'top_n' must be non-negative")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be a valid port number")
	}

	// Validate file paths exist (if specified)
	if c.ReadBooks != "" {
		if _, err := os.Stat(c.ReadBooks); os.IsNotExist(err) {
			return fmt.Errorf("config error: read books file not found: %s", c.ReadBooks)
		}
	}
	if c.UnreadBooks != "" {
		if _, err := os.Stat(c.UnreadBooks); os.IsNotExist(err) {
			return fmt.Errorf("config error: unread books file not found: %s", c.UnreadBooks)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.ReadBooks == "" {
		result.ReadBooks = defaults.ReadBooks
	}
	if result.UnreadBooks == "" {
		result.UnreadBooks = defaults.UnreadBooks
	}
	if result.Provider == "" {
		result.Provider = defaults.Provider
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.OllamaBaseURL == "" {
		result.OllamaBaseURL = defaults.OllamaBaseURL
	}
	if result.LiteModel == "" {
		result.LiteModel = defaults.LiteModel
	}
	if result.StandardModel == "" {
		result.StandardModel = defaults.StandardModel
	}
	if result.DetectionAPIKey == "" {
		result.DetectionAPIKey = defaults.DetectionAPIKey
	}
	if result.DetectionModel == "" {
		result.DetectionModel = defaults.DetectionModel
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if len(result.AllowedOrigins) == 0 {
		result.AllowedOrigins = defaults.AllowedOrigins
	}

	// Numeric fields: use default if zero
	if result.TopN == 0 {
		result.TopN = defaults.TopN
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.Temperature == 0 {
		if defaults.Temperature > 0 {
			result.Temperature = defaults.Temperature
		} else {
			result.Temperature = 0.1 // Low temperature keeps scoring output stable
		}
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
