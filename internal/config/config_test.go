package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_Valid(t *testing.T) {
	path := writeConfigFile(t, `{
  "provider": "ollama",
  "ollama_base_url": "http://localhost:11434",
  "top_n": 5,
  "database_url": "postgres://localhost/aletheia",
  "allowed_origins": ["http://localhost:3000"]
}`)

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "ollama", cfg.Provider)
	assert.Equal(t, "http://localhost:11434", cfg.OllamaBaseURL)
	assert.Equal(t, 5, cfg.TopN)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	_, err := LoadConfig("")

	assert.Error(t, err)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))

	assert.Error(t, err)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	path := writeConfigFile(t, `{provider: gemini}`)

	_, err := LoadConfig(path)

	assert.Error(t, err)
}

func TestValidate_RejectsUnknownProvider(t *testing.T) {
	cfg := Config{Provider: "openai"}

	err := cfg.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider")
}

func TestValidate_RejectsBadRanges(t *testing.T) {
	assert.Error(t, (&Config{Temperature: 1.5}).Validate())
	assert.Error(t, (&Config{TopN: -1}).Validate())
	assert.Error(t, (&Config{Port: 70000}).Validate())
}

func TestValidate_RejectsMissingBookFiles(t *testing.T) {
	cfg := Config{ReadBooks: filepath.Join(t.TempDir(), "missing.json")}

	err := cfg.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "read books file not found")
}

func TestValidate_AcceptsEmptyConfig(t *testing.T) {
	assert.NoError(t, (&Config{}).Validate())
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{Provider: "gemini", TopN: 3}
	defaults := Config{
		Provider:       "ollama",
		APIKey:         "default-key",
		TopN:           10,
		Port:           8080,
		Temperature:    0.4,
		AllowedOrigins: []string{"http://localhost:3000"},
	}

	merged := cfg.MergeWithDefaults(defaults)

	// Set values win over defaults
	assert.Equal(t, "gemini", merged.Provider)
	assert.Equal(t, 3, merged.TopN)
	// Unset values are filled in
	assert.Equal(t, "default-key", merged.APIKey)
	assert.Equal(t, 8080, merged.Port)
	assert.InDelta(t, 0.4, merged.Temperature, 0.001)
	assert.Equal(t, []string{"http://localhost:3000"}, merged.AllowedOrigins)
	// Original config is not mutated
	assert.Empty(t, cfg.APIKey)
}

func TestMergeWithDefaults_TemperatureFallback(t *testing.T) {
	merged := (&Config{}).MergeWithDefaults(Config{})

	assert.InDelta(t, 0.1, merged.Temperature, 0.001)
}
