// Package llm provides centralized LLM configuration and client abstractions.
// The taste analyzer is written against the Client interface so the hosted
// Gemini API and a locally-run Ollama server are interchangeable backends.
package llm

import "time"

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for simple tasks: book identification from OCR text
	TierLite ModelTier = "lite"
	// TierStandard is for moderate reasoning: taste analysis, book scoring
	TierStandard ModelTier = "standard"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
	// ProviderOllama is a locally-run Ollama model server
	ProviderOllama Provider = "ollama"
)

// Config holds the model configuration for the application.
// It is passed explicitly into NewClient; there is no process-wide client.
type Config struct {
	Provider Provider
	Models   map[ModelTier]string

	// Generation parameters applied to every request.
	Temperature     float32
	MaxOutputTokens int32

	// OllamaBaseURL is the local model server address (ProviderOllama only).
	OllamaBaseURL string
	// Timeout bounds a single backend call. A timeout surfaces as a
	// GenerationError, same as any other backend failure.
	Timeout time.Duration
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
		},
		Temperature:     0.1,
		MaxOutputTokens: 4000,
		Timeout:         60 * time.Second,
	}
}

// DefaultOllamaConfig returns a configuration for a local Ollama server.
func DefaultOllamaConfig() *Config {
	return &Config{
		Provider: ProviderOllama,
		Models: map[ModelTier]string{
			TierLite:     "llama3.2:1b",
			TierStandard: "llama3",
		},
		Temperature:     0.1,
		MaxOutputTokens: 4000,
		OllamaBaseURL:   "http://localhost:11434",
		Timeout:         120 * time.Second,
	}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return "" // No model configured
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := *c
	newConfig.Models = make(map[ModelTier]string, len(c.Models)+1)
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return &newConfig
}
