package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/priyansh/aletheia/internal/llm"
	"github.com/priyansh/aletheia/internal/types"
)

// loadBooks reads a JSON array of books from a file.
func loadBooks(path string) ([]types.Book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read books file %s: %w", path, err)
	}

	var books []types.Book
	if err := json.Unmarshal(data, &books); err != nil {
		return nil, fmt.Errorf("failed to parse books file %s: %w", path, err)
	}
	return types.NormalizeBooks(books), nil
}

// newLLMClient builds an LLM client from the provider flag and environment.
func newLLMClient(ctx context.Context, provider, apiKey, ollamaURL string) (llm.Client, error) {
	cfg := llm.DefaultGeminiConfig()
	if provider == string(llm.ProviderOllama) {
		cfg = llm.DefaultOllamaConfig()
		if ollamaURL != "" {
			cfg.OllamaBaseURL = ollamaURL
		}
	}

	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.Provider == llm.ProviderGemini && apiKey == "" {
		return nil, fmt.Errorf("API key is required (set GEMINI_API_KEY environment variable or use --api-key flag)")
	}

	return llm.NewClient(ctx, cfg, apiKey)
}
