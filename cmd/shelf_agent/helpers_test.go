package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBooks_Valid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.json")
	content := `[
  {"title": " 1984 ", "author": "George Orwell", "genres": ["Dystopian"]},
  {"title": "Brave New World", "author": "Aldous Huxley"}
]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	books, err := loadBooks(path)

	require.NoError(t, err)
	require.Len(t, books, 2)
	// Titles are trimmed and slices are never nil after normalization.
	assert.Equal(t, "1984", books[0].Title)
	assert.NotNil(t, books[1].Genres)
}

func TestLoadBooks_MissingFile(t *testing.T) {
	_, err := loadBooks(filepath.Join(t.TempDir(), "missing.json"))

	assert.Error(t, err)
}

func TestLoadBooks_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"title": "not an array"}`), 0o644))

	_, err := loadBooks(path)

	assert.Error(t, err)
}

func TestNewLLMClient_GeminiRequiresAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	_, err := newLLMClient(context.Background(), "gemini", "", "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")
}

func TestNewLLMClient_OllamaNeedsNoKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	client, err := newLLMClient(context.Background(), "ollama", "", "http://localhost:11434")

	require.NoError(t, err)
	assert.NotNil(t, client)
	_ = client.Close()
}
