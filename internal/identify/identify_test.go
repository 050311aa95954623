package identify

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/priyansh/aletheia/internal/llm"
)

type mockClient struct {
	generateFunc func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error)
	calls        atomic.Int64
}

func (m *mockClient) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	m.calls.Add(1)
	if m.generateFunc != nil {
		return m.generateFunc(ctx, prompt, tier)
	}
	return "", nil
}

func (m *mockClient) GetModel(llm.ModelTier) string { return "mock-model" }

func (m *mockClient) Close() error { return nil }

func TestIdentifyBook_ResolvesPartialTitle(t *testing.T) {
	client := &mockClient{
		generateFunc: func(_ context.Context, prompt string, tier llm.ModelTier) (string, error) {
			assert.Contains(t, prompt, "GOLDEN FORT")
			assert.Equal(t, llm.TierLite, tier)
			return `{
  "title": "The Golden Fortress",
  "author": "Satyajit Ray",
  "genres": ["Mystery"],
  "themes": ["Adventure"],
  "year": 1971,
  "description": "A Feluda detective novel."
}`, nil
		},
	}

	book, err := IdentifyBook(context.Background(), client, "GOLDEN FORT satyajit ra")

	require.NoError(t, err)
	assert.Equal(t, "The Golden Fortress", book.Title)
	assert.Equal(t, "Satyajit Ray", book.Author)
	assert.Equal(t, []string{"Mystery"}, book.Genres)
	assert.Equal(t, 1971, book.Year)
}

func TestIdentifyBook_EmptyTextRejected(t *testing.T) {
	client := &mockClient{}

	_, err := IdentifyBook(context.Background(), client, "   ")

	require.Error(t, err)
	assert.Zero(t, client.calls.Load())
}

func TestIdentifyBook_ParseFailureIsError(t *testing.T) {
	client := &mockClient{
		generateFunc: func(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
			return "I have no idea what book that is.", nil
		},
	}

	_, err := IdentifyBook(context.Background(), client, "blurry text")

	require.Error(t, err)
	var parseErr *llm.ParseError
	assert.True(t, errors.As(err, &parseErr))
	// Parse failures are not retried.
	assert.Equal(t, int64(1), client.calls.Load())
}

func TestIdentifyBook_MissingTitleIsError(t *testing.T) {
	client := &mockClient{
		generateFunc: func(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
			return `{"author": "Unknown"}`, nil
		},
	}

	_, err := IdentifyBook(context.Background(), client, "unreadable spine")

	require.Error(t, err)
	var parseErr *llm.ParseError
	assert.True(t, errors.As(err, &parseErr))
}

func TestIdentifyBook_GenerationErrorRetried(t *testing.T) {
	client := &mockClient{
		generateFunc: func(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
			return "", &llm.GenerationError{Message: "backend down"}
		},
	}

	_, err := IdentifyBook(context.Background(), client, "some spine")

	require.Error(t, err)
	assert.Equal(t, int64(generateAttempts), client.calls.Load())
}

func TestIdentifyBook_NormalizesResult(t *testing.T) {
	client := &mockClient{
		generateFunc: func(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
			return `{"title": "  Dune  ", "author": " Frank Herbert "}`, nil
		},
	}

	book, err := IdentifyBook(context.Background(), client, "DUNE herbert")

	require.NoError(t, err)
	assert.Equal(t, "Dune", book.Title)
	assert.Equal(t, "Frank Herbert", book.Author)
	assert.NotNil(t, book.Genres)
	assert.NotNil(t, book.Themes)
}

func TestIdentifyBooks_SkipsFailures(t *testing.T) {
	client := &mockClient{
		generateFunc: func(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
			if strings.Contains(prompt, "garbage") {
				return "not json", nil
			}
			return `{"title": "Dune", "author": "Frank Herbert"}`, nil
		},
	}

	books, failed := IdentifyBooks(context.Background(), client, []string{"DUNE", "garbage"})

	require.Len(t, books, 1)
	assert.Equal(t, "Dune", books[0].Title)
	require.Len(t, failed, 1)
	assert.Equal(t, "garbage", failed[0])
}
