package taste

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/priyansh/aletheia/internal/llm"
	"github.com/priyansh/aletheia/internal/types"
)

func TestBuildProfile_EmptyInputSkipsBackend(t *testing.T) {
	mockClient := &MockLLMClient{}

	profile := BuildProfile(context.Background(), mockClient, nil)

	assert.Equal(t, types.EmptyTasteProfile(), profile)
	assert.Zero(t, mockClient.Calls())
}

func TestBuildProfile_ParsesResponse(t *testing.T) {
	mockClient := &MockLLMClient{
		GenerateContentFunc: func(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
			assert.Contains(t, prompt, "1984")
			return `Here is my analysis:
{
  "favorite_genres": {"Dystopian": 0.8, "Political Fiction": 0.2},
  "favorite_authors": {"George Orwell": 1},
  "common_themes": {"Surveillance": 2},
  "era_preferences": {"classic": 3},
  "reading_level": "literary",
  "diversity_score": 0.4,
  "summary": "A devoted dystopian reader."
}
Hope that helps!`, nil
		},
	}

	profile := BuildProfile(context.Background(), mockClient, dystopianShelf())

	assert.Equal(t, 1, mockClient.Calls())
	assert.InDelta(t, 0.8, profile.FavoriteGenres["Dystopian"], 0.001)
	assert.Equal(t, 1, profile.FavoriteAuthors["George Orwell"])
	assert.Equal(t, 2, profile.CommonThemes["Surveillance"])
	assert.Equal(t, 3, profile.EraPreferences["classic"])
	assert.Equal(t, types.ReadingLevelLiterary, profile.ReadingLevel)
	assert.InDelta(t, 0.4, profile.DiversityScore, 0.001)
	assert.Equal(t, "A devoted dystopian reader.", profile.Summary)
}

func TestBuildProfile_MissingFieldsDefault(t *testing.T) {
	mockClient := &MockLLMClient{
		GenerateContentFunc: func(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
			return `{"favorite_genres": {"Dystopian": 1.0}}`, nil
		},
	}

	profile := BuildProfile(context.Background(), mockClient, dystopianShelf())

	assert.Equal(t, types.ReadingLevelMixed, profile.ReadingLevel)
	assert.InDelta(t, 0.5, profile.DiversityScore, 0.001)
	assert.Empty(t, profile.Summary)
	assert.NotNil(t, profile.FavoriteAuthors)
	assert.NotNil(t, profile.CommonThemes)
	assert.NotNil(t, profile.EraPreferences)
}

func TestBuildProfile_FractionalCountsRounded(t *testing.T) {
	mockClient := &MockLLMClient{
		GenerateContentFunc: func(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
			return `{"favorite_authors": {"George Orwell": 1.6}}`, nil
		},
	}

	profile := BuildProfile(context.Background(), mockClient, dystopianShelf())

	assert.Equal(t, 2, profile.FavoriteAuthors["George Orwell"])
}

func TestBuildProfile_GenerationErrorFallsBack(t *testing.T) {
	mockClient := &MockLLMClient{
		GenerateContentFunc: func(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
			return "", &llm.GenerationError{Message: "quota exceeded"}
		},
	}

	books := dystopianShelf()
	profile := BuildProfile(context.Background(), mockClient, books)

	assert.Equal(t, BasicProfile(books), profile)
	// One retry on GenerationError before giving up.
	assert.Equal(t, generateAttempts, mockClient.Calls())
}

func TestBuildProfile_UnparseableResponseFallsBack(t *testing.T) {
	mockClient := &MockLLMClient{
		GenerateContentFunc: func(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
			return "I could not produce JSON today, sorry.", nil
		},
	}

	books := dystopianShelf()
	profile := BuildProfile(context.Background(), mockClient, books)

	assert.Equal(t, BasicProfile(books), profile)
	// Parse failures are not retried.
	assert.Equal(t, 1, mockClient.Calls())
}

func TestBuildProfile_WrongShapeFallsBack(t *testing.T) {
	mockClient := &MockLLMClient{
		GenerateContentFunc: func(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
			return `{"favorite_genres": ["not", "a", "map"]}`, nil
		},
	}

	books := dystopianShelf()
	profile := BuildProfile(context.Background(), mockClient, books)

	require.Equal(t, BasicProfile(books), profile)
}
