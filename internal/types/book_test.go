package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBook_EmptyContainers(t *testing.T) {
	book := NewBook("1984", "George Orwell")

	assert.Equal(t, "1984", book.Title)
	assert.Equal(t, "George Orwell", book.Author)
	assert.NotNil(t, book.Genres)
	assert.NotNil(t, book.Themes)
	assert.Empty(t, book.Genres)
	assert.Empty(t, book.Themes)
}

func TestBook_Normalize(t *testing.T) {
	book := Book{Title: "  Dune ", Author: " Frank Herbert "}
	book.Normalize()

	assert.Equal(t, "Dune", book.Title)
	assert.Equal(t, "Frank Herbert", book.Author)
	assert.NotNil(t, book.Genres)
	assert.NotNil(t, book.Themes)
}

func TestBook_SerializesEmptySlicesNotNull(t *testing.T) {
	book := NewBook("Dune", "Frank Herbert")

	jsonBytes, err := json.Marshal(book)
	require.NoError(t, err)

	assert.Contains(t, string(jsonBytes), `"genres":[]`)
	assert.Contains(t, string(jsonBytes), `"themes":[]`)
	assert.NotContains(t, string(jsonBytes), "null")
}

func TestNormalizeBooks(t *testing.T) {
	books := []Book{
		{Title: " A "},
		{Title: "B", Genres: []string{"Fantasy"}},
	}

	normalized := NormalizeBooks(books)

	require.Len(t, normalized, 2)
	assert.Equal(t, "A", normalized[0].Title)
	assert.NotNil(t, normalized[0].Genres)
	assert.NotNil(t, normalized[0].Themes)
	assert.Equal(t, []string{"Fantasy"}, normalized[1].Genres)
}

func TestEmptyTasteProfile(t *testing.T) {
	profile := EmptyTasteProfile()

	assert.Empty(t, profile.FavoriteGenres)
	assert.Empty(t, profile.FavoriteAuthors)
	assert.Empty(t, profile.CommonThemes)
	assert.Empty(t, profile.EraPreferences)
	assert.Equal(t, ReadingLevelUnknown, profile.ReadingLevel)
	assert.Zero(t, profile.DiversityScore)
	assert.Equal(t, "No books read yet.", profile.Summary)
}
