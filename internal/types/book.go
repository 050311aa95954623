// Package types provides type definitions for structured data used throughout the bookshelf analyzer.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "strings"

// Book represents a single book on the user's shelf, read or unread.
// Title is the lookup key within a batch: when two books share a title,
// the later entry shadows the earlier one during result matching.
type Book struct {
	Title       string   `json:"title" validate:"required"`
	Author      string   `json:"author"`
	Genres      []string `json:"genres"`
	Themes      []string `json:"themes"`
	Year        int      `json:"year,omitempty"`
	Description string   `json:"description,omitempty"`
}

// NewBook creates a Book with non-nil Genres and Themes slices.
// Callers that construct Book literals directly should call Normalize
// before handing the value to the pipeline.
func NewBook(title, author string) Book {
	return Book{
		Title:  title,
		Author: author,
		Genres: []string{},
		Themes: []string{},
	}
}

// Normalize trims surrounding whitespace from Title and Author and replaces
// nil slice fields with empty slices so that serialized books always carry
// "genres": [] rather than null. Title must come out clean: it is the join
// key when score responses are matched back to books.
func (b *Book) Normalize() {
	b.Title = strings.TrimSpace(b.Title)
	b.Author = strings.TrimSpace(b.Author)
	if b.Genres == nil {
		b.Genres = []string{}
	}
	if b.Themes == nil {
		b.Themes = []string{}
	}
}

// NormalizeBooks normalizes every book in the slice in place and returns it.
func NormalizeBooks(books []Book) []Book {
	for i := range books {
		books[i].Normalize()
	}
	return books
}
