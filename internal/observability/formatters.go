// Package observability provides formatted report output for analysis results.
package observability

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/priyansh/aletheia/internal/types"
)

const (
	// headerWidth is the width of section header rules
	headerWidth = 60
	// maxItemsToShow is the default number of items to display in ranked lists
	maxItemsToShow = 5
)

// Printer renders human-readable reports to a writer.
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// FormatReport renders a taste profile and its book scores as display text.
// It is pure and deterministic: genres are ordered by weight descending,
// authors by count descending, both truncated to five entries, matching the
// ranking the basic profile itself produces.
func FormatReport(profile types.TasteProfile, scores []types.BookScore) string {
	var sb strings.Builder
	NewPrinter(&sb).PrintReport(profile, scores)
	return sb.String()
}

// PrintReport writes the full profile-plus-recommendations report.
//
//nolint:errcheck // writing to an in-memory or terminal writer; errors are not recoverable
func (p *Printer) PrintReport(profile types.TasteProfile, scores []types.BookScore) {
	p.PrintProfile(profile)
	p.PrintScores(scores)
}

// PrintProfile writes the taste-profile section.
//
//nolint:errcheck
func (p *Printer) PrintProfile(profile types.TasteProfile) {
	rule := strings.Repeat("=", headerWidth)
	fmt.Fprintf(p.out, "%s\nREADING TASTE PROFILE\n%s\n", rule, rule)
	fmt.Fprintf(p.out, "\n%s\n\n", profile.Summary)

	fmt.Fprintln(p.out, "Top Genres:")
	for _, genre := range rankedGenres(profile.FavoriteGenres) {
		fmt.Fprintf(p.out, "  - %s: %.1f%%\n", genre.name, genre.weight*100)
	}

	if len(profile.FavoriteAuthors) > 0 {
		fmt.Fprintln(p.out, "\nFavorite Authors:")
		for _, author := range rankedCounts(profile.FavoriteAuthors) {
			fmt.Fprintf(p.out, "  - %s (%d books)\n", author.name, author.count)
		}
	}

	fmt.Fprintf(p.out, "\nReading Diversity: %.1f%%\n", profile.DiversityScore*100)
	fmt.Fprintf(p.out, "Reading Level: %s\n", profile.ReadingLevel)
}

// PrintScores writes the recommended-books section.
//
//nolint:errcheck
func (p *Printer) PrintScores(scores []types.BookScore) {
	rule := strings.Repeat("=", headerWidth)
	fmt.Fprintf(p.out, "\n%s\nRECOMMENDED BOOKS\n%s\n", rule, rule)

	for i, score := range scores {
		fmt.Fprintf(p.out, "\n%d. %s by %s\n", i+1, score.Book.Title, score.Book.Author)
		fmt.Fprintf(p.out, "   Overall Score: %.0f/100 [%s]\n",
			score.OverallScore, strings.ToUpper(score.Recommendation))
		fmt.Fprintf(p.out, "   Genre Match: %.0f | Theme Match: %.0f\n",
			score.GenreMatch, score.ThemeMatch)
		fmt.Fprintf(p.out, "   Author Similarity: %.0f | Novelty: %.0f\n",
			score.AuthorSimilarity, score.NoveltyScore)
		if score.Reasoning != "" {
			fmt.Fprintf(p.out, "   %s\n", score.Reasoning)
		}
	}
}

type weightEntry struct {
	name   string
	weight float64
}

// rankedGenres orders genres by weight descending, name ascending on ties,
// truncated to maxItemsToShow.
func rankedGenres(weights map[string]float64) []weightEntry {
	entries := make([]weightEntry, 0, len(weights))
	for name, weight := range weights {
		entries = append(entries, weightEntry{name: name, weight: weight})
	}

	sort.Slice(entries, func(i, j int) bool {
		if math.Abs(entries[i].weight-entries[j].weight) > 1e-9 {
			return entries[i].weight > entries[j].weight
		}
		return entries[i].name < entries[j].name
	})

	if len(entries) > maxItemsToShow {
		entries = entries[:maxItemsToShow]
	}
	return entries
}

type rankedCount struct {
	name  string
	count int
}

// rankedCounts orders by count descending, name ascending on ties, truncated
// to maxItemsToShow.
func rankedCounts(counts map[string]int) []rankedCount {
	entries := make([]rankedCount, 0, len(counts))
	for name, count := range counts {
		entries = append(entries, rankedCount{name: name, count: count})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].name < entries[j].name
	})

	if len(entries) > maxItemsToShow {
		entries = entries[:maxItemsToShow]
	}
	return entries
}
