package taste

import (
	"fmt"
	"sort"
	"strings"

	"github.com/priyansh/aletheia/internal/types"
)

// topCount is the number of entries kept per category in the basic profile.
const topCount = 5

// BasicProfile builds a taste profile from occurrence counts alone, without
// consulting any backend. It is the fallback when the model response cannot
// be used, so it must be deterministic and side-effect-free: ties are broken
// alphabetically and the aggregation is independent of input order.
func BasicProfile(readBooks []types.Book) types.TasteProfile {
	genreCounts := map[string]int{}
	authorCounts := map[string]int{}
	themeCounts := map[string]int{}

	for _, book := range readBooks {
		for _, genre := range book.Genres {
			genreCounts[genre]++
		}
		if book.Author != "" {
			authorCounts[book.Author]++
		}
		for _, theme := range book.Themes {
			themeCounts[theme]++
		}
	}

	totalGenres := 0
	for _, c := range genreCounts {
		totalGenres += c
	}
	if totalGenres == 0 {
		totalGenres = 1
	}

	topGenres := topEntries(genreCounts, topCount)
	favoriteGenres := make(map[string]float64, len(topGenres))
	for _, e := range topGenres {
		favoriteGenres[e.name] = float64(e.count) / float64(totalGenres)
	}

	diversity := 0.0
	if len(readBooks) > 0 {
		diversity = float64(len(genreCounts)) / float64(len(readBooks))
	}

	topAuthors := topEntries(authorCounts, topCount)

	return types.TasteProfile{
		FavoriteGenres:  favoriteGenres,
		FavoriteAuthors: toCountMap(topAuthors),
		CommonThemes:    toCountMap(topEntries(themeCounts, topCount)),
		EraPreferences:  map[string]int{},
		ReadingLevel:    types.ReadingLevelMixed,
		DiversityScore:  diversity,
		Summary:         basicSummary(topGenres, topAuthors),
	}
}

type countEntry struct {
	name  string
	count int
}

// topEntries returns the n highest-count entries, ordered by count descending
// then name ascending so the result is stable across map iteration orders.
func topEntries(counts map[string]int, n int) []countEntry {
	entries := make([]countEntry, 0, len(counts))
	for name, count := range counts {
		entries = append(entries, countEntry{name: name, count: count})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].name < entries[j].name
	})

	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

func toCountMap(entries []countEntry) map[string]int {
	out := make(map[string]int, len(entries))
	for _, e := range entries {
		out[e.name] = e.count
	}
	return out
}

// basicSummary synthesizes a one-line summary from the top genres and authors.
func basicSummary(topGenres, topAuthors []countEntry) string {
	genreNames := entryNames(topGenres, 3)
	authorNames := entryNames(topAuthors, 2)

	switch {
	case len(genreNames) > 0 && len(authorNames) > 0:
		return fmt.Sprintf("Enjoys %s with favorite authors including %s",
			strings.Join(genreNames, ", "), strings.Join(authorNames, ", "))
	case len(genreNames) > 0:
		return fmt.Sprintf("Enjoys %s", strings.Join(genreNames, ", "))
	case len(authorNames) > 0:
		return fmt.Sprintf("Favorite authors include %s", strings.Join(authorNames, ", "))
	default:
		return "Reading taste not yet established."
	}
}

func entryNames(entries []countEntry, n int) []string {
	if len(entries) > n {
		entries = entries[:n]
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.name)
	}
	return names
}
