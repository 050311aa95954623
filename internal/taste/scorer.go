package taste

import (
	"context"
	"encoding/json"
	"log"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/priyansh/aletheia/internal/llm"
	"github.com/priyansh/aletheia/internal/prompts"
	"github.com/priyansh/aletheia/internal/types"
)

// scoreConcurrency limits parallel backend calls in ScoreBooksEach.
const scoreConcurrency = 4

// bookScoreResponse mirrors one element of the JSON array requested from the
// model. Absent numeric fields default to zero, absent recommendation to
// "maybe".
type bookScoreResponse struct {
	Title            string  `json:"title"`
	OverallScore     float64 `json:"overall_score"`
	GenreMatch       float64 `json:"genre_match"`
	ThemeMatch       float64 `json:"theme_match"`
	AuthorSimilarity float64 `json:"author_similarity"`
	NoveltyScore     float64 `json:"novelty_score"`
	Reasoning        string  `json:"reasoning"`
	Recommendation   string  `json:"recommendation"`
}

// condensedProfile is the view of a taste profile sent to the scoring prompt:
// genre weights plus author and theme names only.
type condensedProfile struct {
	FavoriteGenres  map[string]float64 `json:"favorite_genres"`
	FavoriteAuthors []string           `json:"favorite_authors"`
	CommonThemes    []string           `json:"common_themes"`
	ReadingLevel    string             `json:"reading_level"`
	Summary         string             `json:"summary"`
}

// ScoreBooks scores every unread book against the profile in a single backend
// call. Scoring is best-effort: any generation or parse failure yields an
// empty slice, which callers must treat as "no usable recommendation" rather
// than an error. There is deliberately no counting fallback here, unlike
// profile building.
func ScoreBooks(ctx context.Context, client llm.Client, profile types.TasteProfile, unreadBooks []types.Book) []types.BookScore {
	if len(unreadBooks) == 0 {
		return []types.BookScore{}
	}

	unreadBooks = types.NormalizeBooks(unreadBooks)

	prompt, err := buildScorePrompt(profile, unreadBooks)
	if err != nil {
		log.Printf("[WARN] failed to build scoring prompt: %v", err)
		return []types.BookScore{}
	}

	raw, err := llm.GenerateWithRetry(ctx, client, prompt, llm.TierStandard, generateAttempts)
	if err != nil {
		log.Printf("[WARN] scoring backend failed: %v", err)
		return []types.BookScore{}
	}

	scores, err := parseScores(raw, unreadBooks)
	if err != nil {
		logParseFailure("book scores", err)
		return []types.BookScore{}
	}

	sortScores(scores)
	return scores
}

// ScoreBooksEach scores each unread book with its own backend call, running
// up to scoreConcurrency calls in parallel. Books whose call or parse fails
// are dropped from the result; the merged output is ordered the same way as
// ScoreBooks. Only profile-before-scoring ordering matters, so the per-book
// calls are free to run concurrently.
func ScoreBooksEach(ctx context.Context, client llm.Client, profile types.TasteProfile, unreadBooks []types.Book) []types.BookScore {
	if len(unreadBooks) == 0 {
		return []types.BookScore{}
	}

	unreadBooks = types.NormalizeBooks(unreadBooks)

	// Each goroutine writes only its own index, so no lock is needed.
	results := make([]*types.BookScore, len(unreadBooks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(scoreConcurrency)

	for i := range unreadBooks {
		g.Go(func() error {
			book := unreadBooks[i]

			prompt, err := buildScorePrompt(profile, []types.Book{book})
			if err != nil {
				log.Printf("[WARN] failed to build scoring prompt for %q: %v", book.Title, err)
				return nil
			}

			raw, err := llm.GenerateWithRetry(gctx, client, prompt, llm.TierStandard, generateAttempts)
			if err != nil {
				log.Printf("[WARN] scoring backend failed for %q: %v", book.Title, err)
				return nil
			}

			scores, err := parseScores(raw, []types.Book{book})
			if err != nil || len(scores) == 0 {
				log.Printf("[WARN] unusable score response for %q", book.Title)
				return nil
			}

			results[i] = &scores[0]
			return nil
		})
	}

	// Goroutines never return errors; failures drop individual books.
	_ = g.Wait()

	merged := make([]types.BookScore, 0, len(unreadBooks))
	for _, r := range results {
		if r != nil {
			merged = append(merged, *r)
		}
	}
	sortScores(merged)
	return merged
}

// GetRecommendations runs the full pipeline: build a profile from read books,
// score the unread books against it, and keep the top topN scores (all scores
// when topN <= 0). It never returns an error for the documented failure
// paths: the profile is always real or fallback, and scores are always a
// slice, possibly empty.
func GetRecommendations(ctx context.Context, client llm.Client, readBooks, unreadBooks []types.Book, topN int) (types.TasteProfile, []types.BookScore) {
	profile := BuildProfile(ctx, client, readBooks)
	scores := ScoreBooks(ctx, client, profile, unreadBooks)
	return profile, topScores(scores, topN)
}

// GetRecommendationsEach is GetRecommendations with one backend call per
// unread book instead of a single batch call. Intended for shelves large
// enough that a single batch response would truncate.
func GetRecommendationsEach(ctx context.Context, client llm.Client, readBooks, unreadBooks []types.Book, topN int) (types.TasteProfile, []types.BookScore) {
	profile := BuildProfile(ctx, client, readBooks)
	scores := ScoreBooksEach(ctx, client, profile, unreadBooks)
	return profile, topScores(scores, topN)
}

func topScores(scores []types.BookScore, topN int) []types.BookScore {
	if topN > 0 && len(scores) > topN {
		return scores[:topN]
	}
	return scores
}

func buildScorePrompt(profile types.TasteProfile, unreadBooks []types.Book) (string, error) {
	condensed := condensedProfile{
		FavoriteGenres:  profile.FavoriteGenres,
		FavoriteAuthors: sortedKeys(profile.FavoriteAuthors),
		CommonThemes:    sortedKeys(profile.CommonThemes),
		ReadingLevel:    profile.ReadingLevel,
		Summary:         profile.Summary,
	}

	profileJSON, err := json.MarshalIndent(condensed, "", "  ")
	if err != nil {
		return "", err
	}
	booksJSON, err := json.MarshalIndent(unreadBooks, "", "  ")
	if err != nil {
		return "", err
	}

	template := prompts.MustGet("analysis.json", "score-books")
	return prompts.Format(template, map[string]string{
		"ProfileJSON": string(profileJSON),
		"BooksJSON":   string(booksJSON),
	}), nil
}

// parseScores extracts the score array and joins it back to the input books
// by exact title match. Elements whose title is unknown are dropped silently;
// the model may hallucinate or misformat titles.
func parseScores(raw string, unreadBooks []types.Book) ([]types.BookScore, error) {
	arrText, err := llm.ExtractArray(raw)
	if err != nil {
		return nil, err
	}

	var parsed []bookScoreResponse
	if err := json.Unmarshal([]byte(arrText), &parsed); err != nil {
		return nil, &llm.ParseError{Message: "score array did not match expected shape", Raw: raw, Cause: err}
	}

	// Title is the join key; a duplicate title shadows earlier entries.
	lookup := make(map[string]types.Book, len(unreadBooks))
	for _, b := range unreadBooks {
		lookup[b.Title] = b
	}

	scores := make([]types.BookScore, 0, len(parsed))
	for _, item := range parsed {
		book, ok := lookup[item.Title]
		if !ok {
			continue
		}

		recommendation := item.Recommendation
		if recommendation == "" {
			recommendation = types.RecMaybe
		}

		scores = append(scores, types.BookScore{
			Book:             book,
			OverallScore:     item.OverallScore,
			GenreMatch:       item.GenreMatch,
			ThemeMatch:       item.ThemeMatch,
			AuthorSimilarity: item.AuthorSimilarity,
			NoveltyScore:     item.NoveltyScore,
			Reasoning:        item.Reasoning,
			Recommendation:   recommendation,
		})
	}

	return scores, nil
}

// sortScores orders by overall score descending. The sort is stable so ties
// keep the relative order produced by the backend response.
func sortScores(scores []types.BookScore) {
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].OverallScore > scores[j].OverallScore
	})
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
