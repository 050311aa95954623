// Package taste builds reading-taste profiles and scores unread books against
// them via an LLM backend, with deterministic fallbacks when the backend
// response is unusable.
package taste

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"math"

	"github.com/priyansh/aletheia/internal/llm"
	"github.com/priyansh/aletheia/internal/prompts"
	"github.com/priyansh/aletheia/internal/types"
)

// generateAttempts bounds retries on GenerationError. Parse failures are
// never retried; re-sending an identical prompt to a nondeterministic backend
// rarely fixes malformed output.
const generateAttempts = 2

// tasteProfileResponse mirrors the JSON object requested from the model.
// Count fields decode as float64 because models occasionally emit fractional
// numbers where an integer count was asked for.
type tasteProfileResponse struct {
	FavoriteGenres  map[string]float64 `json:"favorite_genres"`
	FavoriteAuthors map[string]float64 `json:"favorite_authors"`
	CommonThemes    map[string]float64 `json:"common_themes"`
	EraPreferences  map[string]float64 `json:"era_preferences"`
	ReadingLevel    string             `json:"reading_level"`
	DiversityScore  *float64           `json:"diversity_score"`
	Summary         string             `json:"summary"`
}

// BuildProfile analyzes the user's reading taste from the books they have
// read. It never returns an error: an empty input yields the sentinel profile
// without any backend call, and any generation or parse failure falls back to
// the deterministic BasicProfile.
func BuildProfile(ctx context.Context, client llm.Client, readBooks []types.Book) types.TasteProfile {
	if len(readBooks) == 0 {
		return types.EmptyTasteProfile()
	}

	readBooks = types.NormalizeBooks(readBooks)

	booksJSON, err := json.MarshalIndent(readBooks, "", "  ")
	if err != nil {
		log.Printf("[WARN] failed to serialize read books: %v", err)
		return BasicProfile(readBooks)
	}

	template := prompts.MustGet("analysis.json", "analyze-taste")
	prompt := prompts.Format(template, map[string]string{
		"BooksJSON": string(booksJSON),
	})

	raw, err := llm.GenerateWithRetry(ctx, client, prompt, llm.TierStandard, generateAttempts)
	if err != nil {
		log.Printf("[WARN] taste analysis backend failed, using basic profile: %v", err)
		return BasicProfile(readBooks)
	}

	objText, err := llm.ExtractObject(raw)
	if err != nil {
		logParseFailure("taste profile", err)
		return BasicProfile(readBooks)
	}

	var resp tasteProfileResponse
	if err := json.Unmarshal([]byte(objText), &resp); err != nil {
		log.Printf("[WARN] taste profile JSON did not match expected shape, using basic profile: %v", err)
		return BasicProfile(readBooks)
	}

	return profileFromResponse(resp)
}

// profileFromResponse maps the parsed response onto a TasteProfile, applying
// the per-field defaults: a successful parse does not require every field to
// be present.
func profileFromResponse(resp tasteProfileResponse) types.TasteProfile {
	profile := types.TasteProfile{
		FavoriteGenres:  resp.FavoriteGenres,
		FavoriteAuthors: roundCounts(resp.FavoriteAuthors),
		CommonThemes:    roundCounts(resp.CommonThemes),
		EraPreferences:  roundCounts(resp.EraPreferences),
		ReadingLevel:    resp.ReadingLevel,
		DiversityScore:  0.5,
		Summary:         resp.Summary,
	}

	if profile.FavoriteGenres == nil {
		profile.FavoriteGenres = map[string]float64{}
	}
	if profile.ReadingLevel == "" {
		profile.ReadingLevel = types.ReadingLevelMixed
	}
	if resp.DiversityScore != nil {
		profile.DiversityScore = *resp.DiversityScore
	}

	return profile
}

// roundCounts converts a numeric map from the model into integer counts.
// A nil input becomes an empty map so profiles never carry nil containers.
func roundCounts(in map[string]float64) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = int(math.Round(v))
	}
	return out
}

// logParseFailure logs a parse failure including a bounded excerpt of the raw
// model output for diagnostics.
func logParseFailure(stage string, err error) {
	var parseErr *llm.ParseError
	if errors.As(err, &parseErr) {
		raw := parseErr.Raw
		if len(raw) > 500 {
			raw = raw[:500] + "..."
		}
		log.Printf("[WARN] failed to parse %s response: %v\nResponse: %s", stage, err, raw)
		return
	}
	log.Printf("[WARN] failed to parse %s response: %v", stage, err)
}
