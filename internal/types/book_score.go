package types

// Recommendation labels assigned by the scorer.
const (
	RecHighlyRecommended = "highly_recommended"
	RecRecommended       = "recommended"
	RecMaybe             = "maybe"
	RecLowPriority       = "low_priority"
)

// BookScore is a per-book assessment of predicted enjoyment relative to a
// taste profile. Score fields are conventionally 0-100 but are carried through
// unclamped from the scoring backend.
type BookScore struct {
	Book             Book    `json:"book"`
	OverallScore     float64 `json:"overall_score"`
	GenreMatch       float64 `json:"genre_match"`
	ThemeMatch       float64 `json:"theme_match"`
	AuthorSimilarity float64 `json:"author_similarity"`
	NoveltyScore     float64 `json:"novelty_score"`
	Reasoning        string  `json:"reasoning"`
	Recommendation   string  `json:"recommendation"`
}
