package types

// Reading level values produced by taste analysis.
const (
	ReadingLevelLiterary   = "literary"
	ReadingLevelCommercial = "commercial"
	ReadingLevelMixed      = "mixed"
	ReadingLevelUnknown    = "unknown"
)

// TasteProfile is an aggregate preference summary derived from a reader's
// read-book history. It is constructed once per analysis call and never
// mutated afterwards.
type TasteProfile struct {
	FavoriteGenres  map[string]float64 `json:"favorite_genres"`
	FavoriteAuthors map[string]int     `json:"favorite_authors"`
	CommonThemes    map[string]int     `json:"common_themes"`
	EraPreferences  map[string]int     `json:"era_preferences"`
	ReadingLevel    string             `json:"reading_level"`
	DiversityScore  float64            `json:"diversity_score"`
	Summary         string             `json:"summary"`
}

// EmptyTasteProfile returns the sentinel profile used when the user has not
// read any books yet. No analysis backend is consulted to produce it.
func EmptyTasteProfile() TasteProfile {
	return TasteProfile{
		FavoriteGenres:  map[string]float64{},
		FavoriteAuthors: map[string]int{},
		CommonThemes:    map[string]int{},
		EraPreferences:  map[string]int{},
		ReadingLevel:    ReadingLevelUnknown,
		DiversityScore:  0.0,
		Summary:         "No books read yet.",
	}
}
