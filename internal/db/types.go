package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/priyansh/aletheia/internal/types"
)

// Run statuses.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// Artifact steps produced during a run.
const (
	StepTasteProfile    = "taste_profile"
	StepRecommendations = "recommendations"
	StepReport          = "report"
	StepDetections      = "detections"
	StepIdentifiedBooks = "identified_books"
)

// Artifact categories.
const (
	CategoryProfile = "profile"
	CategoryScoring = "scoring"
	CategoryRender  = "render"
	CategoryVision  = "vision"
)

// Shelf names for stored books.
const (
	ShelfRead   = "read"
	ShelfUnread = "unread"
)

// Run is one recommendation run: a profile build plus a scoring pass over the
// unread shelf.
type Run struct {
	ID          uuid.UUID  `json:"id"`
	Source      string     `json:"source"`
	Provider    string     `json:"provider"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// StoredBook is a catalog book together with its storage metadata.
type StoredBook struct {
	ID        uuid.UUID  `json:"id"`
	Shelf     string     `json:"shelf"`
	Book      types.Book `json:"book"`
	CreatedAt time.Time  `json:"created_at"`
}

// Artifact is a JSON or text payload produced during a run (taste profile,
// recommendation report, rendered output).
type Artifact struct {
	ID          uuid.UUID `json:"id"`
	RunID       uuid.UUID `json:"run_id"`
	Step        string    `json:"step"`
	Category    string    `json:"category"`
	Content     any       `json:"content,omitempty"`
	TextContent string    `json:"text_content,omitempty"`
}
