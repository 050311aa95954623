package server

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/priyansh/aletheia/internal/db"
	"github.com/priyansh/aletheia/internal/identify"
	"github.com/priyansh/aletheia/internal/llm"
	"github.com/priyansh/aletheia/internal/observability"
	"github.com/priyansh/aletheia/internal/taste"
	"github.com/priyansh/aletheia/internal/types"
)

// maxImageBytes caps uploaded shelf photos at 10 MB.
const maxImageBytes = 10 << 20

// RecommendationsRequest represents the request body for /recommendations
type RecommendationsRequest struct {
	ReadBooks   []types.Book `json:"read_books" validate:"required,min=1,dive"`
	UnreadBooks []types.Book `json:"unread_books" validate:"required,min=1,dive"`
	TopN        int          `json:"top_n,omitempty" validate:"gte=0"`
}

// RecommendationsResponse represents the response for /recommendations
type RecommendationsResponse struct {
	RunID   string             `json:"run_id"`
	Profile types.TasteProfile `json:"profile"`
	Scores  []types.BookScore  `json:"scores"`
	Report  string             `json:"report"`
}

// IdentifyRequest represents the request body for /identify
type IdentifyRequest struct {
	OCRText string `json:"ocr_text" validate:"required"`
}

// IdentifyResponse represents the response for /identify
type IdentifyResponse struct {
	Book types.Book `json:"book"`
}

// ScanResponse represents the response for /scan
type ScanResponse struct {
	SpineCount  int     `json:"spine_count"`
	Predictions []Spine `json:"predictions"`
}

// Spine is one detected book spine in a shelf photo
type Spine struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Confidence float64 `json:"confidence"`
}

// handleHealth reports server liveness
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	status := map[string]string{
		"status": "ok",
		"model":  s.llmClient.GetModel(llm.TierStandard),
	}
	if s.database == nil {
		status["database"] = "disabled"
	} else {
		status["database"] = "connected"
	}
	s.jsonResponse(w, http.StatusOK, status)
}

// handleRecommendations runs the full profile-and-score pipeline for the
// books in the request
func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	var req RecommendationsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	ctx := r.Context()

	profile, scores := taste.GetRecommendations(ctx, s.llmClient, req.ReadBooks, req.UnreadBooks, req.TopN)
	report := observability.FormatReport(profile, scores)

	runID := s.persistRun(ctx, profile, scores, report)

	s.jsonResponse(w, http.StatusOK, RecommendationsResponse{
		RunID:   runID.String(),
		Profile: profile,
		Scores:  scores,
		Report:  report,
	})
}

// persistRun saves run artifacts when a database is configured. Persistence
// failures are logged, not surfaced: the recommendations were already computed.
// A run ID is always returned so API responses stay traceable in logs.
func (s *Server) persistRun(ctx context.Context, profile types.TasteProfile, scores []types.BookScore, report string) uuid.UUID {
	if s.database == nil {
		return uuid.New()
	}

	runID, err := s.database.CreateRun(ctx, "api", s.llmClient.GetModel(llm.TierStandard))
	if err != nil {
		logPersistError("run", err)
		return uuid.New()
	}

	if err := s.database.SaveArtifact(ctx, runID, db.StepTasteProfile, db.CategoryProfile, profile); err != nil {
		logPersistError(db.StepTasteProfile, err)
	}
	if err := s.database.SaveArtifact(ctx, runID, db.StepRecommendations, db.CategoryScoring, scores); err != nil {
		logPersistError(db.StepRecommendations, err)
	}
	if err := s.database.SaveTextArtifact(ctx, runID, db.StepReport, db.CategoryRender, report); err != nil {
		logPersistError(db.StepReport, err)
	}
	if err := s.database.CompleteRun(ctx, runID, db.RunStatusCompleted); err != nil {
		logPersistError("run completion", err)
	}
	return runID
}

// handleIdentify resolves OCR text into a full book record
func (s *Server) handleIdentify(w http.ResponseWriter, r *http.Request) {
	var req IdentifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request: ocr_text is required")
		return
	}

	book, err := identify.IdentifyBook(r.Context(), s.llmClient, req.OCRText)
	if err != nil {
		s.errorResponse(w, http.StatusUnprocessableEntity, "Could not identify book: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, IdentifyResponse{Book: book})
}

// handleScan detects book spines in an uploaded shelf photo
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	if s.detector == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "Spine detection is not configured")
		return
	}

	image, err := io.ReadAll(io.LimitReader(r.Body, maxImageBytes))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Failed to read image: "+err.Error())
		return
	}
	if len(image) == 0 {
		s.errorResponse(w, http.StatusBadRequest, "Image body is required")
		return
	}

	result, err := s.detector.Detect(r.Context(), image)
	if err != nil {
		s.errorResponse(w, http.StatusBadGateway, "Detection failed: "+err.Error())
		return
	}

	resp := ScanResponse{
		SpineCount:  result.SpineCount(),
		Predictions: make([]Spine, 0, len(result.Predictions)),
	}
	for _, p := range result.Predictions {
		resp.Predictions = append(resp.Predictions, Spine{
			X: p.X, Y: p.Y, Width: p.Width, Height: p.Height, Confidence: p.Confidence,
		})
	}

	s.jsonResponse(w, http.StatusOK, resp)
}

// handleListRuns lists recent recommendation runs
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.database == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "Database is not configured")
		return
	}

	runs, err := s.database.ListRuns(r.Context(), 50)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if runs == nil {
		runs = []db.Run{}
	}
	s.jsonResponse(w, http.StatusOK, runs)
}

// handleGetRun returns a single run
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.database == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "Database is not configured")
		return
	}

	runID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid run ID")
		return
	}

	run, err := s.database.GetRun(r.Context(), runID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if run == nil {
		s.errorResponse(w, http.StatusNotFound, "Run not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, run)
}

// handleGetArtifact returns a stored artifact for a run
func (s *Server) handleGetArtifact(w http.ResponseWriter, r *http.Request) {
	if s.database == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "Database is not configured")
		return
	}

	runID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid run ID")
		return
	}
	step := r.PathValue("step")

	if step == db.StepReport {
		text, err := s.database.GetTextArtifact(r.Context(), runID, step)
		if err != nil {
			s.errorResponse(w, http.StatusInternalServerError, err.Error())
			return
		}
		if text == "" {
			s.errorResponse(w, http.StatusNotFound, "Artifact not found")
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(text))
		return
	}

	content, err := s.database.GetArtifact(r.Context(), runID, step)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if content == nil {
		s.errorResponse(w, http.StatusNotFound, "Artifact not found")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(content)
}

// handleListBooks lists books on a shelf
func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request) {
	if s.database == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "Database is not configured")
		return
	}

	shelf := r.PathValue("shelf")
	if shelf != db.ShelfRead && shelf != db.ShelfUnread {
		s.errorResponse(w, http.StatusBadRequest, "Shelf must be 'read' or 'unread'")
		return
	}

	books, err := s.database.ListBooks(r.Context(), shelf)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if books == nil {
		books = []types.Book{}
	}
	s.jsonResponse(w, http.StatusOK, books)
}

// handleAddBooks adds books to a shelf
func (s *Server) handleAddBooks(w http.ResponseWriter, r *http.Request) {
	if s.database == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "Database is not configured")
		return
	}

	shelf := r.PathValue("shelf")
	if shelf != db.ShelfRead && shelf != db.ShelfUnread {
		s.errorResponse(w, http.StatusBadRequest, "Shelf must be 'read' or 'unread'")
		return
	}

	var books []types.Book
	if err := json.NewDecoder(r.Body).Decode(&books); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(books) == 0 {
		s.errorResponse(w, http.StatusBadRequest, "At least one book is required")
		return
	}
	for _, book := range books {
		if err := s.validate.Struct(book); err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid book: "+err.Error())
			return
		}
	}

	if err := s.database.SaveBooks(r.Context(), shelf, books); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusCreated, map[string]int{"saved": len(books)})
}

func logPersistError(step string, err error) {
	log.Printf("[WARN] failed to persist %s artifact: %v", step, err)
}
