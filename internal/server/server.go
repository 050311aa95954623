// Package server provides the HTTP REST API for book recommendations.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/time/rate"

	"github.com/priyansh/aletheia/internal/db"
	"github.com/priyansh/aletheia/internal/llm"
	"github.com/priyansh/aletheia/internal/server/ratelimit"
	"github.com/priyansh/aletheia/internal/vision"
)

const (
	defaultRequestsPerSecond = 2
	defaultBurst             = 5
	defaultDailyQuota        = 500
)

// Server represents the HTTP server
type Server struct {
	httpServer     *http.Server
	llmClient      llm.Client
	detector       *vision.Detector
	database       *db.DB
	validate       *validator.Validate
	ipLimiter      *ratelimit.IPRateLimiter
	quota          *ratelimit.DailyQuota
	allowedOrigins []string
}

// Config holds server configuration
type Config struct {
	Port            int
	Provider        string
	APIKey          string
	OllamaBaseURL   string
	DetectionAPIKey string
	DetectionModel  string
	DatabaseURL     string
	AllowedOrigins  []string
}

// New creates a new server instance. The database and the vision detector are
// optional; endpoints that need a missing backend return 503.
func New(cfg Config) (*Server, error) {
	llmConfig := llm.DefaultGeminiConfig()
	if cfg.Provider == string(llm.ProviderOllama) {
		llmConfig = llm.DefaultOllamaConfig()
		if cfg.OllamaBaseURL != "" {
			llmConfig.OllamaBaseURL = cfg.OllamaBaseURL
		}
	}

	client, err := llm.NewClient(context.Background(), llmConfig, cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	var detector *vision.Detector
	if cfg.DetectionAPIKey != "" {
		opts := []vision.DetectorOption{}
		if cfg.DetectionModel != "" {
			opts = append(opts, vision.WithModelID(cfg.DetectionModel))
		}
		detector, err = vision.NewDetector(cfg.DetectionAPIKey, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create detector: %w", err)
		}
	}

	var database *db.DB
	if cfg.DatabaseURL != "" {
		database, err = db.Connect(context.Background(), cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
	}

	s := newServer(client, detector, database, cfg.AllowedOrigins)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // Scoring a large shelf takes a while
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// newServer wires handlers without touching external backends, which keeps it
// usable from tests.
func newServer(client llm.Client, detector *vision.Detector, database *db.DB, origins []string) *Server {
	return &Server{
		llmClient:      client,
		detector:       detector,
		database:       database,
		validate:       validator.New(),
		ipLimiter:      ratelimit.NewIPRateLimiter(rate.Limit(defaultRequestsPerSecond), defaultBurst),
		quota:          ratelimit.NewDailyQuota(defaultDailyQuota),
		allowedOrigins: origins,
	}
}

// Handler builds the route table with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /recommendations", s.handleRecommendations)
	mux.HandleFunc("POST /identify", s.handleIdentify)
	mux.HandleFunc("POST /scan", s.handleScan)
	mux.HandleFunc("GET /runs", s.handleListRuns)
	mux.HandleFunc("GET /runs/{id}", s.handleGetRun)
	mux.HandleFunc("GET /runs/{id}/artifacts/{step}", s.handleGetArtifact)
	mux.HandleFunc("GET /shelves/{shelf}/books", s.handleListBooks)
	mux.HandleFunc("POST /shelves/{shelf}/books", s.handleAddBooks)

	return s.withRateLimit(s.withLogging(s.withCORS(mux)))
}

// Start begins listening for requests and blocks until shutdown
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.database != nil {
		s.database.Close()
	}
	if err := s.llmClient.Close(); err != nil {
		log.Printf("Error closing LLM client: %v", err)
	}

	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.corsOrigin(r.Header.Get("Origin")))
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) corsOrigin(origin string) string {
	if len(s.allowedOrigins) == 0 {
		return "*"
	}
	for _, allowed := range s.allowedOrigins {
		if allowed == origin || allowed == "*" {
			return allowed
		}
	}
	return s.allowedOrigins[0]
}

// withRateLimit rejects requests over the per-IP rate or the daily quota
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.quota.Allow() {
			w.Header().Set("Retry-After", "3600")
			s.errorResponse(w, http.StatusTooManyRequests, "Daily request quota exceeded")
			return
		}

		if !s.ipLimiter.Allow(s.extractClientID(r)) {
			w.Header().Set("Retry-After", "1")
			s.errorResponse(w, http.StatusTooManyRequests, "Too many requests")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// extractClientID extracts the client identifier from the request.
// For MVP, this uses the IP address from RemoteAddr.
func (s *Server) extractClientID(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// jsonResponse writes a JSON response with the given status
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
