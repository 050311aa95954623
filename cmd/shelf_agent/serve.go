package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/priyansh/aletheia/internal/server"
)

var (
	servePort     int
	serveProvider string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for recommendations, book identification, and shelf scanning.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().StringVar(&serveProvider, "provider", "gemini", "LLM provider: gemini or ollama")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if serveProvider == "gemini" && apiKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	var origins []string
	if raw := os.Getenv("ALLOWED_ORIGINS"); raw != "" {
		origins = strings.Split(raw, ",")
	}

	cfg := server.Config{
		Port:            servePort,
		Provider:        serveProvider,
		APIKey:          apiKey,
		OllamaBaseURL:   os.Getenv("OLLAMA_BASE_URL"),
		DetectionAPIKey: os.Getenv("DETECTION_API_KEY"),
		DetectionModel:  os.Getenv("DETECTION_MODEL"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		AllowedOrigins:  origins,
	}

	srv, err := server.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
