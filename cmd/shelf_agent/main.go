// Package main provides the entry point for the bookshelf recommendation agent.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "shelf_agent",
	Short: "Bookshelf scanning and recommendation agent",
	Long:  "Shelf Agent analyzes your read books into a taste profile, scores unread books against it, and can identify books from shelf photos via spine detection and OCR.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
