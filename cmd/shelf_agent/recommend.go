package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/priyansh/aletheia/internal/config"
	"github.com/priyansh/aletheia/internal/llm"
	"github.com/priyansh/aletheia/internal/observability"
	"github.com/priyansh/aletheia/internal/schemas"
	"github.com/priyansh/aletheia/internal/taste"
	"github.com/priyansh/aletheia/internal/types"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Score unread books against your reading taste",
	Long:  "Build a taste profile from your read books, score each unread book against it, and print a ranked recommendation report.",
	RunE:  runRecommend,
}

var (
	recommendReadFile   string
	recommendUnreadFile string
	recommendTopN       int
	recommendOutFile    string
	recommendProvider   string
	recommendAPIKey     string
	recommendOllamaURL  string
	recommendConfigFile string
	recommendPerBook    bool
	recommendVerbose    bool
)

func init() {
	recommendCmd.Flags().StringVar(&recommendReadFile, "read", "", "Path to JSON file with already-read books (required)")
	recommendCmd.Flags().StringVar(&recommendUnreadFile, "unread", "", "Path to JSON file with candidate books (required)")
	recommendCmd.Flags().IntVar(&recommendTopN, "top", 0, "Number of recommendations to print (0 = all)")
	recommendCmd.Flags().StringVarP(&recommendOutFile, "out", "o", "", "Path to write scored recommendations as JSON")
	recommendCmd.Flags().StringVar(&recommendProvider, "provider", "", `LLM provider: gemini or ollama (default "gemini")`)
	recommendCmd.Flags().StringVar(&recommendAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	recommendCmd.Flags().StringVar(&recommendOllamaURL, "ollama-url", "", "Ollama server URL")
	recommendCmd.Flags().StringVar(&recommendConfigFile, "config", "", "Path to JSON config file")
	recommendCmd.Flags().BoolVar(&recommendPerBook, "per-book", false, "Score each book with its own model call (for shelves too large for one batch response)")
	recommendCmd.Flags().BoolVarP(&recommendVerbose, "verbose", "v", false, "Print provider and progress details to stderr")

	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(_ *cobra.Command, _ []string) error {
	var fileCfg *config.Config
	if recommendConfigFile != "" {
		loaded, err := config.LoadConfig(recommendConfigFile)
		if err != nil {
			return err
		}
		if err := loaded.Validate(); err != nil {
			return err
		}
		fileCfg = loaded
	}
	cfg := recommendConfig(fileCfg)

	if cfg.ReadBooks == "" || cfg.UnreadBooks == "" {
		return fmt.Errorf("--read and --unread are required")
	}

	readBooks, err := loadBooks(cfg.ReadBooks)
	if err != nil {
		return err
	}
	unreadBooks, err := loadBooks(cfg.UnreadBooks)
	if err != nil {
		return err
	}
	if len(unreadBooks) == 0 {
		return fmt.Errorf("unread books file is empty, nothing to score")
	}

	ctx := context.Background()
	client, err := newLLMClient(ctx, cfg.Provider, cfg.APIKey, cfg.OllamaBaseURL)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	if cfg.Verbose {
		_, _ = fmt.Fprintf(os.Stderr, "Provider: %s (model %s)\n", cfg.Provider, client.GetModel(llm.TierStandard))
		_, _ = fmt.Fprintf(os.Stderr, "Scoring %d unread books against %d read books\n", len(unreadBooks), len(readBooks))
	}

	var profile types.TasteProfile
	var scores []types.BookScore
	if recommendPerBook {
		profile, scores = taste.GetRecommendationsEach(ctx, client, readBooks, unreadBooks, cfg.TopN)
	} else {
		profile, scores = taste.GetRecommendations(ctx, client, readBooks, unreadBooks, cfg.TopN)
	}

	observability.NewPrinter(os.Stdout).PrintReport(profile, scores)

	if recommendOutFile != "" {
		jsonBytes, err := json.MarshalIndent(scores, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		if err := os.WriteFile(recommendOutFile, jsonBytes, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}

		validateRecommendationsOutput(recommendOutFile)

		_, _ = fmt.Fprintf(os.Stdout, "\nOutput: %s\n", recommendOutFile)
	}

	return nil
}

// recommendConfig merges CLI flag values with an optional config file.
// Flags win; file values fill flags that were left unset.
func recommendConfig(fileCfg *config.Config) config.Config {
	flags := config.Config{
		ReadBooks:     recommendReadFile,
		UnreadBooks:   recommendUnreadFile,
		Provider:      recommendProvider,
		APIKey:        recommendAPIKey,
		OllamaBaseURL: recommendOllamaURL,
		TopN:          recommendTopN,
		Verbose:       recommendVerbose,
	}

	var defaults config.Config
	if fileCfg != nil {
		defaults = *fileCfg
	}
	merged := flags.MergeWithDefaults(defaults)

	// MergeWithDefaults skips bools, so an explicit verbose in the file
	// still turns the flag on.
	if fileCfg != nil && fileCfg.Verbose {
		merged.Verbose = true
	}
	if merged.Provider == "" {
		merged.Provider = "gemini"
	}
	return merged
}

// validateRecommendationsOutput checks the written JSON against the
// recommendations schema when the schema file can be found. Schema loading
// problems only warn; actual shape violations are printed as errors.
func validateRecommendationsOutput(outFile string) {
	schemaPath := schemas.ResolveSchemaPath("schemas/recommendations.schema.json")
	if schemaPath == "" {
		return
	}

	if err := schemas.ValidateJSON(schemaPath, outFile); err != nil {
		var validationErr *schemas.ValidationError
		if errors.As(err, &validationErr) {
			_, _ = fmt.Fprintf(os.Stderr, "Error: generated JSON does not validate against schema: %v\n", err)
			return
		}
		_, _ = fmt.Fprintf(os.Stderr, "Warning: could not validate output against schema: %v\n", err)
	}
}
