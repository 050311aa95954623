package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/priyansh/aletheia/internal/identify"
)

var identifyCmd = &cobra.Command{
	Use:   "identify [ocr text]",
	Short: "Identify a book from noisy OCR text",
	Long:  "Resolve OCR text from a book spine or cover into a complete book record, correcting partial titles and misspelled author names.",
	Args:  cobra.ArbitraryArgs,
	RunE:  runIdentify,
}

var (
	identifyTextFile  string
	identifyProvider  string
	identifyAPIKey    string
	identifyOllamaURL string
)

func init() {
	identifyCmd.Flags().StringVarP(&identifyTextFile, "in", "i", "", "Path to text file with OCR output (alternative to passing text as arguments)")
	identifyCmd.Flags().StringVar(&identifyProvider, "provider", "gemini", "LLM provider: gemini or ollama")
	identifyCmd.Flags().StringVar(&identifyAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	identifyCmd.Flags().StringVar(&identifyOllamaURL, "ollama-url", "", "Ollama server URL")

	rootCmd.AddCommand(identifyCmd)
}

func runIdentify(_ *cobra.Command, args []string) error {
	ocrText := strings.Join(args, " ")
	if identifyTextFile != "" {
		if ocrText != "" {
			return fmt.Errorf("cannot use --in together with text arguments")
		}
		data, err := os.ReadFile(identifyTextFile)
		if err != nil {
			return fmt.Errorf("failed to read input file: %w", err)
		}
		ocrText = string(data)
	}
	if strings.TrimSpace(ocrText) == "" {
		return fmt.Errorf("OCR text is required (pass as arguments or use --in)")
	}

	ctx := context.Background()
	client, err := newLLMClient(ctx, identifyProvider, identifyAPIKey, identifyOllamaURL)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	book, err := identify.IdentifyBook(ctx, client, ocrText)
	if err != nil {
		return fmt.Errorf("failed to identify book: %w", err)
	}

	jsonBytes, err := json.MarshalIndent(book, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Println(string(jsonBytes))

	return nil
}
