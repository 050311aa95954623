// Package identify resolves noisy OCR text into full book records.
package identify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/priyansh/aletheia/internal/llm"
	"github.com/priyansh/aletheia/internal/prompts"
	"github.com/priyansh/aletheia/internal/types"
)

const generateAttempts = 2

// IdentifyBook asks the model to resolve OCR text from a book spine or cover
// into a complete catalog record, correcting partial titles and misspelled
// author names. Unlike taste analysis there is no heuristic to fall back on,
// so failures surface as errors.
func IdentifyBook(ctx context.Context, client llm.Client, ocrText string) (types.Book, error) {
	ocrText = strings.TrimSpace(ocrText)
	if ocrText == "" {
		return types.Book{}, fmt.Errorf("ocr text is empty")
	}

	prompt := prompts.MustGet("identify.json", "identify-book")
	prompt = prompts.Format(prompt, map[string]string{"OCRText": ocrText})

	response, err := llm.GenerateWithRetry(ctx, client, prompt, llm.TierLite, generateAttempts)
	if err != nil {
		return types.Book{}, fmt.Errorf("identifying book from OCR text: %w", err)
	}

	jsonStr, err := llm.ExtractObject(response)
	if err != nil {
		return types.Book{}, fmt.Errorf("identifying book from OCR text: %w", err)
	}

	var book types.Book
	if err := json.Unmarshal([]byte(jsonStr), &book); err != nil {
		return types.Book{}, &llm.ParseError{
			Message: "book identification response has wrong shape",
			Raw:     response,
			Cause:   err,
		}
	}

	if strings.TrimSpace(book.Title) == "" {
		return types.Book{}, &llm.ParseError{
			Message: "book identification returned no title",
			Raw:     response,
		}
	}

	book.Normalize()
	return book, nil
}

// IdentifyBooks resolves a batch of OCR fragments sequentially, skipping
// fragments that cannot be identified. It returns the books it could resolve
// together with the fragments that failed.
func IdentifyBooks(ctx context.Context, client llm.Client, ocrTexts []string) ([]types.Book, []string) {
	books := make([]types.Book, 0, len(ocrTexts))
	var failed []string

	for _, text := range ocrTexts {
		book, err := IdentifyBook(ctx, client, text)
		if err != nil {
			failed = append(failed, text)
			continue
		}
		books = append(books, book)
	}

	return books, failed
}
