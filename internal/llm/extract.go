// Package llm - extract.go recovers JSON payloads from free-form model output.
package llm

import (
	"encoding/json"
	"strings"
)

// ExtractObject locates a JSON object inside free-form model output and
// returns it as a string. Models frequently wrap JSON in prose or code
// fences, so extraction scans from the first '{' to the last '}' before
// falling back to parsing the whole text. The bracket scan can be fooled by
// unmatched brackets in generated prose; that is an accepted trade-off of the
// heuristic, not something to compensate for here.
func ExtractObject(raw string) (string, error) {
	return extractJSON(raw, '{', '}')
}

// ExtractArray is ExtractObject for a top-level JSON array.
func ExtractArray(raw string) (string, error) {
	return extractJSON(raw, '[', ']')
}

func extractJSON(raw string, open, close byte) (string, error) {
	text := CleanJSONBlock(raw)

	start := strings.IndexByte(text, open)
	end := strings.LastIndexByte(text, close)
	if start >= 0 && end > start {
		candidate := text[start : end+1]
		if json.Valid([]byte(candidate)) {
			return candidate, nil
		}
	}

	// No bracket pair found, or the slice was malformed: try the whole text.
	trimmed := strings.TrimSpace(text)
	if len(trimmed) > 0 && trimmed[0] == open && json.Valid([]byte(trimmed)) {
		return trimmed, nil
	}

	return "", &ParseError{
		Message: "no JSON " + shapeName(open) + " found in response",
		Raw:     raw,
	}
}

func shapeName(open byte) string {
	if open == '[' {
		return "array"
	}
	return "object"
}
