package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Harshitk-cp/veritas/internal/domain"
)

// ErrMalformedResponse is returned when a provider answers with something
// that is not the JSON shape the prompt asked for.
var ErrMalformedResponse = errors.New("malformed collaborator response")

type completeFunc func(ctx context.Context, prompt string) (string, error)

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// decodeObject parses a JSON object out of a model reply, falling back to
// the outermost braces when the model wrapped it in prose.
func decodeObject(raw string, v any) error {
	cleaned := stripFences(raw)
	if err := json.Unmarshal([]byte(cleaned), v); err == nil {
		return nil
	}

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end <= start {
		return fmt.Errorf("%w: no JSON object in %q", ErrMalformedResponse, truncate(cleaned, 200))
	}
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

// truncate caps s at limit bytes without splitting a rune.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "…"
}

func extractClaims(ctx context.Context, complete completeFunc, text string) (*domain.ClaimExtraction, error) {
	result, err := complete(ctx, fmt.Sprintf(extractClaimsPrompt, text))
	if err != nil {
		return nil, fmt.Errorf("extract claims: %w", err)
	}

	var extraction domain.ClaimExtraction
	if err := decodeObject(result, &extraction); err != nil {
		return nil, fmt.Errorf("parse claim extraction: %w", err)
	}
	if extraction.Claims == nil {
		extraction.Claims = []domain.RawClaim{}
	}
	return &extraction, nil
}

func search(ctx context.Context, complete completeFunc, query string) (*domain.SearchExtraction, error) {
	result, err := complete(ctx, fmt.Sprintf(searchPrompt, query))
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	var extraction domain.SearchExtraction
	if err := decodeObject(result, &extraction); err != nil {
		return nil, fmt.Errorf("parse search result: %w", err)
	}
	if strings.TrimSpace(extraction.Answer) == "" {
		return nil, fmt.Errorf("parse search result: %w: empty answer", ErrMalformedResponse)
	}
	return &extraction, nil
}

func rephrase(ctx context.Context, complete completeFunc, text string) (string, error) {
	result, err := complete(ctx, fmt.Sprintf(rephrasePrompt, text))
	if err != nil {
		return "", fmt.Errorf("rephrase: %w", err)
	}
	return stripFences(result), nil
}
