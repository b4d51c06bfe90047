// Package llm wraps the text-generation capability behind a provider
// interface. Providers may be slow, rate-limited and non-deterministic;
// callers own retry policy.
package llm

import (
	"context"
	"errors"
)

// Failure classes surfaced by providers. Checked with errors.Is.
var (
	ErrRateLimited = errors.New("generation rate limited")
	ErrTimeout     = errors.New("generation timed out")
)

// Provider is the interface for all LLM providers.
type Provider interface {
	GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error)
}

// Embedder turns text into a dense vector, used for semantic news dedup.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
