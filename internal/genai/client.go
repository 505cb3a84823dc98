// Package genai wraps the managed generative-text service used by the
// AI coach. The wire contract is a messages-style completion API; the
// client rate limits itself but leaves retries to its callers.
package genai

import (
	"context"
)

// Client defines the interface for generative-text providers.
type Client interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// GenerateRequest is one text-generation call.
type GenerateRequest struct {
	System string
	Prompt string
}
