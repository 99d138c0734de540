package llm

import (
	"context"
	"errors"
)

// Client sends one prompt to a hosted text-generation service and returns the
// raw text of its reply. Implementations must not retry or cache.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ErrNotConfigured is returned by the placeholder client.
var ErrNotConfigured = errors.New("LLM provider not configured")

// ErrEmptyResponse is returned when the service replies without text.
var ErrEmptyResponse = errors.New("LLM response empty")

// PlaceholderClient is used when no provider credentials are available.
type PlaceholderClient struct{}

// Generate returns ErrNotConfigured.
func (PlaceholderClient) Generate(ctx context.Context, prompt string) (string, error) {
	_ = ctx
	_ = prompt
	return "", ErrNotConfigured
}

// ClientFunc adapts a function to Client.
type ClientFunc func(ctx context.Context, prompt string) (string, error)

// Generate calls f.
func (f ClientFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
