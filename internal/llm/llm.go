// Package llm wraps the hosted text-generation services used to review code.
// Each provider makes exactly one call per Generate; retries are disabled.
package llm

import "context"

// Settings configures a single generation request.
type Settings struct {
	Model     string
	MaxTokens int
	// Schema, when set, asks providers that support structured output to
	// constrain the reply to this JSON schema.
	Schema     any
	SchemaName string
}

// Provider generates text from a prompt.
type Provider interface {
	Generate(ctx context.Context, prompt string, settings Settings) (string, error)
	Name() string
}
