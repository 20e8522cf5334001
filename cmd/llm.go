package cmd

import (
	"context"
	"fmt"

	"github.com/joescharf/codereview/internal/config"
	"github.com/joescharf/codereview/internal/llm"
	"github.com/joescharf/codereview/internal/review"
)

// newReviewer validates cfg and builds the review pipeline for its provider.
func newReviewer(ctx context.Context, cfg config.Config) (*review.Reviewer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	provider, err := llm.NewProvider(ctx, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("create %s provider: %w", cfg.LLM.Provider, err)
	}
	return review.NewReviewer(provider, cfg.LLM), nil
}
