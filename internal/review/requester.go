package review

import (
	"context"
	"strings"

	"github.com/joescharf/codereview/internal/config"
	"github.com/joescharf/codereview/internal/llm"
)

var replySchema = llm.GenerateSchema[reply]()

// Requester sends one prompt to the generation service and returns its text.
type Requester struct {
	provider llm.Provider
	cfg      config.LLMConfig
}

// NewRequester creates a Requester for the given provider.
func NewRequester(p llm.Provider, cfg config.LLMConfig) *Requester {
	return &Requester{provider: p, cfg: cfg}
}

// Request calls the provider exactly once. Failures are always returned as
// *llm.ServiceError; a blank reply is reported as an empty response.
func (r *Requester) Request(ctx context.Context, prompt string) (string, error) {
	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	text, err := r.provider.Generate(ctx, prompt, llm.Settings{
		Model:      r.cfg.Model,
		MaxTokens:  r.cfg.MaxTokens,
		Schema:     replySchema,
		SchemaName: "code_review",
	})
	if err != nil {
		if se, ok := llm.AsServiceError(err); ok {
			return "", se
		}
		return "", llm.Classify(r.provider.Name(), err)
	}
	if strings.TrimSpace(text) == "" {
		return "", llm.EmptyResponse(r.provider.Name())
	}
	return text, nil
}
