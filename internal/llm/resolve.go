package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/joescharf/codereview/internal/config"
)

// NewProvider creates the provider named by cfg. The name is expected to be
// resolved already by config.Load. The HTTP client carries the
// configured timeout as a transport-level backstop.
func NewProvider(ctx context.Context, cfg config.LLMConfig) (Provider, error) {
	httpClient := &http.Client{Timeout: cfg.Timeout}

	switch cfg.Provider {
	case config.ProviderGemini:
		return NewGemini(ctx, cfg.APIKey, cfg.BaseURL, httpClient)
	case config.ProviderAnthropic:
		return NewAnthropic(cfg.APIKey, cfg.BaseURL, httpClient), nil
	case config.ProviderOpenAI:
		return NewOpenAI(cfg.APIKey, cfg.BaseURL, httpClient), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
}
