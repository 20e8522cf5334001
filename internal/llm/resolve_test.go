package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joescharf/codereview/internal/config"
)

func TestNewProvider(t *testing.T) {
	ctx := context.Background()
	for _, name := range []string{"gemini", "anthropic", "openai"} {
		t.Run(name, func(t *testing.T) {
			p, err := NewProvider(ctx, config.LLMConfig{
				Provider: name,
				APIKey:   "test-key",
				Timeout:  time.Second,
			})
			require.NoError(t, err)
			assert.Equal(t, name, p.Name())
		})
	}
}

func TestNewProvider_Unknown(t *testing.T) {
	_, err := NewProvider(context.Background(), config.LLMConfig{Provider: "ollama"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown llm provider")
}
