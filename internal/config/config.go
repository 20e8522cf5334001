// Package config builds the explicit configuration object passed to the
// server, the reviewer, and the generation-service provider.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Defaults.
const (
	DefaultPort          = 3001
	DefaultAllowedOrigin = "http://localhost:5173"
	DefaultEnvironment   = "development"
	DefaultMaxCodeLength = 10000
	DefaultProvider      = "gemini"
	DefaultModel         = DefaultGeminiModel
	DefaultTimeout       = 60 * time.Second
	DefaultMaxTokens     = 8192
	APIVersion           = "1.0.0"
	ServiceName          = "Smart Code Reviewer API"
)

// Provider names.
const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

// Default models per provider, used when llm.model is unset.
const (
	DefaultGeminiModel    = "gemini-3-flash-preview"
	DefaultAnthropicModel = "claude-sonnet-4-5"
	DefaultOpenAIModel    = "gpt-5-mini"
)

// LLMConfig configures the generation service.
type LLMConfig struct {
	Provider  string
	Model     string
	APIKey    string
	BaseURL   string
	Timeout   time.Duration
	MaxTokens int
}

// Config is constructed once at startup.
type Config struct {
	Port          int
	AllowedOrigin string
	Environment   string
	MaxCodeLength int
	APIVersion    string
	LogLevel      string
	LogFormat     string
	LLM           LLMConfig
}

// IsProduction reports whether the environment label is "production".
func (c Config) IsProduction() bool { return c.Environment == "production" }

// ListenAddr returns the address the HTTP server binds to.
func (c Config) ListenAddr() string { return fmt.Sprintf(":%d", c.Port) }

// SetDefaults registers defaults and env aliases on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("port", DefaultPort)
	v.SetDefault("allowed_origin", DefaultAllowedOrigin)
	v.SetDefault("environment", DefaultEnvironment)
	v.SetDefault("max_code_length", DefaultMaxCodeLength)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "")
	// llm.provider and llm.model have no viper defaults: each is resolved
	// from the other in Load.
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.timeout", DefaultTimeout)
	v.SetDefault("llm.max_tokens", DefaultMaxTokens)

	// Conventional names used by deployments of the original service.
	_ = v.BindEnv("port", "CODEREVIEW_PORT", "PORT")
	_ = v.BindEnv("allowed_origin", "CODEREVIEW_ALLOWED_ORIGIN", "CLIENT_URL")
}

// Load reads the effective configuration from v.
func Load(v *viper.Viper) Config {
	model := strings.TrimSpace(v.GetString("llm.model"))
	provider := ResolveProvider(v.GetString("llm.provider"), model)
	if model == "" {
		model = DefaultModelFor(provider)
	}

	apiKey := v.GetString("llm.api_key")
	if apiKey == "" {
		apiKey = apiKeyFromEnv(provider)
	}

	return Config{
		Port:          v.GetInt("port"),
		AllowedOrigin: v.GetString("allowed_origin"),
		Environment:   v.GetString("environment"),
		MaxCodeLength: v.GetInt("max_code_length"),
		APIVersion:    APIVersion,
		LogLevel:      v.GetString("log_level"),
		LogFormat:     v.GetString("log_format"),
		LLM: LLMConfig{
			Provider:  provider,
			Model:     model,
			APIKey:    apiKey,
			BaseURL:   v.GetString("llm.base_url"),
			Timeout:   v.GetDuration("llm.timeout"),
			MaxTokens: v.GetInt("llm.max_tokens"),
		},
	}
}

// ResolveProvider normalizes a provider name, inferring it from the model
// identifier when no provider is given.
func ResolveProvider(provider, model string) string {
	switch p := strings.ToLower(strings.TrimSpace(provider)); p {
	case "gemini", "google":
		return ProviderGemini
	case "anthropic", "claude":
		return ProviderAnthropic
	case "openai":
		return ProviderOpenAI
	case "":
	default:
		return p
	}

	lower := strings.ToLower(strings.TrimSpace(model))
	switch {
	case strings.HasPrefix(lower, "claude"):
		return ProviderAnthropic
	case strings.HasPrefix(lower, "gpt"), strings.HasPrefix(lower, "o1"), strings.HasPrefix(lower, "o3"), strings.HasPrefix(lower, "o4"):
		return ProviderOpenAI
	default:
		return DefaultProvider
	}
}

// DefaultModelFor returns the model used for provider when none is configured.
// Unknown providers get no default and fail Validate on the provider name.
func DefaultModelFor(provider string) string {
	switch provider {
	case ProviderGemini:
		return DefaultGeminiModel
	case ProviderAnthropic:
		return DefaultAnthropicModel
	case ProviderOpenAI:
		return DefaultOpenAIModel
	default:
		return ""
	}
}

// APIKeyEnvVars lists the conventional environment variables holding a
// provider's credential, in lookup order.
func APIKeyEnvVars(provider string) []string {
	switch provider {
	case ProviderGemini:
		return []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"}
	case ProviderAnthropic:
		return []string{"ANTHROPIC_API_KEY"}
	case ProviderOpenAI:
		return []string{"OPENAI_API_KEY"}
	default:
		return nil
	}
}

func apiKeyFromEnv(provider string) string {
	for _, name := range APIKeyEnvVars(provider) {
		if key := os.Getenv(name); key != "" {
			return key
		}
	}
	return ""
}

// Validate checks the configuration needed to serve reviews.
func (c Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderGemini, ProviderAnthropic, ProviderOpenAI:
	default:
		return fmt.Errorf("unknown llm provider %q (want gemini, anthropic, or openai)", c.LLM.Provider)
	}
	if c.LLM.APIKey == "" {
		return fmt.Errorf("no API key configured for %s: set llm.api_key or %s",
			c.LLM.Provider, strings.Join(APIKeyEnvVars(c.LLM.Provider), " / "))
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("llm.model must not be empty")
	}
	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("llm.timeout must be positive, got %s", c.LLM.Timeout)
	}
	if c.MaxCodeLength <= 0 {
		return fmt.Errorf("max_code_length must be positive, got %d", c.MaxCodeLength)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port out of range: %d", c.Port)
	}
	return nil
}
