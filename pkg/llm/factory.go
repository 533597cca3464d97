package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/helmcode/homefix-ai/pkg/config"
)

// Provider represents the LLM provider type
type Provider string

const (
	ProviderClaude Provider = "claude"
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

// Factory creates LLM instances from the loaded configuration
type Factory struct {
	cfg    *config.Config
	logger *zap.Logger
}

func NewFactory(cfg *config.Config, logger *zap.Logger) *Factory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Factory{cfg: cfg, logger: logger}
}

// Create builds the configured provider, wrapped with the retry policy.
// Empty overrides fall back to LLM_PROVIDER / <PROVIDER>_MODEL; with no
// provider configured at all the first one that has an API key is used,
// Claude first.
func (f *Factory) Create(ctx context.Context, providerOverride, modelOverride string) (LLM, error) {
	provider := Provider(strings.ToLower(providerOverride))
	if provider == "" {
		provider = f.detectProvider()
	}

	base, err := f.CreateLLM(ctx, provider, modelOverride)
	if err != nil {
		return nil, err
	}
	return NewRetrying(base, RetryOptions{MaxRetries: f.cfg.MaxRetries, Jitter: 0.2}, f.logger), nil
}

// CreateLLM creates a bare provider client without retries
func (f *Factory) CreateLLM(ctx context.Context, provider Provider, model string) (LLM, error) {
	timeout := f.cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	switch provider {
	case ProviderClaude:
		if f.cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set: %w", ErrMissingAPIKey)
		}
		c := NewClaudeWithModel(f.cfg.AnthropicAPIKey, firstNonEmpty(model, f.cfg.ClaudeModel, DefaultClaudeModel))
		c.client.Timeout = timeout
		if f.cfg.ClaudeBaseURL != "" {
			c.WithBaseURL(f.cfg.ClaudeBaseURL)
		}
		return c, nil

	case ProviderOpenAI:
		if f.cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set: %w", ErrMissingAPIKey)
		}
		o := NewOpenAIWithModel(f.cfg.OpenAIAPIKey, firstNonEmpty(model, f.cfg.OpenAIModel, DefaultOpenAIModel))
		o.client.Timeout = timeout
		if f.cfg.OpenAIBaseURL != "" {
			o.WithBaseURL(f.cfg.OpenAIBaseURL)
		}
		return o, nil

	case ProviderGemini:
		if f.cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set: %w", ErrMissingAPIKey)
		}
		return NewGemini(ctx, f.cfg.GeminiAPIKey, firstNonEmpty(model, f.cfg.GeminiModel), f.cfg.GeminiBaseURL)

	default:
		return nil, fmt.Errorf("%w: %s (supported: %v)", ErrUnsupportedProvider, provider, f.GetAvailableProviders())
	}
}

// GetAvailableProviders returns a list of available LLM providers
func (f *Factory) GetAvailableProviders() []Provider {
	return []Provider{ProviderClaude, ProviderOpenAI, ProviderGemini}
}

func (f *Factory) detectProvider() Provider {
	if f.cfg.Provider != "" {
		return Provider(strings.ToLower(f.cfg.Provider))
	}
	switch {
	case f.cfg.AnthropicAPIKey != "":
		return ProviderClaude
	case f.cfg.OpenAIAPIKey != "":
		return ProviderOpenAI
	case f.cfg.GeminiAPIKey != "":
		return ProviderGemini
	}
	// Default to Claude so the missing-key error names a variable.
	return ProviderClaude
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
