package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helmcode/homefix-ai/pkg/config"
)

func TestFactoryCreate(t *testing.T) {
	cfg := &config.Config{
		AnthropicAPIKey: "a",
		OpenAIAPIKey:    "o",
		OpenAIModel:     "gpt-env",
		Timeout:         5 * time.Second,
		MaxRetries:      1,
	}
	f := NewFactory(cfg, nil)

	l, err := f.Create(context.Background(), "", "")
	require.NoError(t, err)
	assert.IsType(t, &Retrying{}, l)
	assert.Equal(t, DefaultClaudeModel, l.GetModel())

	l, err = f.Create(context.Background(), "OpenAI", "")
	require.NoError(t, err)
	assert.Equal(t, "gpt-env", l.GetModel())

	l, err = f.Create(context.Background(), "openai", "gpt-flag")
	require.NoError(t, err)
	assert.Equal(t, "gpt-flag", l.GetModel())
}

func TestFactoryDetectProvider(t *testing.T) {
	assert.Equal(t, ProviderOpenAI, NewFactory(&config.Config{OpenAIAPIKey: "o"}, nil).detectProvider())
	assert.Equal(t, ProviderGemini, NewFactory(&config.Config{GeminiAPIKey: "g"}, nil).detectProvider())
	assert.Equal(t, ProviderClaude, NewFactory(&config.Config{}, nil).detectProvider())
	assert.Equal(t, ProviderGemini, NewFactory(&config.Config{Provider: "Gemini", AnthropicAPIKey: "a"}, nil).detectProvider())
}

func TestFactoryErrors(t *testing.T) {
	f := NewFactory(&config.Config{}, nil)

	_, err := f.Create(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
	assert.Contains(t, err.Error(), "ANTHROPIC_API_KEY")

	_, err = f.Create(context.Background(), "gemini", "")
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	_, err = f.Create(context.Background(), "llama", "")
	assert.ErrorIs(t, err, ErrUnsupportedProvider)
	assert.Contains(t, err.Error(), "[claude openai gemini]")

	assert.Len(t, f.GetAvailableProviders(), 3)
}

func TestFactoryBaseURLOverride(t *testing.T) {
	f := NewFactory(&config.Config{AnthropicAPIKey: "a", ClaudeBaseURL: "http://proxy"}, nil)

	l, err := f.CreateLLM(context.Background(), ProviderClaude, "")
	require.NoError(t, err)
	c := l.(*Claude)
	assert.Equal(t, "http://proxy", c.baseURL)
	assert.Equal(t, 60*time.Second, c.client.Timeout)
}
