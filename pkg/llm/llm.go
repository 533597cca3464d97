package llm

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/helmcode/homefix-ai/pkg/model"
)

var (
	ErrEmptyResponse       = errors.New("empty response from model")
	ErrMissingAPIKey       = errors.New("API key is required")
	ErrUnsupportedProvider = errors.New("unsupported LLM provider")
)

// LLM is an upstream text/vision model that answers a prompt with one block
// of free text.
type LLM interface {
	Chat(ctx context.Context, prompt Prompt) (string, error)
	GetModel() string
}

// Prompt is a single-turn request. Image is optional.
type Prompt struct {
	System string
	User   string
	Image  *model.Image
}

func imageBase64(img *model.Image) string {
	return base64.StdEncoding.EncodeToString(img.Data)
}

func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + path
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
