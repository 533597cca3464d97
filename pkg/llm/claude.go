package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	DefaultClaudeModel   = "claude-sonnet-4-20250514"
	DefaultClaudeBaseURL = "https://api.anthropic.com"
)

type Claude struct {
	apiKey  string
	client  *http.Client
	model   string
	baseURL string
}

func NewClaude(apiKey string) *Claude {
	return NewClaudeWithModel(apiKey, DefaultClaudeModel)
}

func NewClaudeWithModel(apiKey, model string) *Claude {
	return &Claude{
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 60 * time.Second},
		model:   model,
		baseURL: DefaultClaudeBaseURL,
	}
}

// WithBaseURL points the client at another endpoint (proxies, tests).
func (c *Claude) WithBaseURL(baseURL string) *Claude {
	c.baseURL = baseURL
	return c
}

func (c *Claude) Chat(ctx context.Context, prompt Prompt) (string, error) {
	content := []map[string]interface{}{}
	if !prompt.Image.Empty() {
		content = append(content, map[string]interface{}{
			"type": "image",
			"source": map[string]string{
				"type":       "base64",
				"media_type": prompt.Image.MediaType,
				"data":       imageBase64(prompt.Image),
			},
		})
	}
	content = append(content, map[string]interface{}{
		"type": "text",
		"text": prompt.User,
	})

	body := map[string]interface{}{
		"model": c.model,
		"messages": []map[string]interface{}{{
			"role":    "user",
			"content": content,
		}},
		"max_tokens":  4000,
		"temperature": 0,
	}
	if prompt.System != "" {
		body["system"] = prompt.System
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, joinURL(c.baseURL, "/v1/messages"), bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Claude API error (status %d): %s", resp.StatusCode, truncate(string(respBytes), 500))
	}

	// Minimal struct to pull out the content text.
	var claudeResp struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(respBytes, &claudeResp); err != nil {
		return "", err
	}
	if claudeResp.Error.Message != "" {
		return "", fmt.Errorf("Claude API error: %s", claudeResp.Error.Message)
	}
	var out bytes.Buffer
	for _, block := range claudeResp.Content {
		if block.Text == "" {
			continue
		}
		if out.Len() > 0 {
			out.WriteByte('\n')
		}
		out.WriteString(block.Text)
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("Claude: %w", ErrEmptyResponse)
	}
	return out.String(), nil
}

// GetModel returns the model being used by this Claude client
func (c *Claude) GetModel() string {
	return c.model
}
