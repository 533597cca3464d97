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
	DefaultOpenAIModel   = "gpt-4o" // vision capable
	DefaultOpenAIBaseURL = "https://api.openai.com"
)

type OpenAI struct {
	apiKey  string
	client  *http.Client
	model   string
	baseURL string
}

func NewOpenAI(apiKey string) *OpenAI {
	return NewOpenAIWithModel(apiKey, DefaultOpenAIModel)
}

func NewOpenAIWithModel(apiKey, model string) *OpenAI {
	return &OpenAI{
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 60 * time.Second},
		model:   model,
		baseURL: DefaultOpenAIBaseURL,
	}
}

func (o *OpenAI) WithBaseURL(baseURL string) *OpenAI {
	o.baseURL = baseURL
	return o
}

func (o *OpenAI) Chat(ctx context.Context, prompt Prompt) (string, error) {
	var userContent interface{} = prompt.User
	if !prompt.Image.Empty() {
		userContent = []map[string]interface{}{
			{"type": "text", "text": prompt.User},
			{"type": "image_url", "image_url": map[string]string{
				"url": fmt.Sprintf("data:%s;base64,%s", prompt.Image.MediaType, imageBase64(prompt.Image)),
			}},
		}
	}

	messages := []map[string]interface{}{}
	if prompt.System != "" {
		messages = append(messages, map[string]interface{}{"role": "system", "content": prompt.System})
	}
	messages = append(messages, map[string]interface{}{"role": "user", "content": userContent})

	body := map[string]interface{}{
		"model":       o.model,
		"messages":    messages,
		"max_tokens":  4000,
		"temperature": 0,
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, joinURL(o.baseURL, "/v1/chat/completions"), bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", o.apiKey))

	resp, err := o.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("OpenAI API error (status %d): %s", resp.StatusCode, truncate(string(respBytes), 500))
	}

	// OpenAI response structure
	var openaiResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
		} `json:"error"`
	}
	if err := json.Unmarshal(respBytes, &openaiResp); err != nil {
		return "", err
	}
	if openaiResp.Error.Message != "" {
		return "", fmt.Errorf("OpenAI API error: %s", openaiResp.Error.Message)
	}
	if len(openaiResp.Choices) == 0 || openaiResp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("OpenAI: %w", ErrEmptyResponse)
	}
	return openaiResp.Choices[0].Message.Content, nil
}

// GetModel returns the model being used by this OpenAI client
func (o *OpenAI) GetModel() string {
	return o.model
}
