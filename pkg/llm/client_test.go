package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helmcode/homefix-ai/pkg/model"
)

func TestClaudeChat(t *testing.T) {
	var got map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "k", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		fmt.Fprint(w, `{"content":[{"type":"text","text":"The faucet is leaking."},{"type":"text","text":"1. Close the valve"}]}`)
	}))
	defer ts.Close()

	c := NewClaude("k").WithBaseURL(ts.URL)
	text, err := c.Chat(context.Background(), Prompt{
		System: "sys",
		User:   "my faucet drips",
		Image:  &model.Image{Data: []byte{0xff, 0xd8}, MediaType: "image/jpeg"},
	})
	require.NoError(t, err)
	assert.Equal(t, "The faucet is leaking.\n1. Close the valve", text)
	assert.Equal(t, DefaultClaudeModel, c.GetModel())

	assert.Equal(t, "sys", got["system"])
	msgs := got["messages"].([]any)
	content := msgs[0].(map[string]any)["content"].([]any)
	require.Len(t, content, 2)
	assert.Equal(t, "image", content[0].(map[string]any)["type"])
	source := content[0].(map[string]any)["source"].(map[string]any)
	assert.Equal(t, "image/jpeg", source["media_type"])
	assert.Equal(t, "/9g=", source["data"])
	assert.Equal(t, "my faucet drips", content[1].(map[string]any)["text"])
}

func TestClaudeErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"status", http.StatusTooManyRequests, `{"error":{"message":"slow down"}}`, "status 429"},
		{"api error", http.StatusOK, `{"error":{"message":"bad model"}}`, "bad model"},
		{"empty", http.StatusOK, `{"content":[]}`, ErrEmptyResponse.Error()},
		{"garbage", http.StatusOK, `not json`, "invalid character"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer ts.Close()

			_, err := NewClaude("k").WithBaseURL(ts.URL).Chat(context.Background(), Prompt{User: "u"})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestOpenAIChat(t *testing.T) {
	var got map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer k", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		fmt.Fprint(w, `{"choices":[{"message":{"content":"Reset the breaker."}}]}`)
	}))
	defer ts.Close()

	o := NewOpenAIWithModel("k", "gpt-test").WithBaseURL(ts.URL + "/")
	text, err := o.Chat(context.Background(), Prompt{
		System: "sys",
		User:   "outlet dead",
		Image:  &model.Image{Data: []byte("png"), MediaType: "image/png"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Reset the breaker.", text)
	assert.Equal(t, "gpt-test", o.GetModel())

	msgs := got["messages"].([]any)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	parts := msgs[1].(map[string]any)["content"].([]any)
	require.Len(t, parts, 2)
	url := parts[1].(map[string]any)["image_url"].(map[string]any)["url"].(string)
	assert.True(t, strings.HasPrefix(url, "data:image/png;base64,"))
}

func TestOpenAITextOnly(t *testing.T) {
	var got map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		fmt.Fprint(w, `{"choices":[]}`)
	}))
	defer ts.Close()

	_, err := NewOpenAI("k").WithBaseURL(ts.URL).Chat(context.Background(), Prompt{User: "u"})
	assert.ErrorIs(t, err, ErrEmptyResponse)

	msgs := got["messages"].([]any)
	require.Len(t, msgs, 1)
	assert.Equal(t, "u", msgs[0].(map[string]any)["content"])
}

func TestChatHonoursContext(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewClaude("k").WithBaseURL(ts.URL).Chat(ctx, Prompt{User: "u"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestJoinURLAndTruncate(t *testing.T) {
	assert.Equal(t, "https://a.com/v1/messages", joinURL("https://a.com/", "/v1/messages"))
	assert.Equal(t, "abc", truncate("abcdef", 3))
	assert.Equal(t, "ab", truncate("ab", 3))
}
