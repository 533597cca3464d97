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

func newGeminiServer(t *testing.T, reply string, got *map[string]any) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/models/gemini-test:generateContent"), r.URL.Path)
		assert.Equal(t, "g", r.Header.Get("x-goog-api-key"))
		if got != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(got))
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, reply)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestGeminiChat(t *testing.T) {
	var got map[string]any
	ts := newGeminiServer(t, `{"candidates":[{"content":{"role":"model","parts":[{"text":"The breaker tripped.\n1. Reset it"}]}}]}`, &got)

	g, err := NewGemini(context.Background(), "g", "gemini-test", ts.URL+"/")
	require.NoError(t, err)
	assert.Equal(t, "gemini-test", g.GetModel())

	text, err := g.Chat(context.Background(), Prompt{
		System: "sys",
		User:   "outlet is dead",
		Image:  &model.Image{Data: []byte{0xff, 0xd8}, MediaType: "image/jpeg"},
	})
	require.NoError(t, err)
	assert.Equal(t, "The breaker tripped.\n1. Reset it", text)

	contents := got["contents"].([]any)
	require.Len(t, contents, 1)
	parts := contents[0].(map[string]any)["parts"].([]any)
	require.Len(t, parts, 2)
	assert.Equal(t, "outlet is dead", parts[0].(map[string]any)["text"])
	inline := parts[1].(map[string]any)["inlineData"].(map[string]any)
	assert.Equal(t, "image/jpeg", inline["mimeType"])
	assert.Equal(t, "/9g=", inline["data"])

	system := got["systemInstruction"].(map[string]any)["parts"].([]any)
	assert.Equal(t, "sys", system[0].(map[string]any)["text"])
}

func TestGeminiEmptyResponse(t *testing.T) {
	ts := newGeminiServer(t, `{"candidates":[]}`, nil)

	g, err := NewGemini(context.Background(), "g", "gemini-test", ts.URL+"/")
	require.NoError(t, err)

	_, err = g.Chat(context.Background(), Prompt{User: "x"})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestGeminiDefaults(t *testing.T) {
	g, err := NewGemini(context.Background(), "g", "", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultGeminiModel, g.GetModel())

	_, err = NewGemini(context.Background(), "", "", "")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}
