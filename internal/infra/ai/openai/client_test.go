package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domai "github.com/artspace/room-analyzer/internal/domain/ai"
	"github.com/artspace/room-analyzer/internal/infra/ai/prompt"
)

type chatRequest struct {
	Model               string `json:"model"`
	MaxTokens           int    `json:"max_tokens"`
	MaxCompletionTokens int    `json:"max_completion_tokens"`
	Messages            []struct {
		Role    string          `json:"role"`
		Content json.RawMessage `json:"content"`
	} `json:"messages"`
}

type contentPart struct {
	Type     string `json:"type"`
	Text     string `json:"text"`
	ImageURL struct {
		URL string `json:"url"`
	} `json:"image_url"`
}

func completionServer(t *testing.T, captured *chatRequest, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if captured != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func completion(content string) string {
	b, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	})
	return string(b)
}

func TestAnalyzeRoom_BuildsVisionRequest(t *testing.T) {
	var got chatRequest
	srv := completionServer(t, &got, http.StatusOK, completion(`{"analysis":{}}`))

	c := NewClient("test-key", "", srv.URL)
	text, err := c.AnalyzeRoom(context.Background(), "QUJD")
	require.NoError(t, err)
	assert.Equal(t, `{"analysis":{}}`, text)

	assert.Equal(t, "gpt-4o-mini", got.Model)
	assert.Equal(t, 1000, got.MaxTokens)
	assert.Zero(t, got.MaxCompletionTokens)
	require.Len(t, got.Messages, 2)

	assert.Equal(t, "system", got.Messages[0].Role)
	var system string
	require.NoError(t, json.Unmarshal(got.Messages[0].Content, &system))
	assert.Equal(t, prompt.GetSystemPrompt(), system)

	assert.Equal(t, "user", got.Messages[1].Role)
	var parts []contentPart
	require.NoError(t, json.Unmarshal(got.Messages[1].Content, &parts))
	require.Len(t, parts, 2)
	assert.Equal(t, "text", parts[0].Type)
	assert.Equal(t, prompt.GetUserPrompt(), parts[0].Text)
	assert.Equal(t, "image_url", parts[1].Type)
	assert.Equal(t, "data:image/jpeg;base64,QUJD", parts[1].ImageURL.URL)
}

func TestAnalyzeRoom_ReasoningModelUsesCompletionTokens(t *testing.T) {
	var got chatRequest
	srv := completionServer(t, &got, http.StatusOK, completion("{}"))

	c := NewClient("test-key", "o4-mini", srv.URL)
	_, err := c.AnalyzeRoom(context.Background(), "QUJD")
	require.NoError(t, err)

	assert.Equal(t, "o4-mini", got.Model)
	assert.Equal(t, 1000, got.MaxCompletionTokens)
	assert.Zero(t, got.MaxTokens)
}

func TestAnalyzeRoom_MissingKey(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := NewClient("", "", srv.URL)
	_, err := c.AnalyzeRoom(context.Background(), "QUJD")
	assert.ErrorIs(t, err, domai.ErrMissingAPIKey)
	assert.False(t, called)
}

func TestAnalyzeRoom_QuotaExceeded(t *testing.T) {
	srv := completionServer(t, nil, http.StatusTooManyRequests,
		`{"error":{"message":"Rate limit reached","type":"requests","code":"rate_limit_exceeded"}}`)

	c := NewClient("test-key", "", srv.URL)
	_, err := c.AnalyzeRoom(context.Background(), "QUJD")
	assert.ErrorIs(t, err, domai.ErrQuotaExceeded)
}

func TestAnalyzeRoom_UpstreamError(t *testing.T) {
	srv := completionServer(t, nil, http.StatusInternalServerError,
		`{"error":{"message":"boom","type":"server_error"}}`)

	c := NewClient("test-key", "", srv.URL)
	_, err := c.AnalyzeRoom(context.Background(), "QUJD")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domai.ErrQuotaExceeded)
}

func TestAnalyzeRoom_NoChoices(t *testing.T) {
	srv := completionServer(t, nil, http.StatusOK,
		`{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"gpt-4o-mini","choices":[]}`)

	c := NewClient("test-key", "", srv.URL+"/")
	_, err := c.AnalyzeRoom(context.Background(), "QUJD")
	assert.ErrorIs(t, err, domai.ErrEmptyCompletion)
}
