package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/openai/openai-go/v3/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func completion(content string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	}
}

func newTestServer(t *testing.T, hits *atomic.Int32, status int, body any, seen *chatRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if seen != nil {
			_ = json.NewDecoder(r.Body).Decode(seen)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSummarizeSendsPromptedText(t *testing.T) {
	var hits atomic.Int32
	var seen chatRequest
	srv := newTestServer(t, &hits, http.StatusOK, completion("A short summary."), &seen)

	client := NewOpenAIClient("sk-test", "gpt-4o-mini", option.WithBaseURL(srv.URL+"/"))
	summary, err := client.Summarize(context.Background(), "hello world this is great.")

	require.NoError(t, err)
	assert.Equal(t, "A short summary.", summary)
	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, "gpt-4o-mini", seen.Model)
	require.Len(t, seen.Messages, 1)
	assert.Equal(t, "user", seen.Messages[0].Role)
	assert.Equal(t, SummaryPrompt+"hello world this is great.", seen.Messages[0].Content)
}

func TestSummarizeWithoutKeyMakesNoRequest(t *testing.T) {
	var hits atomic.Int32
	srv := newTestServer(t, &hits, http.StatusOK, completion("unused"), nil)

	client := NewOpenAIClient("", "", option.WithBaseURL(srv.URL+"/"))
	_, err := client.Summarize(context.Background(), "text")

	assert.True(t, errors.Is(err, ErrNotConfigured))
	assert.Equal(t, int32(0), hits.Load())
}

func TestSummarizeEmptyResponseReturnsPlaceholder(t *testing.T) {
	tests := []struct {
		name string
		body map[string]any
	}{
		{"empty content", completion("")},
		{"no choices", map[string]any{
			"id": "chatcmpl-test", "object": "chat.completion", "created": 1700000000,
			"model": "gpt-4o-mini", "choices": []any{},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hits atomic.Int32
			srv := newTestServer(t, &hits, http.StatusOK, tt.body, nil)

			client := NewOpenAIClient("sk-test", "gpt-4o-mini", option.WithBaseURL(srv.URL+"/"))
			summary, err := client.Summarize(context.Background(), "text")

			require.NoError(t, err)
			assert.Equal(t, NoResponse, summary)
		})
	}
}

func TestSummarizeServerErrorIsNotRetried(t *testing.T) {
	var hits atomic.Int32
	srv := newTestServer(t, &hits, http.StatusInternalServerError,
		map[string]any{"error": map[string]any{"message": "boom", "type": "server_error"}}, nil)

	client := NewOpenAIClient("sk-test", "gpt-4o-mini", option.WithBaseURL(srv.URL+"/"))
	_, err := client.Summarize(context.Background(), "text")

	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotConfigured))
	assert.Equal(t, int32(1), hits.Load())
}

func TestNilClient(t *testing.T) {
	var c *OpenAIClient
	_, err := c.Summarize(context.Background(), "text")
	assert.Error(t, err)
}
