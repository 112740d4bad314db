package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOpenRouterClient(t *testing.T, handler http.HandlerFunc) *OpenRouterClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewOpenRouterClient(&Config{
		Provider: ProviderOpenRouter,
		Model:    "openai/gpt-4o-mini",
		APIKey:   "test-key",
	})
	require.NoError(t, err)
	client.baseURL = srv.URL
	return client
}

func TestOpenRouterComplete_Success(t *testing.T) {
	client := newTestOpenRouterClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "openai/gpt-4o-mini", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "you are a recruiter", req.Messages[0].Content)
		assert.Equal(t, "user", req.Messages[1].Role)

		_, _ = w.Write([]byte(`{
			"choices": [{"message": {"content": "{\"verdict\": \"ok\"}"}}],
			"usage": {"prompt_tokens": 120, "completion_tokens": 40, "total_tokens": 160}
		}`))
	})

	completion, err := client.Complete(context.Background(), "you are a recruiter", "analyze this", nil)
	require.NoError(t, err)

	assert.Equal(t, `{"verdict": "ok"}`, completion.Text)
	assert.Equal(t, 120, completion.Usage.PromptTokens)
	assert.Equal(t, 40, completion.Usage.CompletionTokens)
	assert.Equal(t, 160, completion.Usage.TotalTokens)
	assert.Greater(t, completion.Usage.Cost, 0.0)
	assert.Equal(t, "openai/gpt-4o-mini", completion.Model)
}

func TestOpenRouterComplete_APIError(t *testing.T) {
	client := newTestOpenRouterClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "rate limited"}}`))
	})

	_, err := client.Complete(context.Background(), "sys", "user", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestOpenRouterComplete_NoChoices(t *testing.T) {
	client := newTestOpenRouterClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices": []}`))
	})

	_, err := client.Complete(context.Background(), "sys", "user", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestOpenRouterComplete_ContextCanceled(t *testing.T) {
	client := newTestOpenRouterClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices": [{"message": {"content": "late"}}]}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Complete(ctx, "sys", "user", nil)
	require.Error(t, err)
}

func TestOpenRouterModel_StripsProviderPrefix(t *testing.T) {
	client, err := NewOpenRouterClient(&Config{
		Provider: ProviderOpenRouter,
		Model:    "openrouter/anthropic/claude-3-haiku",
		APIKey:   "k",
	})
	require.NoError(t, err)
	assert.Equal(t, "anthropic/claude-3-haiku", client.Model())
}
