package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig("test-key")

	assert.Equal(t, ProviderGemini, config.Provider)
	assert.Equal(t, "gemini-2.5-flash", config.Model)
	assert.Equal(t, "test-key", config.APIKey)
	assert.Equal(t, DefaultCallTimeout, config.CallTimeout)
}

func TestCallTimeout_ZeroUsesDefault(t *testing.T) {
	config := &Config{}
	assert.Equal(t, DefaultCallTimeout, config.callTimeout())

	config.CallTimeout = 5 * time.Second
	assert.Equal(t, 5*time.Second, config.callTimeout())
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	assert.InDelta(t, 0.7, opts.Temperature, 0.001)
	assert.Greater(t, opts.MaxTokens, 0)
}

func TestProviderConstants(t *testing.T) {
	assert.Equal(t, Provider("gemini"), ProviderGemini)
	assert.Equal(t, Provider("openrouter"), ProviderOpenRouter)
}

func TestNewClient_NilConfig(t *testing.T) {
	_, err := NewClient(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config is required")
}

func TestNewClient_UnknownProvider(t *testing.T) {
	_, err := NewClient(context.Background(), &Config{Provider: "mystery", APIKey: "k"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown LLM provider")
}

func TestNewClient_OpenRouter(t *testing.T) {
	client, err := NewClient(context.Background(), &Config{
		Provider: ProviderOpenRouter,
		Model:    "openai/gpt-4o-mini",
		APIKey:   "k",
	})
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	assert.Equal(t, "openai/gpt-4o-mini", client.Model())
}

func TestNewClient_OpenRouterRequiresAPIKey(t *testing.T) {
	_, err := NewClient(context.Background(), &Config{Provider: ProviderOpenRouter})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}
