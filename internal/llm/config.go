// Package llm provides the model-completion boundary for the agent pipeline.
// It abstracts over providers behind a single Client interface and attaches
// token usage, latency, and dollar cost to every completion.
package llm

import "time"

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
	// ProviderOpenRouter is the OpenRouter OpenAI-compatible provider
	ProviderOpenRouter Provider = "openrouter"
)

// DefaultCallTimeout bounds a single model round-trip. Expiry surfaces as a
// normal call error to the caller.
const DefaultCallTimeout = 120 * time.Second

// Config holds the provider configuration for a client. It is passed
// explicitly into the factory; there is no ambient mutable configuration.
type Config struct {
	Provider Provider
	Model    string
	APIKey   string
	// CallTimeout bounds each completion call. Zero means DefaultCallTimeout.
	CallTimeout time.Duration
}

// DefaultConfig returns the default configuration (currently Gemini flash)
func DefaultConfig(apiKey string) *Config {
	return &Config{
		Provider:    ProviderGemini,
		Model:       "gemini-2.5-flash",
		APIKey:      apiKey,
		CallTimeout: DefaultCallTimeout,
	}
}

func (c *Config) callTimeout() time.Duration {
	if c.CallTimeout > 0 {
		return c.CallTimeout
	}
	return DefaultCallTimeout
}

// Options holds per-call generation parameters
type Options struct {
	Temperature float32
	MaxTokens   int
	TopP        float32
}

// DefaultOptions returns the generation parameters used by the agent roles
func DefaultOptions() *Options {
	return &Options{
		Temperature: 0.7,
		MaxTokens:   4096,
		TopP:        1,
	}
}
