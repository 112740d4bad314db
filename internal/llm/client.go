package llm

import (
	"context"
	"fmt"

	"github.com/jonathan/req-consultant/internal/types"
)

// Completion is the result of one model round-trip
type Completion struct {
	Text      string
	Usage     types.TokenUsage
	Model     string
	LatencyMs int64
}

// Client is an abstraction over LLM providers
type Client interface {
	// Complete sends a system/user prompt pair and returns the raw text
	// response with usage accounting attached
	Complete(ctx context.Context, systemPrompt, userPrompt string, opts *Options) (*Completion, error)
	// Model returns the configured model identifier
	Model() string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config) (Client, error) {
	if config == nil {
		return nil, fmt.Errorf("llm config is required")
	}

	switch config.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, config)
	case ProviderOpenRouter:
		return NewOpenRouterClient(config)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", config.Provider)
	}
}
