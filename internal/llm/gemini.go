package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/jonathan/req-consultant/internal/types"
)

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config) (*GeminiClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(config.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: config,
	}, nil
}

// Complete sends a system/user prompt pair to Gemini
func (c *GeminiClient) Complete(ctx context.Context, systemPrompt, userPrompt string, opts *Options) (*Completion, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	model := c.client.GenerativeModel(c.config.Model)
	model.SetTemperature(opts.Temperature)
	model.SetTopP(opts.TopP)
	if opts.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(opts.MaxTokens))
	}
	if systemPrompt != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(systemPrompt)},
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, c.config.callTimeout())
	defer cancel()

	start := time.Now()
	resp, err := model.GenerateContent(callCtx, genai.Text(userPrompt))
	latencyMs := time.Since(start).Milliseconds()
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		return nil, err
	}

	usage := usageFromMetadata(resp.UsageMetadata)
	usage.Cost = CalculateCost(usage, c.config.Model)

	return &Completion{
		Text:      text,
		Usage:     usage,
		Model:     c.config.Model,
		LatencyMs: latencyMs,
	}, nil
}

// Model returns the configured model identifier
func (c *GeminiClient) Model() string {
	return c.config.Model
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// extractTextFromResponse extracts text from a Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}

// usageFromMetadata maps Gemini usage metadata to TokenUsage. Gemini may
// omit metadata entirely; absent counts stay zero rather than failing.
func usageFromMetadata(meta *genai.UsageMetadata) types.TokenUsage {
	if meta == nil {
		return types.TokenUsage{}
	}
	return types.TokenUsage{
		PromptTokens:     int(meta.PromptTokenCount),
		CompletionTokens: int(meta.CandidatesTokenCount),
		TotalTokens:      int(meta.TotalTokenCount),
	}
}
