package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jonathan/req-consultant/internal/types"
)

const openRouterAPIURL = "https://openrouter.ai/api/v1/chat/completions"

// OpenRouterClient implements Client against the OpenRouter
// OpenAI-compatible chat completions API.
type OpenRouterClient struct {
	config     *Config
	httpClient *http.Client
	baseURL    string
}

// NewOpenRouterClient creates a new OpenRouter client
func NewOpenRouterClient(config *Config) (*OpenRouterClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	return &OpenRouterClient{
		config:     config,
		httpClient: &http.Client{Timeout: config.callTimeout()},
		baseURL:    openRouterAPIURL,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	TopP        float32       `json:"top_p"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends a system/user prompt pair through the chat completions API
func (c *OpenRouterClient) Complete(ctx context.Context, systemPrompt, userPrompt string, opts *Options) (*Completion, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	body, err := json.Marshal(chatRequest{
		Model: c.Model(),
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
		TopP:        opts.TopP,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.config.callTimeout())
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	req.Header.Set("X-Title", "Requisition-Consultant")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	latencyMs := time.Since(start).Milliseconds()
	if err != nil {
		return nil, fmt.Errorf("OpenRouter request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := resp.Status
		if parsed.Error != nil && parsed.Error.Message != "" {
			msg = parsed.Error.Message
		}
		return nil, fmt.Errorf("OpenRouter API error: %s", msg)
	}

	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	usage := types.TokenUsage{
		PromptTokens:     parsed.Usage.PromptTokens,
		CompletionTokens: parsed.Usage.CompletionTokens,
		TotalTokens:      parsed.Usage.TotalTokens,
	}
	usage.Cost = CalculateCost(usage, c.Model())

	return &Completion{
		Text:      parsed.Choices[0].Message.Content,
		Usage:     usage,
		Model:     c.Model(),
		LatencyMs: latencyMs,
	}, nil
}

// Model returns the configured model identifier without any provider prefix
func (c *OpenRouterClient) Model() string {
	return strings.TrimPrefix(c.config.Model, "openrouter/")
}

// Close is a no-op; the client holds no persistent connections
func (c *OpenRouterClient) Close() error {
	return nil
}
