package llm

import "github.com/jonathan/req-consultant/internal/types"

// ModelPricing holds per-million-token prices in USD
type ModelPricing struct {
	PromptPricePerMillion     float64
	CompletionPricePerMillion float64
}

// modelPricing is the static price table keyed by model identifier.
// Unlisted models fall back to a linear estimate in CalculateCost.
var modelPricing = map[string]ModelPricing{
	"gemini-2.5-flash":                  {PromptPricePerMillion: 0.30, CompletionPricePerMillion: 2.50},
	"gemini-2.5-flash-lite":             {PromptPricePerMillion: 0.10, CompletionPricePerMillion: 0.40},
	"gemini-2.5-pro":                    {PromptPricePerMillion: 1.25, CompletionPricePerMillion: 10},
	"google/gemini-2.0-flash-exp:free":  {PromptPricePerMillion: 0, CompletionPricePerMillion: 0},
	"openai/gpt-4o":                     {PromptPricePerMillion: 2.5, CompletionPricePerMillion: 10},
	"openai/gpt-4o-mini":                {PromptPricePerMillion: 0.15, CompletionPricePerMillion: 0.60},
	"anthropic/claude-3-sonnet":         {PromptPricePerMillion: 3, CompletionPricePerMillion: 15},
	"anthropic/claude-3-haiku":          {PromptPricePerMillion: 0.25, CompletionPricePerMillion: 1.25},
}

// CalculateCost returns the dollar cost of a call given its token counts.
// Models missing from the price table get a conservative linear estimate.
func CalculateCost(usage types.TokenUsage, model string) float64 {
	pricing, ok := modelPricing[model]
	if !ok {
		return (float64(usage.PromptTokens)*0.5 + float64(usage.CompletionTokens)*1.5) / 1_000_000
	}
	return float64(usage.PromptTokens)*pricing.PromptPricePerMillion/1_000_000 +
		float64(usage.CompletionTokens)*pricing.CompletionPricePerMillion/1_000_000
}
