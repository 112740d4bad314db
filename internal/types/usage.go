package types

// TokenUsage counts tokens and dollar cost for a single model call.
// Values are immutable per call; accumulation happens by addition only.
type TokenUsage struct {
	PromptTokens     int     `json:"prompt_tokens"`
	CompletionTokens int     `json:"completion_tokens"`
	TotalTokens      int     `json:"total_tokens"`
	Cost             float64 `json:"cost"`
}

// Add returns the field-wise sum of two usages. Cost accumulates as a float
// sum with no rounding until display.
func (u TokenUsage) Add(other TokenUsage) TokenUsage {
	return TokenUsage{
		PromptTokens:     u.PromptTokens + other.PromptTokens,
		CompletionTokens: u.CompletionTokens + other.CompletionTokens,
		TotalTokens:      u.TotalTokens + other.TotalTokens,
		Cost:             u.Cost + other.Cost,
	}
}

// AnalysisUsage aggregates token usage across all agent calls in one run
type AnalysisUsage struct {
	TotalUsage     TokenUsage               `json:"total_usage"`
	TotalCost      float64                  `json:"total_cost"`
	TotalLatencyMs int64                    `json:"total_latency_ms"`
	Breakdown      map[AgentRole]TokenUsage `json:"breakdown"`
	Iterations     int                      `json:"iterations"`
}
