// Package agents implements the four structured-output LLM roles of the
// requisition analysis pipeline: requirements analyzer, market researcher,
// professional recruiter, and strategy validator. Each agent renders a
// prompt template, invokes the model boundary once, repairs and parses the
// JSON response, and normalizes the result so downstream consumers never
// observe missing fields.
package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/req-consultant/internal/llm"
	"github.com/jonathan/req-consultant/internal/repair"
	"github.com/jonathan/req-consultant/internal/types"
)

// promptFile holds all agent prompt templates
const promptFile = "agents.json"

// Metrics carries the usage accounting for one successful agent call
type Metrics struct {
	Usage     types.TokenUsage
	LatencyMs int64
}

// callJSON runs the shared invocation pipeline: prompt the model, repair the
// response, parse into out. Usage is returned only on success; failed calls
// are never accumulated.
func callJSON(ctx context.Context, client llm.Client, role types.AgentRole, systemPrompt, userPrompt string, out any) (*Metrics, error) {
	completion, err := client.Complete(ctx, systemPrompt, userPrompt, llm.DefaultOptions())
	if err != nil {
		return nil, &ExecutionError{Role: role, Cause: err}
	}

	if err := repair.RepairAndParse(completion.Text, out); err != nil {
		return nil, &ExecutionError{Role: role, Cause: err}
	}

	return &Metrics{
		Usage:     completion.Usage,
		LatencyMs: completion.LatencyMs,
	}, nil
}

// orDefault returns value, or fallback when value is empty
func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

// joinOr joins a list for prompt interpolation, with a fallback for empty lists
func joinOr(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return strings.Join(items, ", ")
}

// clampScore normalizes a model-supplied score into the closed interval
// [1,10]. A missing score (zero value) defaults to the neutral midpoint.
func clampScore(score float64) float64 {
	if score == 0 {
		return 5
	}
	if score < 1 {
		return 1
	}
	if score > 10 {
		return 10
	}
	return score
}

// ensureQuestions backfills missing IDs and normalizes the answered flag on
// model-emitted question objects. IDs stay stable across rounds once set.
func ensureQuestions(questions []types.ClarifyingQuestion, isAnswered bool) []types.ClarifyingQuestion {
	ensured := make([]types.ClarifyingQuestion, 0, len(questions))
	for _, q := range questions {
		if q.ID == "" {
			q.ID = uuid.NewString()
		}
		if q.Category == "" {
			q.Category = "other"
		}
		switch q.Priority {
		case types.PriorityHigh, types.PriorityMedium, types.PriorityLow:
		default:
			q.Priority = types.PriorityMedium
		}
		q.IsAnswered = isAnswered
		ensured = append(ensured, q)
	}
	return ensured
}

// ensureProfile defaults every nullable field of a candidate profile
func ensureProfile(profile types.CandidateProfile) types.CandidateProfile {
	if profile.RequiredSkills == nil {
		profile.RequiredSkills = []string{}
	}
	if profile.PreferredSkills == nil {
		profile.PreferredSkills = []string{}
	}
	if profile.PersonalityTraits == nil {
		profile.PersonalityTraits = []string{}
	}
	return profile
}

// formatQuestionList renders questions for prompt interpolation
func formatQuestionList(questions []types.ClarifyingQuestion) string {
	if len(questions) == 0 {
		return "none"
	}
	var sb strings.Builder
	for i, q := range questions {
		fmt.Fprintf(&sb, "%d. [%s] %s (%s)", i+1, q.Priority, q.Question, q.Category)
		if q.Answer != "" {
			fmt.Fprintf(&sb, " -> %s", q.Answer)
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// formatMustHaveDetailed renders the capability matrix must-haves with their
// specifics, rationale, and verification method
func formatMustHaveDetailed(capabilities []types.MustHaveCapability) string {
	if len(capabilities) == 0 {
		return "none"
	}
	var sb strings.Builder
	for i, cap := range capabilities {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, cap.Capability)
		fmt.Fprintf(&sb, "     - Specifics: %s\n", cap.Specifics)
		fmt.Fprintf(&sb, "     - Reason: %s\n", cap.Reason)
		if cap.VerificationMethod != "" {
			fmt.Fprintf(&sb, "     - Verification: %s\n", cap.VerificationMethod)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}
