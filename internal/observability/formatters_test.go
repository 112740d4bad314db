package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jonathan/req-consultant/internal/types"
)

func TestPrintRequisition(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRequisition(&types.Requisition{
		BasicInfo: types.BasicInfo{
			Title:      "Platform Engineer",
			Department: "Infrastructure",
			Location:   "Berlin",
		},
		AdditionalContext: types.AdditionalContext{Urgency: "high"},
	})

	out := buf.String()
	for _, want := range []string{"REQUISITION", "Platform Engineer", "Infrastructure", "Berlin", "high"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintRequisition_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintRequisition(nil)
	if buf.Len() != 0 {
		t.Error("nil requisition should print nothing")
	}
}

func TestPrintIteration(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintIteration(&types.Iteration{
		Iteration:      2,
		AnalyzerOutput: &types.AnalyzerOutput{StandardizedTitle: "Data Engineer"},
		RecruiterOutput: &types.RecruiterOutput{
			SatisfactionScore: 8.5,
			OpenQuestions:     []types.ClarifyingQuestion{{Question: "Remote?"}},
		},
		StrategyOutput: &types.StrategyOutput{
			FitAssessment: types.FitAssessment{
				OverallFitScore: 8.0,
				FinalVerdict:    types.VerdictNeedsRevision,
			},
		},
	})

	out := buf.String()
	for _, want := range []string{"ITERATION 2", "Data Engineer", "8.5/10", "8.0/10", "needs_revision"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintFinalOutput_TruncatesQuestionList(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	questions := make([]types.ClarifyingQuestion, 8)
	for i := range questions {
		questions[i] = types.ClarifyingQuestion{Question: "q", Priority: types.PriorityLow}
	}
	p.PrintFinalOutput(&types.FinalOutput{
		DifficultyLevel:     types.DifficultyHard,
		SearchKeywords:      []string{"golang", "kubernetes"},
		ClarifyingQuestions: questions,
	})

	out := buf.String()
	if !strings.Contains(out, "... and 3 more") {
		t.Errorf("long question list not truncated:\n%s", out)
	}
	if !strings.Contains(out, "golang") {
		t.Errorf("keywords missing:\n%s", out)
	}
}

func TestPrintUsage(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintUsage(types.AnalysisUsage{
		TotalUsage:     types.TokenUsage{PromptTokens: 1000, CompletionTokens: 400, TotalTokens: 1400},
		TotalCost:      0.0042,
		TotalLatencyMs: 2500,
		Iterations:     2,
		Breakdown: map[types.AgentRole]types.TokenUsage{
			types.RoleAnalyzer: {TotalTokens: 350, Cost: 0.001},
			types.RoleStrategy: {TotalTokens: 350, Cost: 0.001},
		},
	})

	out := buf.String()
	for _, want := range []string{"TOKEN USAGE", "1400", "$0.004200", "2.50s", "analyzer", "strategy"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
