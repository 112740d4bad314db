// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/req-consultant/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintRequisition outputs a human-readable summary of the submitted requisition.
func (p *Printer) PrintRequisition(req *types.Requisition) {
	if req == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Title:      %s\n", req.BasicInfo.Title))
	if req.BasicInfo.Department != "" {
		sb.WriteString(fmt.Sprintf("Department: %s\n", req.BasicInfo.Department))
	}
	if req.BasicInfo.Location != "" {
		sb.WriteString(fmt.Sprintf("Location:   %s\n", req.BasicInfo.Location))
	}
	if req.AdditionalContext.Salary != "" {
		sb.WriteString(fmt.Sprintf("Salary:     %s\n", req.AdditionalContext.Salary))
	}
	if req.AdditionalContext.Urgency != "" {
		sb.WriteString(fmt.Sprintf("Urgency:    %s\n", req.AdditionalContext.Urgency))
	}

	p.printBox("REQUISITION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintIteration outputs a per-round summary after each iteration completes.
func (p *Printer) PrintIteration(record *types.Iteration) {
	if record == nil {
		return
	}

	var sb strings.Builder
	if record.AnalyzerOutput != nil {
		sb.WriteString(fmt.Sprintf("Standardized title: %s\n", record.AnalyzerOutput.StandardizedTitle))
		sb.WriteString(fmt.Sprintf("Ambiguities found:  %d\n", len(record.AnalyzerOutput.Ambiguities)))
	}
	if record.RecruiterOutput != nil {
		sb.WriteString(fmt.Sprintf("Satisfaction:       %.1f/10\n", record.RecruiterOutput.SatisfactionScore))
		sb.WriteString(fmt.Sprintf("Open questions:     %d\n", len(record.RecruiterOutput.OpenQuestions)))
		sb.WriteString(fmt.Sprintf("Answered:           %d\n", len(record.RecruiterOutput.AnsweredQuestions)))
	}
	if record.StrategyOutput != nil {
		fit := record.StrategyOutput.FitAssessment
		sb.WriteString(fmt.Sprintf("Overall fit:        %.1f/10 (%s)\n", fit.OverallFitScore, fit.FinalVerdict))
	}

	p.printBox(fmt.Sprintf("ITERATION %d", record.Iteration), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintFinalOutput outputs the converged recommendation.
func (p *Printer) PrintFinalOutput(final *types.FinalOutput) {
	if final == nil {
		return
	}

	var sb strings.Builder
	if final.CandidateProfile.Summary != "" {
		sb.WriteString(fmt.Sprintf("Profile: %s\n", final.CandidateProfile.Summary))
	}
	sb.WriteString(fmt.Sprintf("Difficulty: %s\n", final.DifficultyLevel))

	if len(final.SearchKeywords) > 0 {
		sb.WriteString("\nSearch keywords:\n")
		for _, kw := range final.SearchKeywords {
			sb.WriteString(fmt.Sprintf("  • %s\n", kw))
		}
	}

	if len(final.ClarifyingQuestions) > 0 {
		sb.WriteString("\nOpen questions for the hiring manager:\n")
		count := min(len(final.ClarifyingQuestions), maxItemsToShow)
		for i := 0; i < count; i++ {
			q := final.ClarifyingQuestions[i]
			sb.WriteString(fmt.Sprintf("  • [%s] %s\n", q.Priority, q.Question))
		}
		if len(final.ClarifyingQuestions) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(final.ClarifyingQuestions)-maxItemsToShow))
		}
	}

	if final.FitAssessment != nil {
		sb.WriteString(fmt.Sprintf("\nFinal verdict: %s (fit %.1f/10)\n",
			final.FitAssessment.FinalVerdict, final.FitAssessment.OverallFitScore))
	}

	p.printBox("RECOMMENDATION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintUsage outputs the token and cost accounting for a run.
func (p *Printer) PrintUsage(usage types.AnalysisUsage) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Iterations:   %d\n", usage.Iterations))
	sb.WriteString(fmt.Sprintf("Total tokens: %d (%d prompt, %d completion)\n",
		usage.TotalUsage.TotalTokens, usage.TotalUsage.PromptTokens, usage.TotalUsage.CompletionTokens))
	sb.WriteString(fmt.Sprintf("Total cost:   $%.6f\n", usage.TotalCost))
	sb.WriteString(fmt.Sprintf("Latency:      %.2fs\n", float64(usage.TotalLatencyMs)/1000))

	if len(usage.Breakdown) > 0 {
		sb.WriteString("\nPer agent:\n")
		for _, role := range []types.AgentRole{types.RoleAnalyzer, types.RoleResearcher, types.RoleRecruiter, types.RoleStrategy} {
			u, ok := usage.Breakdown[role]
			if !ok {
				continue
			}
			sb.WriteString(fmt.Sprintf("  %-10s %6d tokens  $%.6f\n", role, u.TotalTokens, u.Cost))
		}
	}

	p.printBox("TOKEN USAGE", strings.TrimSuffix(sb.String(), "\n"))
}
