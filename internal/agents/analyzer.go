package agents

import (
	"context"
	"strconv"

	"github.com/jonathan/req-consultant/internal/llm"
	"github.com/jonathan/req-consultant/internal/prompts"
	"github.com/jonathan/req-consultant/internal/types"
)

// Analyzer standardizes the job title, extracts skill requirements, and
// raises clarifying questions about an under-specified requisition.
type Analyzer struct {
	client llm.Client
}

// NewAnalyzer creates a requirements analyzer backed by the given client
func NewAnalyzer(client llm.Client) *Analyzer {
	return &Analyzer{client: client}
}

// Run analyzes a requisition. It takes no history input; the analyzer sees
// only the original requisition in every round.
func (a *Analyzer) Run(ctx context.Context, requisition *types.Requisition) (*types.AnalyzerOutput, *Metrics, error) {
	userPrompt := prompts.Format(prompts.MustGet(promptFile, "analyzer-user"), map[string]string{
		"Title":               orDefault(requisition.BasicInfo.Title, "not specified"),
		"Department":          orDefault(requisition.BasicInfo.Department, "not specified"),
		"Location":            orDefault(requisition.BasicInfo.Location, "not specified"),
		"Type":                orDefault(requisition.BasicInfo.Type, "full_time"),
		"Responsibilities":    orDefault(requisition.Responsibilities, "not provided"),
		"Qualifications":      orDefault(requisition.Qualifications, "not provided"),
		"Salary":              orDefault(requisition.AdditionalContext.Salary, "negotiable"),
		"TeamSize":            teamSizeOrUnknown(requisition.AdditionalContext.TeamSize),
		"Urgency":             orDefault(requisition.AdditionalContext.Urgency, "normal"),
		"SpecialRequirements": orDefault(requisition.AdditionalContext.SpecialRequirements, "none"),
	})

	var output types.AnalyzerOutput
	metrics, err := callJSON(ctx, a.client, types.RoleAnalyzer,
		prompts.MustGet(promptFile, "analyzer-system"), userPrompt, &output)
	if err != nil {
		return nil, nil, err
	}

	ensureAnalyzerOutput(&output)
	return &output, metrics, nil
}

func teamSizeOrUnknown(size int) string {
	if size <= 0 {
		return "unknown"
	}
	return strconv.Itoa(size)
}

// ensureAnalyzerOutput defaults missing optional fields so downstream
// consumers never observe nil slices or unidentified questions
func ensureAnalyzerOutput(output *types.AnalyzerOutput) {
	if output.TechnicalSkills == nil {
		output.TechnicalSkills = []string{}
	}
	if output.SoftSkills == nil {
		output.SoftSkills = []string{}
	}
	if output.ExperienceRequirements == nil {
		output.ExperienceRequirements = []string{}
	}
	if output.Ambiguities == nil {
		output.Ambiguities = []string{}
	}
	output.ClarifyingQuestions = ensureQuestions(output.ClarifyingQuestions, false)
}
