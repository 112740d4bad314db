package agents

import (
	"context"

	"github.com/jonathan/req-consultant/internal/llm"
	"github.com/jonathan/req-consultant/internal/prompts"
	"github.com/jonathan/req-consultant/internal/types"
)

// Researcher studies the talent market around an analyzed requisition and
// builds the ideal candidate profile and capability matrix. It consumes
// only the analyzer output, never the round history.
type Researcher struct {
	client llm.Client
}

// NewResearcher creates a market researcher backed by the given client
func NewResearcher(client llm.Client) *Researcher {
	return &Researcher{client: client}
}

// Run researches the market for an analyzed requisition
func (r *Researcher) Run(ctx context.Context, analyzer *types.AnalyzerOutput) (*types.ResearcherOutput, *Metrics, error) {
	userPrompt := prompts.Format(prompts.MustGet(promptFile, "researcher-user"), map[string]string{
		"StandardizedTitle":      orDefault(analyzer.StandardizedTitle, "not specified"),
		"TechnicalSkills":        joinOr(analyzer.TechnicalSkills, "not specified"),
		"SoftSkills":             joinOr(analyzer.SoftSkills, "not specified"),
		"ExperienceRequirements": joinOr(analyzer.ExperienceRequirements, "not specified"),
		"Ambiguities":            joinOr(analyzer.Ambiguities, "none"),
	})

	var output types.ResearcherOutput
	metrics, err := callJSON(ctx, r.client, types.RoleResearcher,
		prompts.MustGet(promptFile, "researcher-system"), userPrompt, &output)
	if err != nil {
		return nil, nil, err
	}

	ensureResearcherOutput(&output)
	return &output, metrics, nil
}

// ensureResearcherOutput defaults missing benchmark and matrix fields
func ensureResearcherOutput(output *types.ResearcherOutput) {
	if output.SimilarTitles == nil {
		output.SimilarTitles = []string{}
	}
	output.IndustryBenchmarks.SalaryRange = orDefault(output.IndustryBenchmarks.SalaryRange, "to be assessed")
	output.IndustryBenchmarks.ExperienceLevels = orDefault(output.IndustryBenchmarks.ExperienceLevels, "to be assessed")
	output.IndustryBenchmarks.MarketDemand = orDefault(output.IndustryBenchmarks.MarketDemand, "to be assessed")
	output.IdealCandidateProfile = ensureProfile(output.IdealCandidateProfile)

	if output.CapabilityMatrix.MustHave == nil {
		output.CapabilityMatrix.MustHave = []types.MustHaveCapability{}
	}
	if output.CapabilityMatrix.NiceToHave == nil {
		output.CapabilityMatrix.NiceToHave = []string{}
	}
}
