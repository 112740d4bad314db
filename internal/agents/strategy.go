package agents

import (
	"context"
	"strconv"

	"github.com/jonathan/req-consultant/internal/llm"
	"github.com/jonathan/req-consultant/internal/prompts"
	"github.com/jonathan/req-consultant/internal/types"
)

// StrategyInput gathers all prior outputs for final validation
type StrategyInput struct {
	Requisition *types.Requisition
	Analyzer    *types.AnalyzerOutput
	Researcher  *types.ResearcherOutput
	Recruiter   *types.RecruiterOutput
}

// StrategyValidator performs the final three-dimension fit assessment of
// the candidate profile and derives the recruiting strategy. Its verdict
// gates loop convergence.
type StrategyValidator struct {
	client llm.Client
}

// NewStrategyValidator creates a strategy validator backed by the given client
func NewStrategyValidator(client llm.Client) *StrategyValidator {
	return &StrategyValidator{client: client}
}

// Run validates the round's recruiting assessment
func (s *StrategyValidator) Run(ctx context.Context, in StrategyInput) (*types.StrategyOutput, *Metrics, error) {
	profile := in.Recruiter.CandidateProfile

	userPrompt := prompts.Format(prompts.MustGet(promptFile, "strategy-user"), map[string]string{
		"Title":                  in.Requisition.BasicInfo.Title,
		"Department":             orDefault(in.Requisition.BasicInfo.Department, "not specified"),
		"Responsibilities":       in.Requisition.Responsibilities,
		"Qualifications":         in.Requisition.Qualifications,
		"StandardizedTitle":      in.Analyzer.StandardizedTitle,
		"TechnicalSkills":        joinOr(in.Analyzer.TechnicalSkills, "not specified"),
		"SoftSkills":             joinOr(in.Analyzer.SoftSkills, "not specified"),
		"ExperienceRequirements": joinOr(in.Analyzer.ExperienceRequirements, "not specified"),
		"SimilarTitles":          joinOr(in.Researcher.SimilarTitles, "none"),
		"MarketDemand":           in.Researcher.IndustryBenchmarks.MarketDemand,
		"SalaryRange":            in.Researcher.IndustryBenchmarks.SalaryRange,
		"MustHaveDetailed":       formatMustHaveDetailed(in.Researcher.CapabilityMatrix.MustHave),
		"CandidateSummary":       profile.Summary,
		"IdealBackground":        profile.IdealBackground,
		"RequiredSkills":         joinOr(profile.RequiredSkills, "none"),
		"PreferredSkills":        joinOr(profile.PreferredSkills, "none"),
		"ExperienceLevel":        profile.ExperienceLevel,
		"EducationLevel":         profile.EducationLevel,
		"SearchKeywords":         joinOr(in.Recruiter.SearchKeywords, "none"),
		"DifficultyLevel":        string(in.Recruiter.DifficultyLevel),
		"DifficultyReasoning":    in.Recruiter.DifficultyReasoning,
		"SatisfactionScore":      strconv.FormatFloat(in.Recruiter.SatisfactionScore, 'f', -1, 64),
		"OpenQuestions":          formatQuestionList(in.Recruiter.OpenQuestions),
	})

	var output types.StrategyOutput
	metrics, err := callJSON(ctx, s.client, types.RoleStrategy,
		prompts.MustGet(promptFile, "strategy-system"), userPrompt, &output)
	if err != nil {
		return nil, nil, err
	}

	ensureStrategyOutput(&output)
	return &output, metrics, nil
}

// ensureStrategyOutput normalizes the validation result. Dimension scores
// are clamped to [1,10]; a missing overall score becomes the mean of the
// three dimensions; the verdict is derived from the overall score when the
// model's verdict is absent or invalid.
func ensureStrategyOutput(output *types.StrategyOutput) {
	output.RefinedCandidateProfile = ensureProfile(output.RefinedCandidateProfile)

	fit := &output.FitAssessment
	fit.JobRequirementsFit.Score = clampScore(fit.JobRequirementsFit.Score)
	fit.MarketRealityFit.Score = clampScore(fit.MarketRealityFit.Score)
	fit.ClientExpectationsFit.Score = clampScore(fit.ClientExpectationsFit.Score)

	if fit.JobRequirementsFit.MatchedRequirements == nil {
		fit.JobRequirementsFit.MatchedRequirements = []string{}
	}
	if fit.JobRequirementsFit.GapAnalysis == nil {
		fit.JobRequirementsFit.GapAnalysis = []string{}
	}
	fit.MarketRealityFit.Feasibility = orDefault(fit.MarketRealityFit.Feasibility, "medium")
	if fit.ClientExpectationsFit.PotentialConcerns == nil {
		fit.ClientExpectationsFit.PotentialConcerns = []string{}
	}
	if fit.RevisionSuggestions == nil {
		fit.RevisionSuggestions = []string{}
	}

	if fit.OverallFitScore == 0 {
		fit.OverallFitScore = (fit.JobRequirementsFit.Score + fit.MarketRealityFit.Score + fit.ClientExpectationsFit.Score) / 3
	} else {
		fit.OverallFitScore = clampScore(fit.OverallFitScore)
	}
	fit.FinalVerdict = deriveVerdict(fit.OverallFitScore, fit.FinalVerdict)

	if output.RecruitingStrategy.PrimaryChannels == nil {
		output.RecruitingStrategy.PrimaryChannels = []string{}
	}
	if output.RecruitingStrategy.ScreeningCriteria == nil {
		output.RecruitingStrategy.ScreeningCriteria = []string{}
	}
	if output.RecruitingStrategy.InterviewFocus == nil {
		output.RecruitingStrategy.InterviewFocus = []string{}
	}
	if output.RiskAnalysis.HiringRisks == nil {
		output.RiskAnalysis.HiringRisks = []string{}
	}
	if output.RiskAnalysis.MitigationStrategies == nil {
		output.RiskAnalysis.MitigationStrategies = []string{}
	}
}

// deriveVerdict trusts a valid model-supplied verdict and otherwise derives
// one from the overall score: >=9 approved, >=7 needs_revision, else
// major_concerns.
func deriveVerdict(overallScore float64, provided types.Verdict) types.Verdict {
	switch provided {
	case types.VerdictApproved, types.VerdictNeedsRevision, types.VerdictMajorConcerns:
		return provided
	}
	if overallScore >= 9 {
		return types.VerdictApproved
	}
	if overallScore >= 7 {
		return types.VerdictNeedsRevision
	}
	return types.VerdictMajorConcerns
}
