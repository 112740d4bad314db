package agents

import (
	"context"
	"strconv"

	"github.com/jonathan/req-consultant/internal/llm"
	"github.com/jonathan/req-consultant/internal/prompts"
	"github.com/jonathan/req-consultant/internal/types"
)

// maxSearchKeywords caps the recruiter's keyword list regardless of how
// many the model returns
const maxSearchKeywords = 5

// RecruiterInput gathers everything the recruiter synthesizes: the original
// requisition, the current round's analyzer and researcher outputs, the
// answered-question history from earlier rounds, and the round counters.
type RecruiterInput struct {
	Requisition     *types.Requisition
	Analyzer        *types.AnalyzerOutput
	Researcher      *types.ResearcherOutput
	AnsweredHistory []types.ClarifyingQuestion
	Iteration       int
	MaxIterations   int
}

// Recruiter synthesizes all prior outputs into a satisfaction-scored
// candidate profile with search keywords and a difficulty grade.
type Recruiter struct {
	client llm.Client
}

// NewRecruiter creates a professional recruiter backed by the given client
func NewRecruiter(client llm.Client) *Recruiter {
	return &Recruiter{client: client}
}

// Run produces the recruiting assessment for one round
func (r *Recruiter) Run(ctx context.Context, in RecruiterInput) (*types.RecruiterOutput, *Metrics, error) {
	userPrompt := prompts.Format(prompts.MustGet(promptFile, "recruiter-user"), map[string]string{
		"Title":                  in.Requisition.BasicInfo.Title,
		"Department":             orDefault(in.Requisition.BasicInfo.Department, "not specified"),
		"Responsibilities":       in.Requisition.Responsibilities,
		"Qualifications":         in.Requisition.Qualifications,
		"StandardizedTitle":      in.Analyzer.StandardizedTitle,
		"TechnicalSkills":        joinOr(in.Analyzer.TechnicalSkills, "not specified"),
		"SoftSkills":             joinOr(in.Analyzer.SoftSkills, "not specified"),
		"ExperienceRequirements": joinOr(in.Analyzer.ExperienceRequirements, "not specified"),
		"Ambiguities":            joinOr(in.Analyzer.Ambiguities, "none"),
		"ClarifyingQuestions":    formatQuestionList(in.Analyzer.ClarifyingQuestions),
		"AnsweredHistory":        formatQuestionList(in.AnsweredHistory),
		"SimilarTitles":          joinOr(in.Researcher.SimilarTitles, "none"),
		"SalaryRange":            in.Researcher.IndustryBenchmarks.SalaryRange,
		"ExperienceLevels":       in.Researcher.IndustryBenchmarks.ExperienceLevels,
		"MarketDemand":           in.Researcher.IndustryBenchmarks.MarketDemand,
		"MustHaveDetailed":       formatMustHaveDetailed(in.Researcher.CapabilityMatrix.MustHave),
		"NiceToHave":             joinOr(in.Researcher.CapabilityMatrix.NiceToHave, "none"),
		"Iteration":              strconv.Itoa(in.Iteration),
		"MaxIterations":          strconv.Itoa(in.MaxIterations),
	})

	var output types.RecruiterOutput
	metrics, err := callJSON(ctx, r.client, types.RoleRecruiter,
		prompts.MustGet(promptFile, "recruiter-system"), userPrompt, &output)
	if err != nil {
		return nil, nil, err
	}

	ensureRecruiterOutput(&output)
	return &output, metrics, nil
}

// ensureRecruiterOutput normalizes the parsed assessment: scores clamped to
// [1,10], keywords truncated to 5, difficulty constrained to its enum.
func ensureRecruiterOutput(output *types.RecruiterOutput) {
	output.AnsweredQuestions = ensureQuestions(output.AnsweredQuestions, true)
	output.OpenQuestions = ensureQuestions(output.OpenQuestions, false)
	output.SatisfactionScore = clampScore(output.SatisfactionScore)
	output.CandidateProfile = ensureProfile(output.CandidateProfile)

	if output.SearchKeywords == nil {
		output.SearchKeywords = []string{}
	}
	if len(output.SearchKeywords) > maxSearchKeywords {
		output.SearchKeywords = output.SearchKeywords[:maxSearchKeywords]
	}

	switch output.DifficultyLevel {
	case types.DifficultyEasy, types.DifficultyModerate, types.DifficultyHard, types.DifficultyVeryHard:
	default:
		output.DifficultyLevel = types.DifficultyModerate
	}
}
