package types

// Verdict is the strategy validator's final call on a candidate profile
type Verdict string

// Verdict values
const (
	VerdictApproved      Verdict = "approved"
	VerdictNeedsRevision Verdict = "needs_revision"
	VerdictMajorConcerns Verdict = "major_concerns"
)

// JobRequirementsFit scores how completely the profile covers the requisition
type JobRequirementsFit struct {
	Score               float64  `json:"score"`
	MatchedRequirements []string `json:"matched_requirements"`
	GapAnalysis         []string `json:"gap_analysis"`
	Recommendation      string   `json:"recommendation"`
}

// MarketRealityFit scores whether the profile is findable in the market
type MarketRealityFit struct {
	Score              float64 `json:"score"`
	Feasibility        string  `json:"feasibility"` // high, medium, low
	MarketAvailability string  `json:"market_availability"`
	TimeToFillEstimate string  `json:"time_to_fill_estimate"`
	Recommendation     string  `json:"recommendation"`
}

// ClientExpectationsFit scores alignment with the hiring manager's expectations
type ClientExpectationsFit struct {
	Score                      float64  `json:"score"`
	AlignmentWithBusinessGoals string   `json:"alignment_with_business_goals"`
	PotentialConcerns          []string `json:"potential_concerns"`
	Recommendation             string   `json:"recommendation"`
}

// FitAssessment is the three-dimension scoring that gates convergence.
// Each dimension is scored independently on [1,10]; the overall score is
// the mean of the three unless the model supplies its own.
type FitAssessment struct {
	JobRequirementsFit    JobRequirementsFit    `json:"job_requirements_fit"`
	MarketRealityFit      MarketRealityFit      `json:"market_reality_fit"`
	ClientExpectationsFit ClientExpectationsFit `json:"client_expectations_fit"`
	OverallFitScore       float64               `json:"overall_fit_score"`
	FinalVerdict          Verdict               `json:"final_verdict"`
	RevisionSuggestions   []string              `json:"revision_suggestions"`
}

// RecruitingStrategy describes how to actually execute the search
type RecruitingStrategy struct {
	PrimaryChannels   []string `json:"primary_channels"`
	SearchApproach    string   `json:"search_approach"`
	ScreeningCriteria []string `json:"screening_criteria"`
	InterviewFocus    []string `json:"interview_focus"`
}

// RiskAnalysis lists hiring risks and their mitigations
type RiskAnalysis struct {
	HiringRisks          []string `json:"hiring_risks"`
	MitigationStrategies []string `json:"mitigation_strategies"`
}

// StrategyOutput is the strategy validator's structured result
type StrategyOutput struct {
	RefinedCandidateProfile CandidateProfile   `json:"refined_candidate_profile"`
	FitAssessment           FitAssessment      `json:"fit_assessment"`
	RecruitingStrategy      RecruitingStrategy `json:"recruiting_strategy"`
	RiskAnalysis            RiskAnalysis       `json:"risk_analysis"`
}
