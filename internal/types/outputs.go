package types

// AgentRole identifies one structured-output LLM invocation role in the pipeline
type AgentRole string

// Agent roles, in pipeline order
const (
	RoleAnalyzer   AgentRole = "analyzer"
	RoleResearcher AgentRole = "researcher"
	RoleRecruiter  AgentRole = "recruiter"
	RoleStrategy   AgentRole = "strategy"
)

// DifficultyLevel grades how hard a position will be to fill
type DifficultyLevel string

// Difficulty levels
const (
	DifficultyEasy     DifficultyLevel = "easy"
	DifficultyModerate DifficultyLevel = "moderate"
	DifficultyHard     DifficultyLevel = "hard"
	DifficultyVeryHard DifficultyLevel = "very_hard"
)

// AnalyzerOutput is the requirements analyzer's structured result
type AnalyzerOutput struct {
	StandardizedTitle      string               `json:"standardized_title"`
	TechnicalSkills        []string             `json:"technical_skills"`
	SoftSkills             []string             `json:"soft_skills"`
	ExperienceRequirements []string             `json:"experience_requirements"`
	ClarifyingQuestions    []ClarifyingQuestion `json:"clarifying_questions"`
	Ambiguities            []string             `json:"ambiguities"`
}

// IndustryBenchmarks holds market reference points for a role
type IndustryBenchmarks struct {
	SalaryRange      string `json:"salary_range"`
	ExperienceLevels string `json:"experience_levels"`
	MarketDemand     string `json:"market_demand"`
}

// MustHaveCapability is a hard filtering criterion in the capability matrix.
// Each entry must be specific, verifiable, and justified.
type MustHaveCapability struct {
	Capability         string `json:"capability"`
	Specifics          string `json:"specifics"`
	Reason             string `json:"reason"`
	VerificationMethod string `json:"verification_method"`
}

// CapabilityMatrix separates hard filtering criteria from soft preferences
type CapabilityMatrix struct {
	MustHave   []MustHaveCapability `json:"must_have"`
	NiceToHave []string             `json:"nice_to_have"`
}

// ResearcherOutput is the market researcher's structured result
type ResearcherOutput struct {
	SimilarTitles         []string           `json:"similar_titles"`
	IndustryBenchmarks    IndustryBenchmarks `json:"industry_benchmarks"`
	IdealCandidateProfile CandidateProfile   `json:"ideal_candidate_profile"`
	CapabilityMatrix      CapabilityMatrix   `json:"capability_matrix"`
}

// RecruiterOutput is the professional recruiter's structured result
type RecruiterOutput struct {
	AnsweredQuestions   []ClarifyingQuestion `json:"answered_questions"`
	OpenQuestions       []ClarifyingQuestion `json:"open_questions"`
	SatisfactionScore   float64              `json:"satisfaction_score"`
	SatisfactionReason  string               `json:"satisfaction_reason"`
	CandidateProfile    CandidateProfile     `json:"candidate_profile"`
	SearchKeywords      []string             `json:"search_keywords"`
	DifficultyLevel     DifficultyLevel      `json:"difficulty_level"`
	DifficultyReasoning string               `json:"difficulty_reasoning"`
}
