package types

// CandidateProfile describes the ideal candidate for a requisition
type CandidateProfile struct {
	Summary           string   `json:"summary"`
	IdealBackground   string   `json:"ideal_background"`
	RequiredSkills    []string `json:"required_skills"`
	PreferredSkills   []string `json:"preferred_skills"`
	ExperienceLevel   string   `json:"experience_level"`
	EducationLevel    string   `json:"education_level"`
	PersonalityTraits []string `json:"personality_traits"`
}

// QuestionPriority ranks how much a clarifying question matters for hiring success
type QuestionPriority string

// Question priority values
const (
	PriorityHigh   QuestionPriority = "high"
	PriorityMedium QuestionPriority = "medium"
	PriorityLow    QuestionPriority = "low"
)

// ClarifyingQuestion is a question the agents raise about an under-specified
// requisition. The ID is stable across rounds once assigned; questions
// answered in round K are carried as answered context into round K+1.
type ClarifyingQuestion struct {
	ID         string           `json:"id"`
	Question   string           `json:"question"`
	Category   string           `json:"category"`
	Priority   QuestionPriority `json:"priority"`
	Answer     string           `json:"answer,omitempty"`
	IsAnswered bool             `json:"is_answered"`
}
