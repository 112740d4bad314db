package types

import (
	"time"

	"github.com/google/uuid"
)

// AnalysisStatus represents the terminal and in-flight states of a run
type AnalysisStatus string

// Analysis status values
const (
	AnalysisProcessing AnalysisStatus = "processing"
	AnalysisCompleted  AnalysisStatus = "completed"
	AnalysisFailed     AnalysisStatus = "failed"
)

// Iteration is one full pass through all agent roles. Records are appended
// in order and never removed or mutated after append.
type Iteration struct {
	Iteration        int              `json:"iteration"`
	AnalyzerOutput   *AnalyzerOutput  `json:"analyzer_output"`
	ResearcherOutput *ResearcherOutput `json:"researcher_output"`
	RecruiterOutput  *RecruiterOutput `json:"recruiter_output"`
	StrategyOutput   *StrategyOutput  `json:"strategy_output,omitempty"`
	Timestamp        time.Time        `json:"timestamp"`
}

// FinalOutput is the projection of the last iteration that callers consume
type FinalOutput struct {
	CandidateProfile    CandidateProfile     `json:"candidate_profile"`
	SearchKeywords      []string             `json:"search_keywords"`
	DifficultyLevel     DifficultyLevel      `json:"difficulty_level"`
	DifficultyReasoning string               `json:"difficulty_reasoning"`
	ClarifyingQuestions []ClarifyingQuestion `json:"clarifying_questions"`
	FitAssessment       *FitAssessment       `json:"fit_assessment,omitempty"`
	RecruitingStrategy  *RecruitingStrategy  `json:"recruiting_strategy,omitempty"`
}

// AnalysisResult is the record of one analysis run. It is mutated in place
// (status transitions, iteration appends) until a terminal state is reached.
type AnalysisResult struct {
	ID            uuid.UUID      `json:"id"`
	RequisitionID uuid.UUID      `json:"requisition_id"`
	Iterations    []Iteration    `json:"iterations"`
	FinalOutput   *FinalOutput   `json:"final_output,omitempty"`
	Status        AnalysisStatus `json:"status"`
	CreatedAt     time.Time      `json:"created_at"`
	CompletedAt   *time.Time     `json:"completed_at,omitempty"`
}

// LastIteration returns the most recently appended iteration, or nil if none
func (r *AnalysisResult) LastIteration() *Iteration {
	if len(r.Iterations) == 0 {
		return nil
	}
	return &r.Iterations[len(r.Iterations)-1]
}
