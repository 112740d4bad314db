// Package orchestrator drives the multi-agent requisition analysis loop:
// up to MaxIterations rounds of analyzer, researcher, recruiter, and
// strategy validator, with convergence gated on the validator's fit
// assessment. It owns all run state mutation: iteration appends, usage
// accumulation, and status transitions.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/req-consultant/internal/agents"
	"github.com/jonathan/req-consultant/internal/llm"
	"github.com/jonathan/req-consultant/internal/types"
)

// Defaults for the iteration loop
const (
	// DefaultMaxIterations is the hard cap on analysis rounds
	DefaultMaxIterations = 3
	// DefaultFitThreshold is the overall fit score required to converge
	DefaultFitThreshold = 9.0
)

// Config holds the loop parameters
type Config struct {
	// MaxIterations caps the number of rounds. Zero means DefaultMaxIterations.
	MaxIterations int
	// FitThreshold is the minimum overall fit score for convergence.
	// Zero means DefaultFitThreshold.
	FitThreshold float64
	// Verbose enables step logging to stdout
	Verbose bool
}

func (c Config) maxIterations() int {
	if c.MaxIterations > 0 {
		return c.MaxIterations
	}
	return DefaultMaxIterations
}

func (c Config) fitThreshold() float64 {
	if c.FitThreshold > 0 {
		return c.FitThreshold
	}
	return DefaultFitThreshold
}

// Error wraps a failure that reached the loop boundary. The run is marked
// failed and its partial iteration history is retained for diagnostics.
type Error struct {
	Iteration int
	Cause     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("analysis failed at iteration %d: %v", e.Iteration, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Orchestrator runs one analysis at a time. Create one instance per run;
// independent runs then share no mutable state.
type Orchestrator struct {
	analyzer   *agents.Analyzer
	researcher *agents.Researcher
	recruiter  *agents.Recruiter
	validator  *agents.StrategyValidator
	usage      *UsageTracker
	sink       Sink
	config     Config
}

// New creates an orchestrator whose agents share the given client. A nil
// sink disables progress broadcasting.
func New(client llm.Client, config Config, sink Sink) *Orchestrator {
	return &Orchestrator{
		analyzer:   agents.NewAnalyzer(client),
		researcher: agents.NewResearcher(client),
		recruiter:  agents.NewRecruiter(client),
		validator:  agents.NewStrategyValidator(client),
		usage:      NewUsageTracker(),
		sink:       sink,
		config:     config,
	}
}

// Usage returns a snapshot of the accumulated token usage. Cost incurred
// is reported even when the run failed.
func (o *Orchestrator) Usage() types.AnalysisUsage {
	return o.usage.Snapshot()
}

// Analyze runs the iteration loop for one requisition. On failure the
// returned result carries the failed status and every fully completed
// iteration; nothing already appended is rolled back.
func (o *Orchestrator) Analyze(ctx context.Context, requisition *types.Requisition) (*types.AnalysisResult, error) {
	result := &types.AnalysisResult{
		ID:            uuid.New(),
		RequisitionID: requisition.ID,
		Iterations:    []types.Iteration{},
		Status:        types.AnalysisProcessing,
		CreatedAt:     time.Now().UTC(),
	}

	o.usage.Reset()
	o.logf("Starting analysis for %q (max %d iterations, fit threshold %.1f)\n",
		requisition.BasicInfo.Title, o.config.maxIterations(), o.config.fitThreshold())

	var answeredHistory []types.ClarifyingQuestion
	satisfied := false

	for iteration := 1; iteration <= o.config.maxIterations() && !satisfied; iteration++ {
		o.usage.SetIterations(iteration)
		o.logf("Iteration %d/%d\n", iteration, o.config.maxIterations())
		o.emit(requisition.ID, Event{
			Type:      EventIterationStart,
			Iteration: iteration,
			Message:   fmt.Sprintf("Starting iteration %d", iteration),
		})

		record, err := o.runRound(ctx, requisition, answeredHistory, iteration)
		if err != nil {
			return result, o.fail(requisition.ID, result, iteration, err)
		}
		result.Iterations = append(result.Iterations, *record)

		// Questions answered this round become context for the next one;
		// open questions recur via the next round's analyzer output.
		answeredHistory = append(answeredHistory, record.RecruiterOutput.AnsweredQuestions...)

		fit := record.StrategyOutput.FitAssessment
		satisfied = fit.OverallFitScore >= o.config.fitThreshold() && fit.FinalVerdict == types.VerdictApproved
		if satisfied {
			o.logf("Validator approved with fit %.1f/10, stopping\n", fit.OverallFitScore)
		} else {
			o.logf("Fit %.1f/10 (%s), continuing\n", fit.OverallFitScore, fit.FinalVerdict)
		}

		o.emit(requisition.ID, Event{
			Type:      EventIterationComplete,
			Iteration: iteration,
			Message:   fmt.Sprintf("Iteration %d complete with fit %.1f/10", iteration, fit.OverallFitScore),
			Data: map[string]any{
				"overall_fit_score": fit.OverallFitScore,
				"final_verdict":     fit.FinalVerdict,
				"satisfied":         satisfied,
			},
		})
	}

	o.finalize(result)
	o.emit(requisition.ID, Event{
		Type:      EventAnalysisComplete,
		Iteration: len(result.Iterations),
		Message:   "Analysis complete",
		Data: map[string]any{
			"result":      result,
			"token_usage": o.usage.Snapshot(),
		},
	})
	o.logUsageSummary(len(result.Iterations))

	return result, nil
}

// runRound executes the four agent steps of one round, sequentially.
// Cancellation is checked between steps; any step failure aborts the round
// with no partial iteration record.
func (o *Orchestrator) runRound(ctx context.Context, requisition *types.Requisition, answeredHistory []types.ClarifyingQuestion, iteration int) (*types.Iteration, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	o.emitAgentStart(requisition.ID, types.RoleAnalyzer, iteration, "Requirements analyzer working...")
	analyzerOutput, metrics, err := o.analyzer.Run(ctx, requisition)
	if err != nil {
		return nil, err
	}
	o.recordAgent(requisition.ID, types.RoleAnalyzer, iteration, metrics)
	o.emitAgentComplete(requisition.ID, types.RoleAnalyzer, iteration, map[string]any{
		"standardized_title": analyzerOutput.StandardizedTitle,
		"questions_count":    len(analyzerOutput.ClarifyingQuestions),
		"ambiguities_count":  len(analyzerOutput.Ambiguities),
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	o.emitAgentStart(requisition.ID, types.RoleResearcher, iteration, "Market researcher working...")
	researcherOutput, metrics, err := o.researcher.Run(ctx, analyzerOutput)
	if err != nil {
		return nil, err
	}
	o.recordAgent(requisition.ID, types.RoleResearcher, iteration, metrics)
	o.emitAgentComplete(requisition.ID, types.RoleResearcher, iteration, map[string]any{
		"similar_titles_count": len(researcherOutput.SimilarTitles),
		"market_demand":        researcherOutput.IndustryBenchmarks.MarketDemand,
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	o.emitAgentStart(requisition.ID, types.RoleRecruiter, iteration, "Professional recruiter evaluating...")
	recruiterOutput, metrics, err := o.recruiter.Run(ctx, agents.RecruiterInput{
		Requisition:     requisition,
		Analyzer:        analyzerOutput,
		Researcher:      researcherOutput,
		AnsweredHistory: answeredHistory,
		Iteration:       iteration,
		MaxIterations:   o.config.maxIterations(),
	})
	if err != nil {
		return nil, err
	}
	o.recordAgent(requisition.ID, types.RoleRecruiter, iteration, metrics)
	o.emitAgentComplete(requisition.ID, types.RoleRecruiter, iteration, map[string]any{
		"satisfaction_score":   recruiterOutput.SatisfactionScore,
		"open_questions_count": len(recruiterOutput.OpenQuestions),
		"difficulty_level":     recruiterOutput.DifficultyLevel,
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	o.emitAgentStart(requisition.ID, types.RoleStrategy, iteration, "Strategy validator reviewing...")
	strategyOutput, metrics, err := o.validator.Run(ctx, agents.StrategyInput{
		Requisition: requisition,
		Analyzer:    analyzerOutput,
		Researcher:  researcherOutput,
		Recruiter:   recruiterOutput,
	})
	if err != nil {
		return nil, err
	}
	o.recordAgent(requisition.ID, types.RoleStrategy, iteration, metrics)
	o.emitAgentComplete(requisition.ID, types.RoleStrategy, iteration, map[string]any{
		"overall_fit_score": strategyOutput.FitAssessment.OverallFitScore,
		"final_verdict":     strategyOutput.FitAssessment.FinalVerdict,
	})

	return &types.Iteration{
		Iteration:        iteration,
		AnalyzerOutput:   analyzerOutput,
		ResearcherOutput: researcherOutput,
		RecruiterOutput:  recruiterOutput,
		StrategyOutput:   strategyOutput,
		Timestamp:        time.Now().UTC(),
	}, nil
}

// finalize derives the final output from the last appended iteration and
// transitions the run to completed.
func (o *Orchestrator) finalize(result *types.AnalysisResult) {
	last := result.LastIteration()
	if last != nil {
		finalProfile := last.RecruiterOutput.CandidateProfile
		final := &types.FinalOutput{
			CandidateProfile:    finalProfile,
			SearchKeywords:      last.RecruiterOutput.SearchKeywords,
			DifficultyLevel:     last.RecruiterOutput.DifficultyLevel,
			DifficultyReasoning: last.RecruiterOutput.DifficultyReasoning,
			ClarifyingQuestions: last.RecruiterOutput.OpenQuestions,
		}
		if last.StrategyOutput != nil {
			final.CandidateProfile = last.StrategyOutput.RefinedCandidateProfile
			final.FitAssessment = &last.StrategyOutput.FitAssessment
			final.RecruitingStrategy = &last.StrategyOutput.RecruitingStrategy
		}
		result.FinalOutput = final
	}

	now := time.Now().UTC()
	result.Status = types.AnalysisCompleted
	result.CompletedAt = &now
}

// fail transitions the run to failed and returns the wrapped error. The
// error event carries the usage accumulated so far: cost incurred must
// stay visible even when the run fails.
func (o *Orchestrator) fail(requisitionID uuid.UUID, result *types.AnalysisResult, iteration int, cause error) error {
	result.Status = types.AnalysisFailed
	wrapped := &Error{Iteration: iteration, Cause: cause}

	o.emit(requisitionID, Event{
		Type:      EventError,
		Iteration: iteration,
		Message:   wrapped.Error(),
		Data: map[string]any{
			"error":       cause.Error(),
			"token_usage": o.usage.Snapshot(),
		},
	})
	return wrapped
}

func (o *Orchestrator) recordAgent(requisitionID uuid.UUID, role types.AgentRole, iteration int, metrics *agents.Metrics) {
	o.usage.Record(role, metrics.Usage, metrics.LatencyMs)
	o.emit(requisitionID, Event{
		Type:      EventTokenUsage,
		Agent:     role,
		Iteration: iteration,
		Message:   "Token usage updated",
		Data: map[string]any{
			"agent_usage":      metrics.Usage,
			"agent_latency_ms": metrics.LatencyMs,
			"total_usage":      o.usage.Snapshot(),
		},
	})
}

func (o *Orchestrator) emitAgentStart(requisitionID uuid.UUID, role types.AgentRole, iteration int, message string) {
	o.emit(requisitionID, Event{Type: EventAgentStart, Agent: role, Iteration: iteration, Message: message})
}

func (o *Orchestrator) emitAgentComplete(requisitionID uuid.UUID, role types.AgentRole, iteration int, data map[string]any) {
	o.emit(requisitionID, Event{
		Type:      EventAgentComplete,
		Agent:     role,
		Iteration: iteration,
		Message:   fmt.Sprintf("%s finished", role),
		Data:      data,
	})
}

func (o *Orchestrator) emit(requisitionID uuid.UUID, event Event) {
	if o.sink == nil {
		return
	}
	event.Timestamp = time.Now().UTC()
	o.sink.Emit(requisitionID, event)
}

func (o *Orchestrator) logf(format string, args ...any) {
	if o.config.Verbose {
		fmt.Printf(format, args...)
	}
}

func (o *Orchestrator) logUsageSummary(iterations int) {
	if !o.config.Verbose {
		return
	}
	usage := o.usage.Snapshot()
	fmt.Printf("Token usage: %d total (%d prompt, %d completion), cost $%.6f, latency %.2fs, %d iterations\n",
		usage.TotalUsage.TotalTokens,
		usage.TotalUsage.PromptTokens,
		usage.TotalUsage.CompletionTokens,
		usage.TotalCost,
		float64(usage.TotalLatencyMs)/1000,
		iterations)
}
