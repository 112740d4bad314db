package orchestrator

import "github.com/jonathan/req-consultant/internal/types"

// UsageTracker accumulates per-call token usage and cost into per-role and
// grand totals for the lifetime of one analysis run. Each orchestrator
// instance owns its own tracker, so concurrent runs never share totals.
type UsageTracker struct {
	usage types.AnalysisUsage
}

// NewUsageTracker returns a tracker with all sums at zero
func NewUsageTracker() *UsageTracker {
	t := &UsageTracker{}
	t.Reset()
	return t
}

// Reset reinitializes all sums to zero. Called at the start of each run so
// repeated runs on one orchestrator never leak totals across runs.
func (t *UsageTracker) Reset() {
	t.usage = types.AnalysisUsage{
		Breakdown: map[types.AgentRole]types.TokenUsage{
			types.RoleAnalyzer:   {},
			types.RoleResearcher: {},
			types.RoleRecruiter:  {},
			types.RoleStrategy:   {},
		},
	}
}

// Record adds one successful agent call's usage to the role breakdown and
// the grand totals. Callers must invoke it exactly once per successful
// call and never for failed calls.
func (t *UsageTracker) Record(role types.AgentRole, usage types.TokenUsage, latencyMs int64) {
	t.usage.Breakdown[role] = t.usage.Breakdown[role].Add(usage)
	t.usage.TotalUsage = t.usage.TotalUsage.Add(usage)
	t.usage.TotalCost = t.usage.TotalUsage.Cost
	t.usage.TotalLatencyMs += latencyMs
}

// SetIterations records how many rounds the run has entered
func (t *UsageTracker) SetIterations(n int) {
	t.usage.Iterations = n
}

// Snapshot returns a copy of the current totals, safe to hand to sinks and
// callers without exposing the tracker's internal map.
func (t *UsageTracker) Snapshot() types.AnalysisUsage {
	snapshot := t.usage
	snapshot.Breakdown = make(map[types.AgentRole]types.TokenUsage, len(t.usage.Breakdown))
	for role, usage := range t.usage.Breakdown {
		snapshot.Breakdown[role] = usage
	}
	return snapshot
}
