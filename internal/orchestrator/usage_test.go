package orchestrator

import (
	"math"
	"testing"

	"github.com/jonathan/req-consultant/internal/types"
)

func TestUsageTracker_RecordAccumulates(t *testing.T) {
	tracker := NewUsageTracker()

	usages := []types.TokenUsage{
		{PromptTokens: 100, CompletionTokens: 50, TotalTokens: 150, Cost: 0.001},
		{PromptTokens: 200, CompletionTokens: 80, TotalTokens: 280, Cost: 0.002},
		{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15, Cost: 0.0001},
	}
	tracker.Record(types.RoleAnalyzer, usages[0], 100)
	tracker.Record(types.RoleAnalyzer, usages[1], 200)
	tracker.Record(types.RoleRecruiter, usages[2], 50)

	snapshot := tracker.Snapshot()

	if snapshot.TotalUsage.TotalTokens != 445 {
		t.Errorf("TotalTokens = %d, want 445", snapshot.TotalUsage.TotalTokens)
	}
	if snapshot.TotalUsage.PromptTokens != 310 {
		t.Errorf("PromptTokens = %d, want 310", snapshot.TotalUsage.PromptTokens)
	}
	if math.Abs(snapshot.TotalCost-0.0031) > 1e-12 {
		t.Errorf("TotalCost = %v, want 0.0031", snapshot.TotalCost)
	}
	if snapshot.TotalLatencyMs != 350 {
		t.Errorf("TotalLatencyMs = %d, want 350", snapshot.TotalLatencyMs)
	}
	if snapshot.Breakdown[types.RoleAnalyzer].TotalTokens != 430 {
		t.Errorf("analyzer breakdown = %d, want 430", snapshot.Breakdown[types.RoleAnalyzer].TotalTokens)
	}
	if snapshot.Breakdown[types.RoleRecruiter].TotalTokens != 15 {
		t.Errorf("recruiter breakdown = %d, want 15", snapshot.Breakdown[types.RoleRecruiter].TotalTokens)
	}
}

func TestUsageTracker_ResetClearsTotals(t *testing.T) {
	tracker := NewUsageTracker()
	tracker.Record(types.RoleAnalyzer, types.TokenUsage{TotalTokens: 100, Cost: 0.01}, 10)
	tracker.SetIterations(2)

	tracker.Reset()
	snapshot := tracker.Snapshot()

	if snapshot.TotalUsage.TotalTokens != 0 || snapshot.TotalCost != 0 || snapshot.TotalLatencyMs != 0 || snapshot.Iterations != 0 {
		t.Errorf("Reset() left totals behind: %+v", snapshot)
	}
	if snapshot.Breakdown[types.RoleAnalyzer].TotalTokens != 0 {
		t.Error("Reset() left role breakdown behind")
	}
}

func TestUsageTracker_SnapshotIsolation(t *testing.T) {
	tracker := NewUsageTracker()
	tracker.Record(types.RoleAnalyzer, types.TokenUsage{TotalTokens: 10}, 1)

	snapshot := tracker.Snapshot()
	snapshot.Breakdown[types.RoleAnalyzer] = types.TokenUsage{TotalTokens: 999}

	if tracker.Snapshot().Breakdown[types.RoleAnalyzer].TotalTokens != 10 {
		t.Error("mutating a snapshot must not affect the tracker")
	}
}

func TestTokenUsage_AddCommutativeAssociative(t *testing.T) {
	a := types.TokenUsage{PromptTokens: 1, CompletionTokens: 2, TotalTokens: 3, Cost: 0.5}
	b := types.TokenUsage{PromptTokens: 10, CompletionTokens: 20, TotalTokens: 30, Cost: 0.25}
	c := types.TokenUsage{PromptTokens: 100, CompletionTokens: 200, TotalTokens: 300, Cost: 0.125}

	if a.Add(b) != b.Add(a) {
		t.Error("Add is not commutative")
	}
	if a.Add(b).Add(c) != a.Add(b.Add(c)) {
		t.Error("Add is not associative")
	}
}
