package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/req-consultant/internal/types"
)

// SaveAnalysis persists a full analysis record, including its iteration
// history and usage accounting, as JSONB. Upserts so a run updated from
// processing to a terminal state overwrites its earlier snapshot.
func (db *DB) SaveAnalysis(ctx context.Context, result *types.AnalysisResult, usage types.AnalysisUsage) error {
	iterationsJSON, err := json.Marshal(result.Iterations)
	if err != nil {
		return fmt.Errorf("failed to marshal iterations: %w", err)
	}

	var finalJSON []byte
	if result.FinalOutput != nil {
		finalJSON, err = json.Marshal(result.FinalOutput)
		if err != nil {
			return fmt.Errorf("failed to marshal final output: %w", err)
		}
	}

	usageJSON, err := json.Marshal(usage)
	if err != nil {
		return fmt.Errorf("failed to marshal usage: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO analyses (id, requisition_id, iterations, final_output, usage, status, created_at, completed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO UPDATE SET
		     iterations = $3,
		     final_output = $4,
		     usage = $5,
		     status = $6,
		     completed_at = $8`,
		result.ID, result.RequisitionID, iterationsJSON, finalJSON, usageJSON,
		result.Status, result.CreatedAt, result.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}
	return nil
}

// GetAnalysis retrieves one analysis run by ID. Returns nil when not found.
func (db *DB) GetAnalysis(ctx context.Context, id uuid.UUID) (*types.AnalysisResult, *types.AnalysisUsage, error) {
	var result types.AnalysisResult
	var usage types.AnalysisUsage
	var iterationsJSON, finalJSON, usageJSON []byte

	err := db.pool.QueryRow(ctx,
		`SELECT id, requisition_id, iterations, final_output, usage, status, created_at, completed_at
		 FROM analyses WHERE id = $1`,
		id,
	).Scan(&result.ID, &result.RequisitionID, &iterationsJSON, &finalJSON,
		&usageJSON, &result.Status, &result.CreatedAt, &result.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("failed to get analysis: %w", err)
	}

	if err := json.Unmarshal(iterationsJSON, &result.Iterations); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal iterations: %w", err)
	}
	if finalJSON != nil {
		result.FinalOutput = &types.FinalOutput{}
		if err := json.Unmarshal(finalJSON, result.FinalOutput); err != nil {
			return nil, nil, fmt.Errorf("failed to unmarshal final output: %w", err)
		}
	}
	if usageJSON != nil {
		if err := json.Unmarshal(usageJSON, &usage); err != nil {
			return nil, nil, fmt.Errorf("failed to unmarshal usage: %w", err)
		}
	}
	return &result, &usage, nil
}

// GetLatestAnalysisForRequisition returns the most recent run for a
// requisition, or nil when none exists.
func (db *DB) GetLatestAnalysisForRequisition(ctx context.Context, requisitionID uuid.UUID) (*types.AnalysisResult, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`SELECT id FROM analyses WHERE requisition_id = $1 ORDER BY created_at DESC LIMIT 1`,
		requisitionID,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find analysis: %w", err)
	}

	result, _, err := db.GetAnalysis(ctx, id)
	return result, err
}

// AnalysisSummary is a listing row without the full iteration payload
type AnalysisSummary struct {
	ID            uuid.UUID            `json:"id"`
	RequisitionID uuid.UUID            `json:"requisition_id"`
	Status        types.AnalysisStatus `json:"status"`
	Iterations    int                  `json:"iterations"`
	TotalTokens   int                  `json:"total_tokens"`
	TotalCost     float64              `json:"total_cost"`
}

// ListAnalyses returns recent analysis runs, newest first
func (db *DB) ListAnalyses(ctx context.Context, limit int) ([]AnalysisSummary, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, requisition_id, status,
		        jsonb_array_length(iterations),
		        COALESCE((usage->'total_usage'->>'total_tokens')::int, 0),
		        COALESCE((usage->>'total_cost')::float8, 0)
		 FROM analyses ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	var summaries []AnalysisSummary
	for rows.Next() {
		var s AnalysisSummary
		if err := rows.Scan(&s.ID, &s.RequisitionID, &s.Status, &s.Iterations,
			&s.TotalTokens, &s.TotalCost); err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
