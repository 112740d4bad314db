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

// CreateRequisition inserts a new requisition and returns it with its
// generated ID and timestamps filled in.
func (db *DB) CreateRequisition(ctx context.Context, req *types.Requisition) (*types.Requisition, error) {
	contextJSON, err := json.Marshal(req.AdditionalContext)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal additional context: %w", err)
	}

	status := req.Status
	if status == "" {
		status = types.RequisitionPending
	}

	row := db.pool.QueryRow(ctx,
		`INSERT INTO requisitions (title, department, location, employment_type,
		                           responsibilities, qualifications, additional_context, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at`,
		req.BasicInfo.Title, req.BasicInfo.Department, req.BasicInfo.Location,
		req.BasicInfo.Type, req.Responsibilities, req.Qualifications, contextJSON, status,
	)

	created := *req
	created.Status = status
	if err := row.Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to create requisition: %w", err)
	}
	return &created, nil
}

// GetRequisition retrieves a requisition by ID. Returns nil when not found.
func (db *DB) GetRequisition(ctx context.Context, id uuid.UUID) (*types.Requisition, error) {
	var req types.Requisition
	var contextJSON []byte

	err := db.pool.QueryRow(ctx,
		`SELECT id, title, department, location, employment_type,
		        responsibilities, qualifications, additional_context, status,
		        created_at, updated_at
		 FROM requisitions WHERE id = $1`,
		id,
	).Scan(&req.ID, &req.BasicInfo.Title, &req.BasicInfo.Department,
		&req.BasicInfo.Location, &req.BasicInfo.Type, &req.Responsibilities,
		&req.Qualifications, &contextJSON, &req.Status, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get requisition: %w", err)
	}

	if contextJSON != nil {
		_ = json.Unmarshal(contextJSON, &req.AdditionalContext)
	}
	return &req, nil
}

// ListRequisitions returns the most recent requisitions, newest first
func (db *DB) ListRequisitions(ctx context.Context, limit int) ([]types.Requisition, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, title, department, location, employment_type,
		        responsibilities, qualifications, additional_context, status,
		        created_at, updated_at
		 FROM requisitions ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list requisitions: %w", err)
	}
	defer rows.Close()

	var reqs []types.Requisition
	for rows.Next() {
		var req types.Requisition
		var contextJSON []byte
		if err := rows.Scan(&req.ID, &req.BasicInfo.Title, &req.BasicInfo.Department,
			&req.BasicInfo.Location, &req.BasicInfo.Type, &req.Responsibilities,
			&req.Qualifications, &contextJSON, &req.Status, &req.CreatedAt, &req.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan requisition: %w", err)
		}
		if contextJSON != nil {
			_ = json.Unmarshal(contextJSON, &req.AdditionalContext)
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}

// UpdateRequisitionStatus moves a requisition through its lifecycle
func (db *DB) UpdateRequisitionStatus(ctx context.Context, id uuid.UUID, status types.RequisitionStatus) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE requisitions SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update requisition status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("requisition %s not found", id)
	}
	return nil
}
