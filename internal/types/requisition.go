// Package types provides type definitions for structured data used throughout the requisition consultant system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/google/uuid"
)

// RequisitionStatus represents the lifecycle state of a requisition
type RequisitionStatus string

// Requisition status values
const (
	RequisitionPending            RequisitionStatus = "pending"
	RequisitionProcessing         RequisitionStatus = "processing"
	RequisitionCompleted          RequisitionStatus = "completed"
	RequisitionNeedsClarification RequisitionStatus = "needs_clarification"
)

// BasicInfo holds the headline fields of a job requisition
type BasicInfo struct {
	Title      string `json:"title" validate:"required"`
	Department string `json:"department,omitempty"`
	Location   string `json:"location,omitempty"`
	Type       string `json:"type,omitempty"` // employment type, e.g. full_time
}

// AdditionalContext holds optional hiring context supplied with a requisition
type AdditionalContext struct {
	Salary              string `json:"salary,omitempty"`
	TeamSize            int    `json:"team_size,omitempty"`
	Urgency             string `json:"urgency"`
	SpecialRequirements string `json:"special_requirements,omitempty"`
}

// Requisition is the immutable input record for one analysis run.
// It is created once at submission and never mutated during iteration.
type Requisition struct {
	ID                uuid.UUID         `json:"id"`
	BasicInfo         BasicInfo         `json:"basic_info" validate:"required"`
	Responsibilities  string            `json:"responsibilities" validate:"required"`
	Qualifications    string            `json:"qualifications" validate:"required"`
	AdditionalContext AdditionalContext `json:"additional_context"`
	Status            RequisitionStatus `json:"status"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}
