package server

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/jonathan/req-consultant/internal/orchestrator"
	"github.com/jonathan/req-consultant/internal/schemas"
	"github.com/jonathan/req-consultant/internal/types"
)

// AnalyzeResponse is returned when a background analysis is started
type AnalyzeResponse struct {
	RequisitionID string `json:"requisition_id"`
	Status        string `json:"status"`
}

// AnalysisDetail bundles a run with its usage accounting
type AnalysisDetail struct {
	Analysis *types.AnalysisResult `json:"analysis"`
	Usage    *types.AnalysisUsage  `json:"usage,omitempty"`
}

// handleCreateRequisition validates and stores a new requisition
func (s *Server) handleCreateRequisition(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	if err := schemas.ValidateRequisition(body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req types.Requisition
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validator.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	created, err := s.db.CreateRequisition(r.Context(), &req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// handleListRequisitions lists recent requisitions
func (s *Server) handleListRequisitions(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	reqs, err := s.db.ListRequisitions(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"requisitions": reqs})
}

// handleGetRequisition returns one requisition by ID
func (s *Server) handleGetRequisition(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	req, err := s.db.GetRequisition(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if req == nil {
		notFound := &ErrRequisitionNotFound{RequisitionID: id}
		writeError(w, HTTPStatus(notFound), notFound.Error())
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// handleAnalyze starts a background analysis run for a requisition
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	req, err := s.db.GetRequisition(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if req == nil {
		notFound := &ErrRequisitionNotFound{RequisitionID: id}
		writeError(w, HTTPStatus(notFound), notFound.Error())
		return
	}

	log.Printf("Starting analysis for requisition %s", id)

	go func() {
		ctx := context.Background()
		s.runAnalysis(ctx, req, nil)
	}()

	writeJSON(w, http.StatusAccepted, AnalyzeResponse{
		RequisitionID: id.String(),
		Status:        "started",
	})
}

// handleAnalyzeStream runs an analysis synchronously, streaming progress
// over SSE. The connection stays open until the run reaches a terminal
// state.
func (s *Server) handleAnalyzeStream(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	req, err := s.db.GetRequisition(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if req == nil {
		notFound := &ErrRequisitionNotFound{RequisitionID: id}
		writeError(w, HTTPStatus(notFound), notFound.Error())
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	log.Printf("Starting streaming analysis for requisition %s", id)

	result, runErr := s.runAnalysis(r.Context(), req, sse)
	if runErr != nil {
		sse.WriteError(runErr.Error())
	}
	if result != nil {
		sse.WriteComplete(result.ID.String(), string(result.Status))
	}
}

// runAnalysis executes one full analysis run and persists the outcome.
// The failed state is saved too: partial iteration history and cost stay
// queryable.
func (s *Server) runAnalysis(ctx context.Context, req *types.Requisition, sink orchestrator.Sink) (*types.AnalysisResult, error) {
	o, client, err := s.newOrchestrator(ctx, sink)
	if err != nil {
		return nil, err
	}
	defer func() { _ = client.Close() }()

	if err := s.db.UpdateRequisitionStatus(ctx, req.ID, types.RequisitionProcessing); err != nil {
		log.Printf("Failed to mark requisition %s as processing: %v", req.ID, err)
	}

	result, runErr := o.Analyze(ctx, req)

	if err := s.db.SaveAnalysis(ctx, result, o.Usage()); err != nil {
		log.Printf("Failed to save analysis %s: %v", result.ID, err)
	}

	finalStatus := requisitionStatusFor(result)
	if runErr != nil {
		finalStatus = types.RequisitionNeedsClarification
		log.Printf("Analysis for requisition %s failed: %v", req.ID, runErr)
	}
	if err := s.db.UpdateRequisitionStatus(ctx, req.ID, finalStatus); err != nil {
		log.Printf("Failed to update requisition %s status: %v", req.ID, err)
	}

	return result, runErr
}

// requisitionStatusFor maps a finished analysis onto the requisition
// lifecycle. A run that ended without validator approval leaves the
// requisition waiting on answers to its open questions.
func requisitionStatusFor(result *types.AnalysisResult) types.RequisitionStatus {
	if result.FinalOutput != nil &&
		result.FinalOutput.FitAssessment != nil &&
		result.FinalOutput.FitAssessment.FinalVerdict == types.VerdictApproved {
		return types.RequisitionCompleted
	}
	return types.RequisitionNeedsClarification
}

// handleGetAnalysis returns one analysis run with its usage accounting
func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	result, usage, err := s.db.GetAnalysis(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if result == nil {
		notFound := &ErrAnalysisNotFound{AnalysisID: id}
		writeError(w, HTTPStatus(notFound), notFound.Error())
		return
	}
	writeJSON(w, http.StatusOK, AnalysisDetail{Analysis: result, Usage: usage})
}

// handleGetLatestAnalysis returns the most recent run for a requisition
func (s *Server) handleGetLatestAnalysis(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	result, err := s.db.GetLatestAnalysisForRequisition(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if result == nil {
		writeError(w, http.StatusNotFound, "no analysis found for requisition "+id.String())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleListAnalyses lists recent analysis runs
func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	summaries, err := s.db.ListAnalyses(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"analyses": summaries})
}

// pathUUID parses a UUID path parameter, writing a 400 on failure
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid "+name+": must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

// queryInt parses an integer query parameter with a default
func queryInt(r *http.Request, name string, defaultValue int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}
