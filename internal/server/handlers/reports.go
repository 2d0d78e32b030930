package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/cognicore/komentar/pkg/komentar"
	"github.com/cognicore/komentar/pkg/komentar/filter"
)

// ReportHandler handles report snapshot requests
type ReportHandler struct {
	engine *komentar.Engine
	log    logrus.FieldLogger
}

// NewReportHandler creates a new report handler
func NewReportHandler(engine *komentar.Engine, log logrus.FieldLogger) *ReportHandler {
	return &ReportHandler{
		engine: engine,
		log:    log,
	}
}

// snapshotRequest is the body of POST /reports. A missing filter means
// every record.
type snapshotRequest struct {
	Title  string       `json:"title"`
	Filter *filter.Spec `json:"filter"`
}

// ListReports returns stored snapshots, newest first
func (h *ReportHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit")
	if err != nil {
		respondWithDomainError(w, h.log, "Invalid limit", err)
		return
	}
	if limit == 0 {
		limit = 50
	}

	list, err := h.engine.Reports(r.Context(), limit)
	if err != nil {
		respondWithDomainError(w, h.log, "Failed to list reports", err)
		return
	}
	respondWithJSON(w, http.StatusOK, list)
}

// CreateReport builds and stores a snapshot
func (h *ReportHandler) CreateReport(w http.ResponseWriter, r *http.Request) {
	var req snapshotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondWithError(w, h.log, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	spec := filter.Default()
	if req.Filter != nil {
		spec = *req.Filter
	}

	rep, err := h.engine.Snapshot(r.Context(), req.Title, spec)
	if err != nil {
		respondWithDomainError(w, h.log, "Failed to create report", err)
		return
	}
	respondWithJSON(w, http.StatusCreated, rep)
}

// GetReport returns a stored snapshot by ID
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondWithError(w, h.log, http.StatusBadRequest, "Missing report ID", nil)
		return
	}

	rep, err := h.engine.Report(r.Context(), id)
	if err != nil {
		respondWithDomainError(w, h.log, "Failed to get report", err)
		return
	}
	respondWithJSON(w, http.StatusOK, rep)
}
