// Package handlers exposes the records API over HTTP.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/openpharm/medscheck-forms/internal/extraction"
	"github.com/openpharm/medscheck-forms/internal/forms"
	"github.com/openpharm/medscheck-forms/internal/store"
	"github.com/openpharm/medscheck-forms/pkg/logging"
)

// RecordsHandler handles CRUD and notes-extraction requests for MedsCheck
// records.
type RecordsHandler struct {
	repo           store.RecordRepository
	pipeline       *extraction.Pipeline
	extractTimeout time.Duration
	logger         *logging.Logger
	now            func() time.Time
	newID          func() string
}

// NewRecordsHandler creates a records handler. extractTimeout bounds a
// single extraction call end to end.
func NewRecordsHandler(repo store.RecordRepository, pipeline *extraction.Pipeline, extractTimeout time.Duration, logger *logging.Logger) *RecordsHandler {
	if extractTimeout <= 0 {
		extractTimeout = 30 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &RecordsHandler{
		repo:           repo,
		pipeline:       pipeline,
		extractTimeout: extractTimeout,
		logger:         logger,
		now:            time.Now,
		newID:          uuid.NewString,
	}
}

// Create handles POST /records: a new fully-populated empty record.
func (h *RecordsHandler) Create(w http.ResponseWriter, r *http.Request) {
	record := forms.NewRecord(h.newID(), h.now().UTC())
	if err := h.repo.Create(r.Context(), record); err != nil {
		h.logger.Error("failed to create record", "error", err)
		http.Error(w, "failed to create record", http.StatusInternalServerError)
		return
	}

	h.logger.Info("record created", "record_id", record.ID)
	writeJSON(w, http.StatusCreated, record)
}

// Get handles GET /records/{recordID}.
func (h *RecordsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "recordID")
	record, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			http.Error(w, "record not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to load record", "error", err, "record_id", id)
		http.Error(w, "failed to load record", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// Update handles PUT /records/{recordID}: a full-document replacement from
// a user edit. The path id wins over any id in the body.
func (h *RecordsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "recordID")

	var record forms.Record
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	record.ID = id
	record.UpdatedAt = h.now().UTC()

	if err := h.repo.Update(r.Context(), record); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			http.Error(w, "record not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to update record", "error", err, "record_id", id)
		http.Error(w, "failed to update record", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// Delete handles DELETE /records/{recordID}.
func (h *RecordsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "recordID")
	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			http.Error(w, "record not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to delete record", "error", err, "record_id", id)
		http.Error(w, "failed to delete record", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListRecordsResponse is the response for listing records.
type ListRecordsResponse struct {
	Records []forms.Record `json:"records"`
	Count   int            `json:"count"`
	Offset  int            `json:"offset"`
	Limit   int            `json:"limit"`
}

// List handles GET /records.
func (h *RecordsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := 50, 0
	if s := r.URL.Query().Get("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}
	if s := r.URL.Query().Get("offset"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			offset = v
		}
	}

	records, err := h.repo.List(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error("failed to list records", "error", err)
		http.Error(w, "failed to list records", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, ListRecordsResponse{
		Records: records,
		Count:   len(records),
		Offset:  offset,
		Limit:   limit,
	})
}

// ExtractRequest carries the pharmacist's free-text notes.
type ExtractRequest struct {
	Text string `json:"text"`
}

// Extract handles POST /records/{recordID}/extract: run the notes through
// the extraction pipeline and merge the result into the stored record.
func (h *RecordsHandler) Extract(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "recordID")

	var req ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Text == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}

	current, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			http.Error(w, "record not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to load record", "error", err, "record_id", id)
		http.Error(w, "failed to load record", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.extractTimeout)
	defer cancel()

	updated := h.pipeline.Process(ctx, req.Text, current)
	if err := h.repo.Update(r.Context(), updated); err != nil {
		h.logger.Error("failed to save extracted record", "error", err, "record_id", id)
		http.Error(w, "failed to save record", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// HealthCheck handles GET /health.
func (h *RecordsHandler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
