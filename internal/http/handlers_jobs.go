package httpx

import (
	"errors"
	"net/http"

	"github.com/ujwal209/prashne-ui-api/internal/domain/model"
	"github.com/ujwal209/prashne-ui-api/internal/service"
)

// JobHandlers provides HTTP handlers for the job posting surface.
type JobHandlers struct {
	Svc *service.JobService
}

// List handles GET /api/jobs.
func (h *JobHandlers) List(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.Svc.List(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, jobs)
}

// Create handles POST /api/jobs.
func (h *JobHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var input model.JobInput
	if !DecodeJSON(w, r, &input) {
		return
	}
	job, err := h.Svc.Create(r.Context(), input)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, job)
}

// Update handles PUT /api/jobs/{id}.
func (h *JobHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var input model.JobInput
	if !DecodeJSON(w, r, &input) {
		return
	}
	job, err := h.Svc.Update(r.Context(), r.PathValue("id"), input)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, job)
}

// Delete handles DELETE /api/jobs/{id}.
func (h *JobHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		WriteAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Generate handles POST /api/jobs/generate, the AI posting generator.
func (h *JobHandlers) Generate(w http.ResponseWriter, r *http.Request) {
	var input model.GenerateJobInput
	if !DecodeJSON(w, r, &input) {
		return
	}
	draft, err := h.Svc.Generate(r.Context(), input)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, draft)
}

// Match handles POST /api/jobs/match, the AI candidate matcher.
func (h *JobHandlers) Match(w http.ResponseWriter, r *http.Request) {
	var input model.MatchInput
	if !DecodeJSON(w, r, &input) {
		return
	}
	results, err := h.Svc.Match(r.Context(), input)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, results)
}

// MatchHistory handles GET /api/jobs/matches.
func (h *JobHandlers) MatchHistory(w http.ResponseWriter, r *http.Request) {
	records, err := h.Svc.MatchHistory(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, records)
}

// requireID guards path params that must not be empty.
func requireID(w http.ResponseWriter, value, name string) bool {
	if value == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_parameter",
			Err:     errors.New(name + " is required"),
		})
		return false
	}
	return true
}
