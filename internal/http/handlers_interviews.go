package httpx

import (
	"net/http"
	"strconv"

	"github.com/ujwal209/prashne-ui-api/internal/domain/model"
	"github.com/ujwal209/prashne-ui-api/internal/service"
)

const (
	defaultInterviewPageSize = 20
	maxInterviewPageSize     = 100
)

// InterviewHandlers provides HTTP handlers for the interview surface.
type InterviewHandlers struct {
	Svc *service.InterviewService
}

// List handles GET /api/interviews?limit=N&offset=M.
func (h *InterviewHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultInterviewPageSize)
	if limit < 1 || limit > maxInterviewPageSize {
		limit = defaultInterviewPageSize
	}
	offset := queryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	page, err := h.Svc.List(r.Context(), limit, offset)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, page)
}

// Schedule handles POST /api/interviews.
func (h *InterviewHandlers) Schedule(w http.ResponseWriter, r *http.Request) {
	var input model.ScheduleInterviewInput
	if !DecodeJSON(w, r, &input) {
		return
	}
	scheduled, err := h.Svc.Schedule(r.Context(), input)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, scheduled)
}

// RoomToken handles GET /api/interviews/{id}/token, issuing entry to the
// live interview room.
func (h *InterviewHandlers) RoomToken(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !requireID(w, id, "interview session id") {
		return
	}
	token, err := h.Svc.RoomToken(r.Context(), id)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, token)
}

// queryInt reads an integer query parameter with a fallback.
func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
