package httpx

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ujwal209/prashne-ui-api/internal/service"
)

// maxUploadBytes caps a resume upload batch.
const maxUploadBytes = 64 << 20 // 64 MiB

// ResumeHandlers provides HTTP handlers for the resume surface.
type ResumeHandlers struct {
	Svc *service.ResumeService
}

// List handles GET /api/resumes.
func (h *ResumeHandlers) List(w http.ResponseWriter, r *http.Request) {
	resumes, err := h.Svc.List(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, resumes)
}

// Stats handles GET /api/resumes/stats.
func (h *ResumeHandlers) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Svc.Stats(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, stats)
}

// Upload handles POST /api/resumes/upload. The multipart body streams
// through to the core API untouched; parsing happens there.
func (h *ResumeHandlers) Upload(w http.ResponseWriter, r *http.Request) {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_content_type",
			Err:     errors.New("multipart/form-data is required"),
		})
		return
	}

	body := http.MaxBytesReader(w, r.Body, maxUploadBytes)
	receipt, err := h.Svc.Upload(r.Context(), body, contentType)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, receipt)
}

// Delete handles DELETE /api/resumes/{id}.
func (h *ResumeHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		WriteAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
