package httpx

import (
	"net/http"

	"github.com/ujwal209/prashne-ui-api/internal/domain/model"
	"github.com/ujwal209/prashne-ui-api/internal/service"
)

// AdminHandlers provides HTTP handlers for the platform administration
// surface. Routes using these handlers are guarded for the super admin role.
type AdminHandlers struct {
	Svc  *service.AdminService
	Auth *service.AuthService
}

// Companies handles GET /api/admin/companies.
func (h *AdminHandlers) Companies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.Svc.Companies(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, companies)
}

// CreateCompany handles POST /api/admin/companies.
func (h *AdminHandlers) CreateCompany(w http.ResponseWriter, r *http.Request) {
	var input model.CompanyInput
	if !DecodeJSON(w, r, &input) {
		return
	}
	company, err := h.Svc.CreateCompany(r.Context(), input)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, company)
}

// Users handles GET /api/admin/users.
func (h *AdminHandlers) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.Svc.Users(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, users)
}

// CreateUser handles POST /api/admin/users.
func (h *AdminHandlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	var input model.UserInput
	if !DecodeJSON(w, r, &input) {
		return
	}
	user, err := h.Svc.CreateUser(r.Context(), input)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, user)
}

// Stats handles GET /api/admin/stats.
func (h *AdminHandlers) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Svc.Stats(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, stats)
}

// SignInEvents handles GET /api/admin/sign-ins, the local audit trail.
func (h *AdminHandlers) SignInEvents(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	events, err := h.Auth.RecentSignIns(r.Context(), limit)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, events)
}
