package httpx

import (
	"net/http"

	"github.com/ujwal209/prashne-ui-api/internal/service"
)

// DashboardHandlers provides HTTP handlers for the recruiter dashboard.
type DashboardHandlers struct {
	Svc *service.DashboardService
}

// Stats handles GET /api/dashboard/stats.
func (h *DashboardHandlers) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Svc.Stats(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, stats)
}

// Activities handles GET /api/dashboard/activities?limit=N.
func (h *DashboardHandlers) Activities(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 10)
	activities, err := h.Svc.Activities(r.Context(), limit)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, activities)
}

// Overview handles GET /api/dashboard/overview?limit=N. It returns the
// stats, activity feed, and leaderboard in one response.
func (h *DashboardHandlers) Overview(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 10)
	overview, err := h.Svc.Overview(r.Context(), limit)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, overview)
}

// Leaderboard handles GET /api/analytics/leaderboard.
func (h *DashboardHandlers) Leaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Svc.Leaderboard(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, entries)
}
