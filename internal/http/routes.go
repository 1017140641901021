package httpx

import (
	"log/slog"
	"net/http"
	"time"

	domainauth "github.com/ujwal209/prashne-ui-api/internal/domain/auth"
	"github.com/ujwal209/prashne-ui-api/internal/service"
)

// Sign-in attempts allowed per client IP inside signInRateWindow.
const (
	signInRateLimit  = 10
	signInRateWindow = time.Minute
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth       *service.AuthService
	Jobs       *service.JobService
	Resumes    *service.ResumeService
	Interviews *service.InterviewService
	Admin      *service.AdminService
	Dashboard  *service.DashboardService

	Sessions     SessionResolver
	CookieDomain string
	IsDev        bool
	Logger       *slog.Logger
}

// NewRouter creates and configures the gateway's HTTP router.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	authHandlers := NewAuthHandlers(services.Auth, services.CookieDomain, logger)
	registerAuthRoutes(mux, authHandlers)

	hr := RequireRole(domainauth.RoleHRUser)
	admin := RequireRole(domainauth.RoleSuperAdmin)

	registerJobRoutes(mux, &JobHandlers{Svc: services.Jobs}, hr)
	registerResumeRoutes(mux, &ResumeHandlers{Svc: services.Resumes}, hr)
	registerInterviewRoutes(mux, &InterviewHandlers{Svc: services.Interviews})
	registerAdminRoutes(mux, &AdminHandlers{Svc: services.Admin, Auth: services.Auth}, admin)
	registerDashboardRoutes(mux, &DashboardHandlers{Svc: services.Dashboard}, hr)

	// Outer chain: every request gets browser detection, a resolved session
	// snapshot, security headers, logging, and panic recovery.
	handler := SessionContext(services.Sessions, logger)(mux)
	handler = BrowserDetection()(handler)
	handler = SecureHeaders(services.IsDev)(handler)
	handler = Logging(logger)(handler)
	handler = Recover(logger)(handler)
	return handler
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	limit := SignInRateLimit(signInRateLimit, signInRateWindow)
	mux.Handle("POST /auth/login", limit(http.HandlerFunc(h.SignIn)))
	mux.Handle("GET /auth/sso/login", http.HandlerFunc(h.BeginSSO))
	mux.Handle("GET /auth/callback", limit(http.HandlerFunc(h.Callback)))
	mux.Handle("POST /auth/logout", http.HandlerFunc(h.SignOut))
	mux.Handle("GET /api/session", http.HandlerFunc(h.Status))
}

func registerJobRoutes(mux *http.ServeMux, h *JobHandlers, guard func(http.Handler) http.Handler) {
	mux.Handle("GET /api/jobs", guard(http.HandlerFunc(h.List)))
	mux.Handle("POST /api/jobs", guard(http.HandlerFunc(h.Create)))
	mux.Handle("PUT /api/jobs/{id}", guard(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE /api/jobs/{id}", guard(http.HandlerFunc(h.Delete)))
	mux.Handle("POST /api/jobs/generate", guard(http.HandlerFunc(h.Generate)))
	mux.Handle("POST /api/jobs/match", guard(http.HandlerFunc(h.Match)))
	mux.Handle("GET /api/jobs/matches", guard(http.HandlerFunc(h.MatchHistory)))
}

func registerResumeRoutes(mux *http.ServeMux, h *ResumeHandlers, guard func(http.Handler) http.Handler) {
	mux.Handle("GET /api/resumes", guard(http.HandlerFunc(h.List)))
	mux.Handle("GET /api/resumes/stats", guard(http.HandlerFunc(h.Stats)))
	mux.Handle("POST /api/resumes/upload", guard(http.HandlerFunc(h.Upload)))
	mux.Handle("DELETE /api/resumes/{id}", guard(http.HandlerFunc(h.Delete)))
}

func registerInterviewRoutes(mux *http.ServeMux, h *InterviewHandlers) {
	// Candidates join their own interviews, so these routes require only a
	// live session; the core API scopes the listing to the caller.
	auth := RequireAuthenticated()
	mux.Handle("GET /api/interviews", auth(http.HandlerFunc(h.List)))
	mux.Handle("POST /api/interviews", RequireRole(domainauth.RoleHRUser)(http.HandlerFunc(h.Schedule)))
	mux.Handle("GET /api/interviews/{id}/token", auth(http.HandlerFunc(h.RoomToken)))
}

func registerAdminRoutes(mux *http.ServeMux, h *AdminHandlers, guard func(http.Handler) http.Handler) {
	mux.Handle("GET /api/admin/companies", guard(http.HandlerFunc(h.Companies)))
	mux.Handle("POST /api/admin/companies", guard(http.HandlerFunc(h.CreateCompany)))
	mux.Handle("GET /api/admin/users", guard(http.HandlerFunc(h.Users)))
	mux.Handle("POST /api/admin/users", guard(http.HandlerFunc(h.CreateUser)))
	mux.Handle("GET /api/admin/stats", guard(http.HandlerFunc(h.Stats)))
	mux.Handle("GET /api/admin/sign-ins", guard(http.HandlerFunc(h.SignInEvents)))
}

func registerDashboardRoutes(mux *http.ServeMux, h *DashboardHandlers, guard func(http.Handler) http.Handler) {
	mux.Handle("GET /api/dashboard/stats", guard(http.HandlerFunc(h.Stats)))
	mux.Handle("GET /api/dashboard/activities", guard(http.HandlerFunc(h.Activities)))
	mux.Handle("GET /api/dashboard/overview", guard(http.HandlerFunc(h.Overview)))
	mux.Handle("GET /api/analytics/leaderboard", guard(http.HandlerFunc(h.Leaderboard)))
}
