package httpx_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ujwal209/prashne-ui-api/internal/apiclient"
	"github.com/ujwal209/prashne-ui-api/internal/credstore"
	httpx "github.com/ujwal209/prashne-ui-api/internal/http"
	mockauth "github.com/ujwal209/prashne-ui-api/internal/mocks/auth"
	"github.com/ujwal209/prashne-ui-api/internal/service"
	"github.com/ujwal209/prashne-ui-api/internal/session"
)

// gateway bundles a fully wired router over in-memory stores and a fake
// core API for handler tests.
type gateway struct {
	handler  http.Handler
	manager  *session.Manager
	sessions *mockauth.MemorySessionStore
	provider *mockauth.MockIdentityProvider
}

// corePasswords accepted by the fake core API, keyed by email.
var corePasswords = map[string]string{
	"recruiter@acme.io": "hunter2hunter2",
	"staff@acme.io":     "hunter2hunter2",
	"admin@acme.io":     "hunter2hunter2",
	"root@prashne.io":   "hunter2hunter2",
	"cand@example.com":  "hunter2hunter2",
}

var coreRoles = map[string]string{
	"recruiter@acme.io": "hr_user",
	"staff@acme.io":     "hr_staff",
	"admin@acme.io":     "hr_admin",
	"root@prashne.io":   "super_admin",
	"cand@example.com":  "candidate",
}

// newFakeCoreAPI serves the slice of the core API the handler tests touch.
func newFakeCoreAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var form struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if corePasswords[form.Email] != form.Password {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"detail":"invalid credentials"}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "at-" + form.Email,
			"refresh_token": "rt-" + form.Email,
			"expires_in":    900,
			"user": map[string]any{
				"id":        "uid-" + form.Email,
				"email":     form.Email,
				"full_name": "Test User",
				"role":      coreRoles[form.Email],
			},
		})
	})

	requireBearer := func(w http.ResponseWriter, r *http.Request) bool {
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer at-") {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"detail":"not authenticated"}`)
			return false
		}
		return true
	}
	answer := func(v any) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if !requireBearer(w, r) {
				return
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(v)
		}
	}

	mux.HandleFunc("GET /jobs", answer([]map[string]any{{"id": "job-1", "title": "Backend Engineer", "status": "active"}}))
	mux.HandleFunc("GET /dashboard/stats", answer(map[string]any{"active_jobs": 4}))
	mux.HandleFunc("GET /admin/stats", answer(map[string]any{"total_companies": 2}))
	mux.HandleFunc("GET /interviews/user/list", answer(map[string]any{
		"sessions":   []map[string]any{{"id": "sess-1", "job_id": "job-1", "status": "pending"}},
		"pagination": map[string]any{"limit": 20, "offset": 0, "total": 1, "has_more": false},
	}))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// newGateway wires the full router the way bootstrap does, against the
// given core API base URL.
func newGateway(t *testing.T, coreURL string) *gateway {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	records := mockauth.NewMemoryCredentialRecords()
	idProvider := mockauth.NewMockIdentityProvider()
	creds, err := credstore.New(credstore.Options{Records: records, Provider: idProvider, Logger: logger})
	require.NoError(t, err)

	sessions := mockauth.NewMemorySessionStore()
	manager, err := session.NewManager(session.Options{Sessions: sessions, Credentials: creds, Logger: logger})
	require.NoError(t, err)
	t.Cleanup(manager.Close)
	manager.SetReady()

	api, err := apiclient.New(apiclient.Options{BaseURL: coreURL, Credentials: creds, Logger: logger})
	require.NoError(t, err)

	auth, err := service.NewAuthService(service.AuthServiceOptions{
		API:      api,
		Sessions: manager,
		Logger:   logger,
	})
	require.NoError(t, err)

	handler := httpx.NewRouter(httpx.RouterServices{
		Auth:       auth,
		Jobs:       service.NewJobService(api),
		Resumes:    service.NewResumeService(api),
		Interviews: service.NewInterviewService(api),
		Admin:      service.NewAdminService(api),
		Dashboard:  service.NewDashboardService(api),
		Sessions:   manager,
		IsDev:      true,
		Logger:     logger,
	})

	return &gateway{
		handler:  handler,
		manager:  manager,
		sessions: sessions,
		provider: idProvider,
	}
}

// signIn performs a password sign-in and returns the session cookie.
func (g *gateway) signIn(t *testing.T, email string) *http.Cookie {
	t.Helper()
	body := `{"email":"` + email + `","password":"hunter2hunter2"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	g.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == httpx.SessionCookieName {
			return cookie
		}
	}
	t.Fatal("session cookie was not set")
	return nil
}

// do runs a JSON request through the gateway with an optional session cookie.
func (g *gateway) do(method, target string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set("Accept", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	g.handler.ServeHTTP(rec, req)
	return rec
}

// fixedResolver answers every Resolve with the same snapshot.
type fixedResolver struct {
	sc  session.Context
	err error
}

func (f fixedResolver) Resolve(context.Context, string) (session.Context, error) {
	return f.sc, f.err
}
