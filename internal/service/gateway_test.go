package service_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ujwal209/prashne-ui-api/internal/apiclient"
	domainauth "github.com/ujwal209/prashne-ui-api/internal/domain/auth"
	"github.com/ujwal209/prashne-ui-api/internal/domain/model"
	apperrors "github.com/ujwal209/prashne-ui-api/internal/errors"
	"github.com/ujwal209/prashne-ui-api/internal/service"
)

// staticCreds serves the same bearer token for every request.
type staticCreds struct{ token string }

func (s staticCreds) Current(context.Context) (domainauth.Credential, bool, error) {
	if s.token == "" {
		return domainauth.Credential{}, false, nil
	}
	return domainauth.Credential{AccessToken: s.token}, true, nil
}

func newGatewayClient(t *testing.T, handler http.Handler) *apiclient.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := apiclient.New(apiclient.Options{
		BaseURL:     server.URL,
		Credentials: staticCreds{token: "gateway-token"},
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	return client
}

func respondJSON(t *testing.T, w http.ResponseWriter, body any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

func TestJobServiceCreateAndList(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /jobs", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer gateway-token", r.Header.Get("Authorization"))
		var in model.JobInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		respondJSON(t, w, model.Job{ID: "job-1", Title: in.Title, Description: in.Description, Status: model.JobStatusActive})
	})
	mux.HandleFunc("GET /jobs", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(t, w, []model.Job{{ID: "job-1", Title: "Backend Engineer"}})
	})
	svc := service.NewJobService(newGatewayClient(t, mux))
	ctx := context.Background()

	created, err := svc.Create(ctx, model.JobInput{Title: "Backend Engineer", Description: "Builds the backend."})
	require.NoError(t, err)
	assert.Equal(t, "job-1", created.ID)
	assert.Equal(t, model.JobStatusActive, created.Status)

	jobs, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "Backend Engineer", jobs[0].Title)
}

func TestJobServiceCreateValidates(t *testing.T) {
	svc := service.NewJobService(newGatewayClient(t, http.NewServeMux()))

	_, err := svc.Create(context.Background(), model.JobInput{Title: "  "})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestJobServiceGenerate(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /jobs/generate", func(w http.ResponseWriter, r *http.Request) {
		var in model.GenerateJobInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "senior golang engineer, remote", in.Prompt)
		respondJSON(t, w, model.GeneratedJob{
			Title:        "Senior Go Engineer",
			Description:  "Own the gateway services.",
			Requirements: []string{"Go", "Postgres"},
		})
	})
	svc := service.NewJobService(newGatewayClient(t, mux))

	draft, err := svc.Generate(context.Background(), model.GenerateJobInput{Prompt: "senior golang engineer, remote"})
	require.NoError(t, err)
	assert.Equal(t, "Senior Go Engineer", draft.Title)
	assert.Equal(t, []string{"Go", "Postgres"}, draft.Requirements)

	_, err = svc.Generate(context.Background(), model.GenerateJobInput{})
	assert.True(t, apperrors.IsValidation(err))
}

func TestJobServiceMatch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /jobs/match", func(w http.ResponseWriter, r *http.Request) {
		var in model.MatchInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "job-1", in.JobID)
		respondJSON(t, w, []model.MatchResult{{
			CandidateID:   "cand-1",
			CandidateName: "Ada",
			Score:         0.92,
			MissingSkills: []string{"Kubernetes"},
		}})
	})
	svc := service.NewJobService(newGatewayClient(t, mux))

	results, err := svc.Match(context.Background(), model.MatchInput{JobID: "job-1", ResumeIDs: []string{"r-1"}})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.InDelta(t, 0.92, results[0].Score, 1e-9)

	_, err = svc.Match(context.Background(), model.MatchInput{})
	assert.True(t, apperrors.IsValidation(err))
}

func TestJobServiceDeleteEscapesID(t *testing.T) {
	var gotPath string
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /jobs/{id}", func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.WriteHeader(http.StatusNoContent)
	})
	svc := service.NewJobService(newGatewayClient(t, mux))

	require.NoError(t, svc.Delete(context.Background(), "job/../1"))
	assert.Equal(t, "/jobs/job%2F..%2F1", gotPath)

	err := svc.Delete(context.Background(), "")
	assert.True(t, apperrors.IsValidation(err))
}

func TestResumeServiceUploadStreamsMultipart(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /resumes/upload", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("files")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "ada.pdf", header.Filename)
		content, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "resume bytes", string(content))
		respondJSON(t, w, model.UploadReceipt{Uploaded: 1, IDs: []string{"res-1"}})
	})
	svc := service.NewResumeService(newGatewayClient(t, mux))

	var body strings.Builder
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("files", "ada.pdf")
	require.NoError(t, err)
	_, err = io.WriteString(part, "resume bytes")
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	receipt, err := svc.Upload(context.Background(), strings.NewReader(body.String()), writer.FormDataContentType())
	require.NoError(t, err)
	assert.Equal(t, 1, receipt.Uploaded)
	assert.Equal(t, []string{"res-1"}, receipt.IDs)
}

func TestResumeServiceStats(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /resumes/stats", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(t, w, model.ResumeStats{TotalParsed: 42, TotalCandidates: 40, Pending: 2})
	})
	svc := service.NewResumeService(newGatewayClient(t, mux))

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, stats.TotalParsed)
	assert.Equal(t, 2, stats.Pending)
}

func TestInterviewServiceListPaged(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /interviews/user/list", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "20", r.URL.Query().Get("limit"))
		assert.Equal(t, "40", r.URL.Query().Get("offset"))
		respondJSON(t, w, model.InterviewPage{
			Sessions:   []model.InterviewSession{{ID: "sess-1", Status: model.InterviewStatusPending, IsCreator: true}},
			Pagination: model.Pagination{Limit: 20, Offset: 40, Total: 61, HasMore: true},
		})
	})
	svc := service.NewInterviewService(newGatewayClient(t, mux))

	page, err := svc.List(context.Background(), 20, 40)
	require.NoError(t, err)
	require.Len(t, page.Sessions, 1)
	assert.True(t, page.Sessions[0].IsCreator)
	assert.True(t, page.Pagination.HasMore)
}

func TestInterviewServiceSchedule(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /interviews", func(w http.ResponseWriter, r *http.Request) {
		var in model.ScheduleInterviewInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "job-1", in.JobID)
		assert.Equal(t, "res-1", in.ResumeID)
		respondJSON(t, w, model.ScheduledInterview{SessionID: "sess-9"})
	})
	svc := service.NewInterviewService(newGatewayClient(t, mux))

	scheduled, err := svc.Schedule(context.Background(), model.ScheduleInterviewInput{JobID: "job-1", ResumeID: "res-1"})
	require.NoError(t, err)
	assert.Equal(t, "sess-9", scheduled.SessionID)

	_, err = svc.Schedule(context.Background(), model.ScheduleInterviewInput{JobID: "job-1"})
	assert.True(t, apperrors.IsValidation(err))
}

func TestInterviewServiceRoomToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /livekit/token/{id}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "sess-9", r.PathValue("id"))
		respondJSON(t, w, model.RoomToken{Token: "jwt", RoomName: "interview-sess-9"})
	})
	svc := service.NewInterviewService(newGatewayClient(t, mux))

	token, err := svc.RoomToken(context.Background(), "sess-9")
	require.NoError(t, err)
	assert.Equal(t, "jwt", token.Token)
	assert.Equal(t, "interview-sess-9", token.RoomName)

	_, err = svc.RoomToken(context.Background(), "")
	assert.True(t, apperrors.IsValidation(err))
}

func TestAdminServiceCompanies(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /admin/companies", func(w http.ResponseWriter, r *http.Request) {
		var in model.CompanyInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		// An empty tier defaults before the payload leaves the gateway.
		assert.Equal(t, model.PlanTierFree, in.PlanTier)
		respondJSON(t, w, model.Company{ID: "co-1", Name: in.Name, PlanTier: in.PlanTier})
	})
	mux.HandleFunc("GET /admin/companies", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(t, w, []model.Company{{ID: "co-1", Name: "Acme"}})
	})
	svc := service.NewAdminService(newGatewayClient(t, mux))
	ctx := context.Background()

	created, err := svc.CreateCompany(ctx, model.CompanyInput{Name: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, model.PlanTierFree, created.PlanTier)

	companies, err := svc.Companies(ctx)
	require.NoError(t, err)
	require.Len(t, companies, 1)

	_, err = svc.CreateCompany(ctx, model.CompanyInput{PlanTier: "GOLD"})
	assert.True(t, apperrors.IsValidation(err))
}

func TestAdminServiceCreateUser(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /admin/users", func(w http.ResponseWriter, r *http.Request) {
		var in model.UserInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		respondJSON(t, w, model.User{ID: "u-1", Email: in.Email, Role: in.Role, CompanyID: in.CompanyID, Active: true})
	})
	svc := service.NewAdminService(newGatewayClient(t, mux))

	user, err := svc.CreateUser(context.Background(), model.UserInput{
		Email:     "new@acme.io",
		FullName:  "New Hire",
		CompanyID: "co-1",
		Role:      "hr_user",
		Password:  "s3cret",
	})
	require.NoError(t, err)
	assert.Equal(t, "u-1", user.ID)
	assert.True(t, user.Active)

	_, err = svc.CreateUser(context.Background(), model.UserInput{Email: "new@acme.io"})
	assert.True(t, apperrors.IsValidation(err))
}

func TestAdminServiceStats(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /admin/stats", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(t, w, model.GlobalStats{TotalCompanies: 3, TotalUsers: 17, TotalResumesParsed: 240})
	})
	svc := service.NewAdminService(newGatewayClient(t, mux))

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalCompanies)
	assert.Equal(t, 240, stats.TotalResumesParsed)
}

func TestAdminServiceForbidden(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /admin/stats", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		io.WriteString(w, `{"detail":"super admin only"}`)
	})
	svc := service.NewAdminService(newGatewayClient(t, mux))

	_, err := svc.Stats(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsForbidden(err))
	assert.Contains(t, err.Error(), "super admin only")
}

func TestDashboardService(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /dashboard/stats", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(t, w, model.DashboardStats{ActiveJobs: 4, TodayInterviews: 2})
	})
	mux.HandleFunc("GET /dashboard/activities", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		respondJSON(t, w, []model.Activity{{ID: "act-1", Type: model.ActivityUpload, Title: "3 resumes uploaded"}})
	})
	mux.HandleFunc("GET /analytics/leaderboard", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(t, w, []model.LeaderboardEntry{
			{UserID: "u-1", Name: "Ada", Count: 31, Rank: 1},
			{UserID: "u-2", Name: "Grace", Count: 28, Rank: 2},
		})
	})
	svc := service.NewDashboardService(newGatewayClient(t, mux))
	ctx := context.Background()

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.ActiveJobs)

	activities, err := svc.Activities(ctx, 5)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, model.ActivityUpload, activities[0].Type)

	board, err := svc.Leaderboard(ctx)
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, 1, board[0].Rank)

	overview, err := svc.Overview(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, 4, overview.Stats.ActiveJobs)
	require.Len(t, overview.Activities, 1)
	assert.Equal(t, "act-1", overview.Activities[0].ID)
	require.Len(t, overview.Leaderboard, 2)
	assert.Equal(t, "Ada", overview.Leaderboard[0].Name)
}

func TestDashboardServiceOverviewFailsWhole(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /dashboard/stats", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(t, w, model.DashboardStats{})
	})
	mux.HandleFunc("GET /dashboard/activities", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(t, w, []model.Activity{})
	})
	mux.HandleFunc("GET /analytics/leaderboard", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"leaderboard unavailable"}`, http.StatusBadGateway)
	})
	svc := service.NewDashboardService(newGatewayClient(t, mux))

	_, err := svc.Overview(context.Background(), 5)
	require.Error(t, err)
}
