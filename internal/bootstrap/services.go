package bootstrap

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/ujwal209/prashne-ui-api/config"
	"github.com/ujwal209/prashne-ui-api/internal/adapters/idp"
	redisadapter "github.com/ujwal209/prashne-ui-api/internal/adapters/redis"
	"github.com/ujwal209/prashne-ui-api/internal/apiclient"
	"github.com/ujwal209/prashne-ui-api/internal/credstore"
	"github.com/ujwal209/prashne-ui-api/internal/data"
	"github.com/ujwal209/prashne-ui-api/internal/service"
	"github.com/ujwal209/prashne-ui-api/internal/session"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth       *service.AuthService
	Jobs       *service.JobService
	Resumes    *service.ResumeService
	Interviews *service.InterviewService
	Admin      *service.AdminService
	Dashboard  *service.DashboardService

	Sessions    *session.Manager
	Credentials *credstore.Store
	API         *apiclient.Client
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// BuildServices wires the full service graph: credential store over Redis,
// session manager, core API client, and the proxied services. Both backing
// stores have already been pinged by the connect helpers, so the session
// manager is marked ready before this returns.
func BuildServices(deps ServiceDeps) (*ServiceContainer, error) {
	if deps.Config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if deps.RedisClient == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	idpBase := cfg.Auth.IdP.BaseURL
	if idpBase == "" {
		idpBase = cfg.Backend.BaseURL
	}
	provider, err := idp.New(idp.Config{
		BaseURL: idpBase,
		APIKey:  cfg.Auth.IdP.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("build identity provider client: %w", err)
	}

	encryptor := CreateEncryptor(cfg.TokenEncryptionKey, logger)
	creds, err := credstore.New(credstore.Options{
		Records:  redisadapter.NewCredentialRecordsWithEncryptor(deps.RedisClient, encryptor),
		Provider: provider,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build credential store: %w", err)
	}

	manager, err := session.NewManager(session.Options{
		Sessions:    redisadapter.NewSessionStore(deps.RedisClient),
		Credentials: creds,
		TTL:         cfg.Session.TTL,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build session manager: %w", err)
	}

	api, err := apiclient.New(apiclient.Options{
		BaseURL:     cfg.Backend.BaseURL,
		HTTPClient:  &http.Client{Timeout: cfg.Backend.Timeout},
		Credentials: creds,
		Logger:      logger,
		UserAgent:   cfg.Backend.UserAgent,
	})
	if err != nil {
		return nil, fmt.Errorf("build core api client: %w", err)
	}

	sso := BuildSSO(cfg.Auth, logger)

	authOpts := service.AuthServiceOptions{
		API:      api,
		Sessions: manager,
		SSO:      sso.Provider,
		Roles:    sso.Roles,
		Logger:   logger,
	}
	// The audit trail lives in Postgres; without a database the gateway
	// still signs users in, it just keeps no history.
	if deps.DB != nil {
		authOpts.Auditor = data.NewSignInAuditRepo(deps.DB)
	}
	auth, err := service.NewAuthService(authOpts)
	if err != nil {
		return nil, fmt.Errorf("build auth service: %w", err)
	}

	manager.SetReady()

	return &ServiceContainer{
		Auth:       auth,
		Jobs:       service.NewJobService(api),
		Resumes:    service.NewResumeService(api),
		Interviews: service.NewInterviewService(api),
		Admin:      service.NewAdminService(api),
		Dashboard:  service.NewDashboardService(api),

		Sessions:    manager,
		Credentials: creds,
		API:         api,
	}, nil
}

// Close releases resources held by the container.
func (c *ServiceContainer) Close() {
	if c == nil {
		return
	}
	if c.Sessions != nil {
		c.Sessions.Close()
	}
}
