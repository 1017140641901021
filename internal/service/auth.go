// Package service orchestrates the gateway's flows: authentication against
// the core API and identity provider, and the proxied HR, admin, and
// interview surfaces.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ujwal209/prashne-ui-api/internal/apiclient"
	domainauth "github.com/ujwal209/prashne-ui-api/internal/domain/auth"
	"github.com/ujwal209/prashne-ui-api/internal/ports"
	"github.com/ujwal209/prashne-ui-api/internal/routing"
	"github.com/ujwal209/prashne-ui-api/internal/session"
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	API      *apiclient.Client
	Sessions *session.Manager
	SSO      ports.SSOProvider   // optional, sso mode only
	Roles    ports.RoleMapper    // required when SSO is set
	Auditor  ports.SignInAuditor // optional
	Logger   *slog.Logger
}

// AuthService orchestrates sign-in, sign-out, and the audit trail.
type AuthService struct {
	api      *apiclient.Client
	sessions *session.Manager
	sso      ports.SSOProvider
	roles    ports.RoleMapper
	auditor  ports.SignInAuditor
	logger   *slog.Logger
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) (*AuthService, error) {
	if opts.API == nil {
		return nil, errors.New("api client is required")
	}
	if opts.Sessions == nil {
		return nil, errors.New("session manager is required")
	}
	if opts.SSO != nil && opts.Roles == nil {
		return nil, errors.New("role mapper is required for SSO")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		api:      opts.API,
		sessions: opts.Sessions,
		sso:      opts.SSO,
		roles:    opts.Roles,
		auditor:  opts.Auditor,
		logger:   logger.With("component", "auth"),
	}, nil
}

// PasswordSignInInput is the credential form posted by the sign-in screen.
type PasswordSignInInput struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	RemoteAddr string `json:"-"`
}

// SignInResult is a completed sign-in: the established session plus the
// screen this role lands on.
type SignInResult struct {
	Session domainauth.Session
	Landing string
}

// loginAnswer is the core API's answer to POST /auth/login.
type loginAnswer struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in,omitempty"`
	User         struct {
		ID       string `json:"id"`
		Email    string `json:"email"`
		FullName string `json:"full_name,omitempty"`
		Role     string `json:"role"`
	} `json:"user"`
}

// PasswordSignIn exchanges an email/password pair with the core API and
// establishes a session. The role claim is decoded exactly once, here; every
// later access reads the session's typed role.
func (s *AuthService) PasswordSignIn(ctx context.Context, in PasswordSignInInput) (SignInResult, error) {
	var answer loginAnswer
	payload := map[string]string{"email": in.Email, "password": in.Password}
	if err := s.api.Post(ctx, "/auth/login", payload, &answer); err != nil {
		s.audit(ctx, ports.SignInEvent{
			Email:      in.Email,
			Kind:       ports.SignInEventFailure,
			RemoteAddr: in.RemoteAddr,
		})
		return SignInResult{}, err
	}

	role := domainauth.ParseRole(answer.User.Role)
	identity := domainauth.Identity{
		UserID:      answer.User.ID,
		Email:       answer.User.Email,
		DisplayName: answer.User.FullName,
		Role:        role,
	}
	cred := domainauth.Credential{
		AccessToken:  answer.AccessToken,
		RefreshToken: answer.RefreshToken,
	}
	if answer.ExpiresIn > 0 {
		cred.ExpiresAt = time.Now().Add(time.Duration(answer.ExpiresIn) * time.Second)
	}

	sess, err := s.sessions.Establish(ctx, identity, cred)
	if err != nil {
		s.audit(ctx, ports.SignInEvent{
			UserID:     identity.UserID,
			Email:      identity.Email,
			Role:       role,
			Kind:       ports.SignInEventFailure,
			RemoteAddr: in.RemoteAddr,
		})
		return SignInResult{}, fmt.Errorf("establish session: %w", err)
	}

	s.audit(ctx, ports.SignInEvent{
		UserID:     identity.UserID,
		Email:      identity.Email,
		Role:       role,
		Kind:       ports.SignInEventSignIn,
		RemoteAddr: in.RemoteAddr,
	})

	return SignInResult{Session: sess, Landing: routing.LandingRouteFor(role)}, nil
}

// BeginSSOResult contains the provider redirect for an SSO sign-in.
type BeginSSOResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginSSO initiates an SSO flow and returns the provider auth URL with
// state and nonce for the callback.
func (s *AuthService) BeginSSO(ctx context.Context, redirectURL string) (*BeginSSOResult, error) {
	if s.sso == nil {
		return nil, errors.New("sso is not configured")
	}
	if redirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}

	authURL, state, nonce, err := s.sso.Begin(ctx, ports.BeginInput{RedirectURL: redirectURL})
	if err != nil {
		return nil, fmt.Errorf("begin sso flow: %w", err)
	}
	return &BeginSSOResult{AuthURL: authURL, State: state, Nonce: nonce}, nil
}

// CompleteSSOInput groups the callback parameters of an SSO flow.
type CompleteSSOInput struct {
	Code       string
	State      string
	Nonce      string
	RemoteAddr string
}

// CompleteSSO exchanges the authorization code, maps provider groups to a
// role, and establishes a session.
func (s *AuthService) CompleteSSO(ctx context.Context, in CompleteSSOInput) (SignInResult, error) {
	if s.sso == nil {
		return SignInResult{}, errors.New("sso is not configured")
	}
	if in.Code == "" {
		return SignInResult{}, errors.New("authorization code is required")
	}
	if in.State == "" {
		return SignInResult{}, errors.New("state parameter is required")
	}

	result, err := s.sso.Exchange(ctx, ports.ExchangeInput{
		Code:  in.Code,
		State: in.State,
		Nonce: in.Nonce,
	})
	if err != nil {
		s.audit(ctx, ports.SignInEvent{
			Kind:       ports.SignInEventFailure,
			RemoteAddr: in.RemoteAddr,
		})
		return SignInResult{}, fmt.Errorf("exchange authorization code: %w", err)
	}

	role := s.roles.Map(result.Groups)
	identity := domainauth.Identity{
		UserID:      result.UserID,
		Email:       result.Email,
		DisplayName: result.DisplayName,
		Role:        role,
	}

	sess, err := s.sessions.Establish(ctx, identity, result.Credential)
	if err != nil {
		s.audit(ctx, ports.SignInEvent{
			UserID:     identity.UserID,
			Email:      identity.Email,
			Role:       role,
			Kind:       ports.SignInEventFailure,
			RemoteAddr: in.RemoteAddr,
		})
		return SignInResult{}, fmt.Errorf("establish session: %w", err)
	}

	s.audit(ctx, ports.SignInEvent{
		UserID:     identity.UserID,
		Email:      identity.Email,
		Role:       role,
		Kind:       ports.SignInEventSignIn,
		RemoteAddr: in.RemoteAddr,
	})

	return SignInResult{Session: sess, Landing: routing.LandingRouteFor(role)}, nil
}

// SignOut tears the session down and records the event.
func (s *AuthService) SignOut(ctx context.Context, sess domainauth.Session, remoteAddr string) error {
	if err := s.sessions.Terminate(ctx, sess.ID); err != nil {
		return fmt.Errorf("terminate session: %w", err)
	}

	s.audit(ctx, ports.SignInEvent{
		UserID:     sess.UserID,
		Email:      sess.Email,
		Role:       sess.Role,
		Kind:       ports.SignInEventSignOut,
		RemoteAddr: remoteAddr,
	})
	return nil
}

// RecentSignIns lists the newest audit events for the admin surface.
func (s *AuthService) RecentSignIns(ctx context.Context, limit int) ([]ports.SignInEvent, error) {
	if s.auditor == nil {
		return nil, nil
	}
	return s.auditor.ListRecent(ctx, limit)
}

// audit records an event best effort. Auditing never blocks or fails a flow.
func (s *AuthService) audit(ctx context.Context, event ports.SignInEvent) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.Record(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "record sign-in event failed",
			"kind", string(event.Kind), "error", err)
	}
}
