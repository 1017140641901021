package devauth

// Package devauth provides a simple, config-driven SSO provider for local
// development. Used only when AUTH_MODE=mock.

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	domainauth "github.com/ujwal209/prashne-ui-api/internal/domain/auth"
	"github.com/ujwal209/prashne-ui-api/internal/ports"
)

// Config controls the dev auth provider behavior.
// All fields are required except Groups, which may be empty.
type Config struct {
	UserID          string
	Email           string
	DisplayName     string
	Groups          []string
	SessionDuration time.Duration // default 8h when zero
}

// Provider implements ports.SSOProvider for local development.
// It short-circuits the OAuth flow by redirecting back to our own callback
// with locally generated state and nonce.
// Exchange ignores the code and returns the configured user.
type Provider struct {
	user            ports.SSOResult
	sessionDuration time.Duration
}

// NewProvider constructs a dev auth provider from Config.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.UserID == "" {
		return nil, errors.New("dev auth: UserID is required")
	}
	if cfg.Email == "" {
		return nil, errors.New("dev auth: Email is required")
	}
	dur := cfg.SessionDuration
	if dur == 0 {
		dur = 8 * time.Hour
	}
	return &Provider{
		user: ports.SSOResult{
			UserID:      cfg.UserID,
			Email:       cfg.Email,
			DisplayName: cfg.DisplayName,
			Groups:      append([]string(nil), cfg.Groups...),
		},
		sessionDuration: dur,
	}, nil
}

// Begin returns a local callback URL and cryptographically secure state and nonce.
func (p *Provider) Begin(_ context.Context, _ ports.BeginInput) (string, string, string, error) {
	state, err := randomString(24)
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := randomString(24)
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}
	// Our standard handler expects GET /auth/callback?code=...&state=...
	authURL := "/auth/callback?code=dev&state=" + state
	return authURL, state, nonce, nil
}

// Exchange ignores the provided code/state/nonce (validation handled by
// handler) and returns the dev user with a fresh token pair.
func (p *Provider) Exchange(_ context.Context, _ ports.ExchangeInput) (ports.SSOResult, error) {
	token, err := randomString(32)
	if err != nil {
		return ports.SSOResult{}, fmt.Errorf("generate dev token: %w", err)
	}
	out := p.user
	out.Credential = domainauth.Credential{
		AccessToken:  "dev-" + token,
		RefreshToken: "dev-refresh-" + token,
		ExpiresAt:    time.Now().Add(p.sessionDuration),
	}
	return out, nil
}

func randomString(n int) (string, error) {
	if n <= 0 {
		return "", nil
	}
	// Compute number of random bytes needed to produce at least n base64 URL chars
	bLen := (n*3 + 3) / 4
	b := make([]byte, bLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	s := base64.RawURLEncoding.EncodeToString(b)
	if len(s) < n {
		// pad
		extra := make([]byte, 1)
		if _, err := rand.Read(extra); err != nil {
			return "", err
		}
		s += base64.RawURLEncoding.EncodeToString(extra)
	}
	return s[:n], nil
}
