package ports

// Package ports defines interfaces (hexagonal ports) for session and auth
// behavior. Implementations live in internal/adapters and internal/data;
// orchestration in internal/session and internal/service.

import (
	"context"
	"errors"
	"time"

	domainauth "github.com/ujwal209/prashne-ui-api/internal/domain/auth"
)

// ErrSessionNotFound is returned by SessionStore implementations when no
// live record exists for a session ID.
var ErrSessionNotFound = errors.New("session not found")

// IdentityProvider is the client for the external identity provider that
// issues and validates token pairs. It performs no retries; failures surface
// verbatim to the caller, which decides remediation.
type IdentityProvider interface {
	// Validate checks a token pair with the provider. A rejected pair fails
	// with credstore.ErrSessionSync wrapped by the caller; an expired access
	// token with a live refresh token is refreshed and the new pair returned.
	Validate(ctx context.Context, cred domainauth.Credential) (domainauth.Credential, error)

	// Refresh exchanges the refresh token for a fresh pair.
	Refresh(ctx context.Context, cred domainauth.Credential) (domainauth.Credential, error)

	// Revoke invalidates the pair at the provider. Best effort on sign-out.
	Revoke(ctx context.Context, cred domainauth.Credential) error
}

// SSOProvider initiates and completes an enterprise single-sign-on flow
// against an OIDC identity provider. Used only when AUTH_MODE=sso.
type SSOProvider interface {
	// Begin starts the login flow and returns the provider auth URL, an opaque state, and a nonce.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)

	// Exchange completes the login flow, verifying state and nonce, and
	// returns the authenticated identity with its token pair.
	Exchange(ctx context.Context, in ExchangeInput) (SSOResult, error)
}

// BeginInput carries inputs for initiating an SSO flow.
type BeginInput struct {
	RedirectURL string
}

// ExchangeInput groups parameters for the code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// SSOResult is the outcome of a completed SSO exchange.
type SSOResult struct {
	UserID      string
	Email       string
	DisplayName string
	Groups      []string
	Credential  domainauth.Credential
}

// RoleMapper maps SSO provider groups to application roles. The password
// flow bypasses this: its role claim is decoded directly by auth.ParseRole.
type RoleMapper interface {
	Map(groups []string) domainauth.Role
}

// CredentialReader is the read-only view of the credential store consumed by
// the request pipeline. The pipeline re-reads on every outbound call and
// never caches the result.
type CredentialReader interface {
	// Current returns the live credential for the session carried by ctx.
	// ok is false when no session or no credential exists; err reports a
	// store or provider failure distinct from plain absence.
	Current(ctx context.Context) (cred domainauth.Credential, ok bool, err error)
}

// CredentialStore owns the session credential. It is the single writer of
// token pairs; every other component reads through CredentialReader.
type CredentialStore interface {
	CredentialReader

	// Get returns the credential for an explicit session ID, refreshing an
	// expired access token through the identity provider before returning.
	Get(ctx context.Context, sessionID string) (domainauth.Credential, error)

	// Set validates the pair with the identity provider and persists it.
	// Fails with credstore.ErrSessionSync when the provider rejects the pair.
	Set(ctx context.Context, sessionID string, cred domainauth.Credential) error

	// Clear removes the credential and revokes it at the provider (best effort).
	Clear(ctx context.Context, sessionID string) error

	// Subscribe registers a change listener invoked after every Set and
	// Clear. The returned function unsubscribes.
	Subscribe(fn CredentialListener) (unsubscribe func())
}

// CredentialListener observes credential changes. cleared is true for Clear.
type CredentialListener func(sessionID string, cleared bool)

// CredentialRecords is the persistence half of the credential store. The
// found flag distinguishes plain absence from storage failure.
type CredentialRecords interface {
	SaveCredential(ctx context.Context, sessionID string, cred domainauth.Credential) error
	GetCredential(ctx context.Context, sessionID string) (cred domainauth.Credential, found bool, err error)
	DeleteCredential(ctx context.Context, sessionID string) error
}

// SessionStore persists and retrieves server-side session records.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// SignInEvent is a gateway-side audit record of an authentication event.
type SignInEvent struct {
	ID         string
	UserID     string
	Email      string
	Role       domainauth.Role
	Kind       SignInEventKind
	RemoteAddr string
	OccurredAt time.Time
}

// SignInEventKind enumerates audit event kinds.
type SignInEventKind string

const (
	SignInEventSignIn  SignInEventKind = "sign_in"
	SignInEventSignOut SignInEventKind = "sign_out"
	SignInEventFailure SignInEventKind = "sign_in_failed"
)

// SignInAuditor records authentication events. Recording is best effort and
// must never block or fail an auth flow.
type SignInAuditor interface {
	Record(ctx context.Context, event SignInEvent) error
	ListRecent(ctx context.Context, limit int) ([]SignInEvent, error)
}
