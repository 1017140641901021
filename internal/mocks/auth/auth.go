// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.
package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ujwal209/prashne-ui-api/internal/adapters/idp"
	domainauth "github.com/ujwal209/prashne-ui-api/internal/domain/auth"
	"github.com/ujwal209/prashne-ui-api/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.IdentityProvider  = (*MockIdentityProvider)(nil)
	_ ports.CredentialRecords = (*MemoryCredentialRecords)(nil)
	_ ports.SessionStore      = (*MemorySessionStore)(nil)
	_ ports.SSOProvider       = (*MockSSOProvider)(nil)
)

// MockIdentityProvider simulates the hosted identity provider. By default it
// accepts every pair unchanged; behavior is overridable per method.
type MockIdentityProvider struct {
	ValidateFunc func(ctx context.Context, cred domainauth.Credential) (domainauth.Credential, error)
	RefreshFunc  func(ctx context.Context, cred domainauth.Credential) (domainauth.Credential, error)
	RevokeFunc   func(ctx context.Context, cred domainauth.Credential) error

	mu          sync.Mutex
	revoked     []domainauth.Credential
	refreshSeq  int
	validations int
	refreshes   int
}

// NewMockIdentityProvider creates a provider with the default accept-all
// behavior.
func NewMockIdentityProvider() *MockIdentityProvider {
	return &MockIdentityProvider{}
}

func (m *MockIdentityProvider) Validate(ctx context.Context, cred domainauth.Credential) (domainauth.Credential, error) {
	m.mu.Lock()
	m.validations++
	m.mu.Unlock()

	if m.ValidateFunc != nil {
		return m.ValidateFunc(ctx, cred)
	}
	if cred.AccessToken == "" {
		return domainauth.Credential{}, fmt.Errorf("%w: empty access token", idp.ErrRejected)
	}
	return cred, nil
}

func (m *MockIdentityProvider) Refresh(ctx context.Context, cred domainauth.Credential) (domainauth.Credential, error) {
	m.mu.Lock()
	m.refreshes++
	m.mu.Unlock()

	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, cred)
	}

	m.mu.Lock()
	m.refreshSeq++
	seq := m.refreshSeq
	m.mu.Unlock()

	if cred.RefreshToken == "" {
		return domainauth.Credential{}, fmt.Errorf("%w: empty refresh token", idp.ErrRejected)
	}
	return domainauth.Credential{
		AccessToken:  fmt.Sprintf("refreshed-at-%d", seq),
		RefreshToken: fmt.Sprintf("refreshed-rt-%d", seq),
		ExpiresAt:    time.Now().Add(time.Hour),
	}, nil
}

func (m *MockIdentityProvider) Revoke(ctx context.Context, cred domainauth.Credential) error {
	if m.RevokeFunc != nil {
		return m.RevokeFunc(ctx, cred)
	}
	m.mu.Lock()
	m.revoked = append(m.revoked, cred)
	m.mu.Unlock()
	return nil
}

// Revoked returns the credentials passed to Revoke so far.
func (m *MockIdentityProvider) Revoked() []domainauth.Credential {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domainauth.Credential(nil), m.revoked...)
}

// Refreshes returns how many times Refresh has been called.
func (m *MockIdentityProvider) Refreshes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refreshes
}

// Validations returns how many times Validate has been called.
func (m *MockIdentityProvider) Validations() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.validations
}

// MemoryCredentialRecords is an in-memory ports.CredentialRecords with
// optional failure injection.
type MemoryCredentialRecords struct {
	mu    sync.Mutex
	creds map[string]domainauth.Credential

	SaveErr   error
	GetErr    error
	DeleteErr error
}

// NewMemoryCredentialRecords creates an empty in-memory record store.
func NewMemoryCredentialRecords() *MemoryCredentialRecords {
	return &MemoryCredentialRecords{creds: make(map[string]domainauth.Credential)}
}

func (m *MemoryCredentialRecords) SaveCredential(_ context.Context, sessionID string, cred domainauth.Credential) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds[sessionID] = cred
	return nil
}

func (m *MemoryCredentialRecords) GetCredential(_ context.Context, sessionID string) (domainauth.Credential, bool, error) {
	if m.GetErr != nil {
		return domainauth.Credential{}, false, m.GetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cred, found := m.creds[sessionID]
	return cred, found, nil
}

func (m *MemoryCredentialRecords) DeleteCredential(_ context.Context, sessionID string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.creds, sessionID)
	return nil
}

// MemorySessionStore is an in-memory ports.SessionStore.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]domainauth.Session

	SaveErr error
	GetErr  error
}

// NewMemorySessionStore creates an empty in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]domainauth.Session)}
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = sess
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	if m.GetErr != nil {
		return domainauth.Session{}, m.GetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return domainauth.Session{}, ErrSessionNotFound
	}
	if time.Now().After(sess.ExpiresAt) {
		delete(m.sessions, id)
		return domainauth.Session{}, ErrSessionNotFound
	}
	return sess, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Len reports the number of live session records.
func (m *MemorySessionStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// ErrSessionNotFound mirrors the redis adapter's not-found error.
var ErrSessionNotFound = ports.ErrSessionNotFound

// MockSSOProvider simulates an OIDC IdP for tests with deterministic
// state/nonce handling.
type MockSSOProvider struct {
	BeginFunc    func(ctx context.Context, in ports.BeginInput) (authURL, state, nonce string, err error)
	ExchangeFunc func(ctx context.Context, in ports.ExchangeInput) (ports.SSOResult, error)

	AuthURL     string
	DefaultUser ports.SSOResult

	callCount int
}

// NewMockSSOProvider creates a MockSSOProvider with sensible defaults.
func NewMockSSOProvider() *MockSSOProvider {
	return &MockSSOProvider{
		AuthURL: "https://mock-idp/auth",
		DefaultUser: ports.SSOResult{
			UserID:      "sso-user-1",
			Email:       "sso.user@prashne.io",
			DisplayName: "SSO User",
			Groups:      []string{"prashne-hr"},
			Credential: domainauth.Credential{
				AccessToken:  "sso-at",
				RefreshToken: "sso-rt",
				ExpiresAt:    time.Now().Add(time.Hour),
			},
		},
	}
}

func (m *MockSSOProvider) Begin(ctx context.Context, in ports.BeginInput) (string, string, string, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx, in)
	}
	m.callCount++
	return m.AuthURL, fmt.Sprintf("state-%d", m.callCount), fmt.Sprintf("nonce-%d", m.callCount), nil
}

func (m *MockSSOProvider) Exchange(ctx context.Context, in ports.ExchangeInput) (ports.SSOResult, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, in)
	}
	out := m.DefaultUser
	out.Credential.ExpiresAt = time.Now().Add(time.Hour)
	return out, nil
}
