// Package session owns the server-side view of a browser session: a small
// state machine that is Unknown until the backing stores are reachable, then
// Authenticated or Unauthenticated per request.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/ujwal209/prashne-ui-api/internal/domain/auth"
	"github.com/ujwal209/prashne-ui-api/internal/ports"
)

// Status is the resolution state of a request's session.
type Status string

const (
	// StatusUnknown means the session could not be resolved yet, either
	// because the manager has not finished warming up or because the
	// session store is unreachable. Guards must not treat Unknown as a
	// sign-in failure.
	StatusUnknown Status = "unknown"
	// StatusAuthenticated means a live session record was found.
	StatusAuthenticated Status = "authenticated"
	// StatusUnauthenticated means no live session exists for the request.
	StatusUnauthenticated Status = "unauthenticated"
)

// Context is the per-request session snapshot handed to guards and handlers.
type Context struct {
	Status  Status
	Session domainauth.Session
}

// Authenticated reports whether the snapshot carries a live session.
func (c Context) Authenticated() bool { return c.Status == StatusAuthenticated }

// Identity returns the session identity; zero value when not authenticated.
func (c Context) Identity() domainauth.Identity {
	if !c.Authenticated() {
		return domainauth.Identity{}
	}
	return c.Session.Identity()
}

// Role returns the session role, or RoleUnknown when not authenticated.
func (c Context) Role() domainauth.Role {
	if !c.Authenticated() {
		return domainauth.RoleUnknown
	}
	return c.Session.Role
}

const defaultTTL = 12 * time.Hour

// Options configures a Manager.
type Options struct {
	Sessions    ports.SessionStore
	Credentials ports.CredentialStore
	TTL         time.Duration
	Logger      *slog.Logger
}

// Manager creates, resolves, and tears down sessions, keeping the session
// record and its credential in lockstep.
type Manager struct {
	sessions    ports.SessionStore
	credentials ports.CredentialStore
	ttl         time.Duration
	logger      *slog.Logger
	ready       atomic.Bool
	unsubscribe func()
}

// NewManager validates options and builds a Manager. The manager starts in
// the warming state; call SetReady once the backing stores are reachable.
func NewManager(opts Options) (*Manager, error) {
	if opts.Sessions == nil {
		return nil, errors.New("session store is required")
	}
	if opts.Credentials == nil {
		return nil, errors.New("credential store is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}

	m := &Manager{
		sessions:    opts.Sessions,
		credentials: opts.Credentials,
		ttl:         ttl,
		logger:      logger.With("component", "session"),
	}

	// A credential dropped by the store (provider rejected the refresh)
	// must take the session record with it, so the next resolve answers
	// Unauthenticated instead of serving a session with no tokens.
	m.unsubscribe = m.credentials.Subscribe(func(sessionID string, cleared bool) {
		if !cleared {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := m.sessions.Delete(ctx, sessionID); err != nil {
			m.logger.Warn("drop session after credential clear failed",
				"session_id", sessionID, "error", err)
		}
	})

	return m, nil
}

// SetReady marks warm-up complete. Until then every Resolve answers Unknown.
func (m *Manager) SetReady() { m.ready.Store(true) }

// SetNotReady drops the ready gate, for example while a backing store is
// being failed over. Resolve answers Unknown again until SetReady.
func (m *Manager) SetNotReady() { m.ready.Store(false) }

// Close detaches the manager from the credential store.
func (m *Manager) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// Resolve turns a session ID from the request into a Context snapshot. A
// store failure answers Unknown with the error, never Unauthenticated, so a
// flaky store cannot sign users out.
func (m *Manager) Resolve(ctx context.Context, sessionID string) (Context, error) {
	if !m.ready.Load() {
		return Context{Status: StatusUnknown}, nil
	}
	if sessionID == "" {
		return Context{Status: StatusUnauthenticated}, nil
	}

	sess, err := m.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ports.ErrSessionNotFound) {
			return Context{Status: StatusUnauthenticated}, nil
		}
		return Context{Status: StatusUnknown}, fmt.Errorf("resolve session: %w", err)
	}

	return Context{Status: StatusAuthenticated, Session: sess}, nil
}

// Establish creates a session for identity backed by cred. The credential is
// validated and persisted through the credential store; if that fails the
// session record is rolled back so no half-established session survives.
func (m *Manager) Establish(ctx context.Context, identity domainauth.Identity, cred domainauth.Credential) (domainauth.Session, error) {
	sess := domainauth.Session{
		ID:          uuid.NewString(),
		UserID:      identity.UserID,
		Email:       identity.Email,
		DisplayName: identity.DisplayName,
		Role:        identity.Role,
		ExpiresAt:   time.Now().Add(m.ttl),
	}

	if err := m.sessions.Save(ctx, sess); err != nil {
		return domainauth.Session{}, fmt.Errorf("save session: %w", err)
	}

	if err := m.credentials.Set(ctx, sess.ID, cred); err != nil {
		if delErr := m.sessions.Delete(ctx, sess.ID); delErr != nil {
			m.logger.WarnContext(ctx, "session rollback failed",
				"session_id", sess.ID, "error", delErr)
		}
		return domainauth.Session{}, err
	}

	return sess, nil
}

// Terminate signs the session out. The credential is cleared (and revoked at
// the provider) before the session record goes, so no window exists where a
// live session points at a dead pair in reverse.
func (m *Manager) Terminate(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	if err := m.credentials.Clear(ctx, sessionID); err != nil {
		// Local sign-out must still succeed; the pair will age out.
		m.logger.WarnContext(ctx, "clear credential on sign-out failed",
			"session_id", sessionID, "error", err)
	}

	if err := m.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
