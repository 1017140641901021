// Package credstore implements the credential store: the single owner of the
// access/refresh token pair backing each browser session. Reads may suspend
// while the identity provider validates or refreshes an expired token; writes
// are validated with the provider before they are persisted. Every other
// component observes credentials through the read-only ports.CredentialReader
// view.
package credstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ujwal209/prashne-ui-api/internal/adapters/idp"
	domainauth "github.com/ujwal209/prashne-ui-api/internal/domain/auth"
	"github.com/ujwal209/prashne-ui-api/internal/ports"
)

// ErrSessionSync is returned by Set when the identity provider rejects the
// token pair. The caller (the session context) decides remediation, which is
// a full sign-in rollback.
var ErrSessionSync = errors.New("session sync failed")

// ErrNoCredential is returned when a session has no stored credential.
var ErrNoCredential = errors.New("no credential for session")

// sessionIDKey carries the current browser session ID through a request
// context so the request pipeline can resolve the live credential without
// holding a copy.
type sessionIDKey struct{}

// WithSessionID returns a child context carrying the browser session ID.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	if sessionID == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionIDKey{}, sessionID)
}

// SessionIDFromContext returns the browser session ID carried by ctx, if any.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionIDKey{}).(string)
	return id, ok && id != ""
}

// Options groups dependencies for Store.
type Options struct {
	Records  ports.CredentialRecords // Required: persistence for token pairs
	Provider ports.IdentityProvider  // Required: validates/refreshes pairs
	Logger   *slog.Logger            // Optional
}

// Store implements ports.CredentialStore.
type Store struct {
	records  ports.CredentialRecords
	provider ports.IdentityProvider
	logger   *slog.Logger

	mu        sync.Mutex
	listeners map[int]ports.CredentialListener
	nextID    int

	// refreshLocks serializes the expired-refresh path per session. The
	// provider rotates refresh tokens, so a second concurrent grant with the
	// same token reads as replay and kills the session.
	refreshLocks sync.Map // sessionID -> *sync.Mutex
}

// New constructs a Store.
func New(opts Options) (*Store, error) {
	if opts.Records == nil {
		return nil, errors.New("credstore: CredentialRecords is required")
	}
	if opts.Provider == nil {
		return nil, errors.New("credstore: IdentityProvider is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Store{
		records:   opts.Records,
		provider:  opts.Provider,
		logger:    logger.With("component", "credstore"),
		listeners: make(map[int]ports.CredentialListener),
	}, nil
}

// Current implements ports.CredentialReader: it resolves the session carried
// by ctx and returns its live credential. ok is false when ctx carries no
// session or the session holds no credential.
func (s *Store) Current(ctx context.Context) (domainauth.Credential, bool, error) {
	sessionID, ok := SessionIDFromContext(ctx)
	if !ok {
		return domainauth.Credential{}, false, nil
	}

	cred, err := s.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrNoCredential) {
			return domainauth.Credential{}, false, nil
		}
		return domainauth.Credential{}, false, err
	}
	return cred, true, nil
}

// Get returns the credential for a session. An expired access token is
// refreshed through the identity provider and the rotated pair is written
// back before returning, so every subsequent reader observes it.
func (s *Store) Get(ctx context.Context, sessionID string) (domainauth.Credential, error) {
	cred, found, err := s.records.GetCredential(ctx, sessionID)
	if err != nil {
		return domainauth.Credential{}, fmt.Errorf("read credential: %w", err)
	}
	if !found {
		return domainauth.Credential{}, ErrNoCredential
	}

	if !cred.Expired(time.Now()) {
		return cred, nil
	}

	// Only one goroutine runs the refresh grant for a session; the rest wait
	// and pick up the rotated pair.
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	cred, found, err = s.records.GetCredential(ctx, sessionID)
	if err != nil {
		return domainauth.Credential{}, fmt.Errorf("read credential: %w", err)
	}
	if !found {
		return domainauth.Credential{}, ErrNoCredential
	}
	if !cred.Expired(time.Now()) {
		return cred, nil
	}

	refreshed, err := s.provider.Refresh(ctx, cred)
	if err != nil {
		if errors.Is(err, idp.ErrRejected) {
			// The pair is dead; drop it so readers see absence, not staleness.
			if delErr := s.records.DeleteCredential(ctx, sessionID); delErr != nil {
				s.logger.WarnContext(ctx, "drop rejected credential failed", "error", delErr)
			}
			s.notify(sessionID, true)
			return domainauth.Credential{}, ErrNoCredential
		}
		return domainauth.Credential{}, fmt.Errorf("refresh credential: %w", err)
	}

	if saveErr := s.records.SaveCredential(ctx, sessionID, refreshed); saveErr != nil {
		return domainauth.Credential{}, fmt.Errorf("persist refreshed credential: %w", saveErr)
	}
	s.notify(sessionID, false)

	return refreshed, nil
}

func (s *Store) sessionLock(sessionID string) *sync.Mutex {
	lock, _ := s.refreshLocks.LoadOrStore(sessionID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// Set validates the pair with the identity provider and persists it. A
// provider rejection fails with ErrSessionSync and leaves no partial state.
func (s *Store) Set(ctx context.Context, sessionID string, cred domainauth.Credential) error {
	if sessionID == "" {
		return errors.New("session ID is required")
	}
	if cred.IsZero() {
		return fmt.Errorf("%w: empty token pair", ErrSessionSync)
	}

	validated, err := s.provider.Validate(ctx, cred)
	if err != nil {
		if errors.Is(err, idp.ErrRejected) {
			return fmt.Errorf("%w: %v", ErrSessionSync, err)
		}
		return fmt.Errorf("validate credential: %w", err)
	}

	if err := s.records.SaveCredential(ctx, sessionID, validated); err != nil {
		return fmt.Errorf("persist credential: %w", err)
	}
	s.notify(sessionID, false)

	return nil
}

// Clear removes the credential and revokes it at the provider. Revocation is
// best effort; local state is cleared regardless.
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	cred, found, err := s.records.GetCredential(ctx, sessionID)
	if err == nil && found {
		if revokeErr := s.provider.Revoke(ctx, cred); revokeErr != nil {
			s.logger.WarnContext(ctx, "revoke credential failed", "error", revokeErr)
		}
	}

	if delErr := s.records.DeleteCredential(ctx, sessionID); delErr != nil {
		return fmt.Errorf("delete credential: %w", delErr)
	}
	s.refreshLocks.Delete(sessionID)
	s.notify(sessionID, true)

	return nil
}

// Subscribe registers a change listener. The returned function unsubscribes.
func (s *Store) Subscribe(fn ports.CredentialListener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Store) notify(sessionID string, cleared bool) {
	s.mu.Lock()
	fns := make([]ports.CredentialListener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(sessionID, cleared)
	}
}
