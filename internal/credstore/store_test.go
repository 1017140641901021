package credstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ujwal209/prashne-ui-api/internal/adapters/idp"
	domainauth "github.com/ujwal209/prashne-ui-api/internal/domain/auth"
	mockauth "github.com/ujwal209/prashne-ui-api/internal/mocks/auth"
)

func newTestStore(t *testing.T) (*Store, *mockauth.MemoryCredentialRecords, *mockauth.MockIdentityProvider) {
	t.Helper()

	records := mockauth.NewMemoryCredentialRecords()
	provider := &mockauth.MockIdentityProvider{}

	store, err := New(Options{
		Records:  records,
		Provider: provider,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)

	return store, records, provider
}

func liveCredential() domainauth.Credential {
	return domainauth.Credential{
		AccessToken:  "at-1",
		RefreshToken: "rt-1",
		ExpiresAt:    time.Now().Add(time.Hour),
	}
}

func expiredCredential() domainauth.Credential {
	return domainauth.Credential{
		AccessToken:  "at-stale",
		RefreshToken: "rt-stale",
		ExpiresAt:    time.Now().Add(-time.Minute),
	}
}

func TestNewRequiresDependencies(t *testing.T) {
	_, err := New(Options{})
	require.Error(t, err)

	_, err = New(Options{Records: mockauth.NewMemoryCredentialRecords()})
	require.Error(t, err)
}

func TestSetValidatesAndPersists(t *testing.T) {
	store, records, provider := newTestStore(t)
	ctx := context.Background()

	err := store.Set(ctx, "sess-1", liveCredential())
	require.NoError(t, err)
	assert.Equal(t, 1, provider.Validations())

	cred, found, err := records.GetCredential(ctx, "sess-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "at-1", cred.AccessToken)
	assert.Equal(t, "rt-1", cred.RefreshToken)
}

func TestSetRejectedPairFailsWithSessionSync(t *testing.T) {
	store, records, provider := newTestStore(t)
	provider.ValidateFunc = func(_ context.Context, _ domainauth.Credential) (domainauth.Credential, error) {
		return domainauth.Credential{}, fmt.Errorf("%w: token revoked", idp.ErrRejected)
	}

	err := store.Set(context.Background(), "sess-1", liveCredential())
	require.ErrorIs(t, err, ErrSessionSync)

	// No partial state may survive a failed set.
	_, found, err := records.GetCredential(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSetEmptyPairFails(t *testing.T) {
	store, _, _ := newTestStore(t)

	err := store.Set(context.Background(), "sess-1", domainauth.Credential{})
	require.ErrorIs(t, err, ErrSessionSync)

	err = store.Set(context.Background(), "", liveCredential())
	require.Error(t, err)
}

func TestGetReturnsLiveCredentialWithoutRefresh(t *testing.T) {
	store, records, provider := newTestStore(t)
	ctx := context.Background()

	want := liveCredential()
	require.NoError(t, records.SaveCredential(ctx, "sess-1", want))

	refreshCalled := false
	provider.RefreshFunc = func(_ context.Context, _ domainauth.Credential) (domainauth.Credential, error) {
		refreshCalled = true
		return domainauth.Credential{}, errors.New("should not refresh")
	}

	got, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, want.AccessToken, got.AccessToken)
	assert.False(t, refreshCalled)
}

func TestGetMissingCredential(t *testing.T) {
	store, _, _ := newTestStore(t)

	_, err := store.Get(context.Background(), "absent")
	require.ErrorIs(t, err, ErrNoCredential)
}

func TestGetRefreshesExpiredCredential(t *testing.T) {
	store, records, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, records.SaveCredential(ctx, "sess-1", expiredCredential()))

	got, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "refreshed-at-1", got.AccessToken)
	assert.Equal(t, "refreshed-rt-1", got.RefreshToken)

	// The rotated pair is persisted so later readers observe it.
	stored, found, err := records.GetCredential(ctx, "sess-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "refreshed-at-1", stored.AccessToken)
}

func TestConcurrentGetRefreshesOnce(t *testing.T) {
	store, records, provider := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, records.SaveCredential(ctx, "sess-1", expiredCredential()))

	// A slow grant widens the window in which a second reader could observe
	// the still-expired pair.
	rotated := domainauth.Credential{
		AccessToken:  "at-rotated",
		RefreshToken: "rt-rotated",
		ExpiresAt:    time.Now().Add(time.Hour),
	}
	provider.RefreshFunc = func(_ context.Context, _ domainauth.Credential) (domainauth.Credential, error) {
		time.Sleep(50 * time.Millisecond)
		return rotated, nil
	}

	const readers = 4
	start := make(chan struct{})
	results := make(chan domainauth.Credential, readers)
	errs := make(chan error, readers)

	var wg sync.WaitGroup
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			cred, err := store.Get(ctx, "sess-1")
			results <- cred
			errs <- err
		}()
	}
	close(start)
	wg.Wait()
	close(results)
	close(errs)

	// Exactly one grant ran; every reader got the rotated pair.
	assert.Equal(t, 1, provider.Refreshes())
	for err := range errs {
		require.NoError(t, err)
	}
	for cred := range results {
		assert.Equal(t, "at-rotated", cred.AccessToken)
	}
}

func TestGetDropsRejectedPair(t *testing.T) {
	store, records, provider := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, records.SaveCredential(ctx, "sess-1", expiredCredential()))
	provider.RefreshFunc = func(_ context.Context, _ domainauth.Credential) (domainauth.Credential, error) {
		return domainauth.Credential{}, fmt.Errorf("%w: refresh token revoked", idp.ErrRejected)
	}

	var clearedSession string
	var cleared bool
	store.Subscribe(func(sessionID string, wasCleared bool) {
		clearedSession = sessionID
		cleared = wasCleared
	})

	_, err := store.Get(ctx, "sess-1")
	require.ErrorIs(t, err, ErrNoCredential)

	_, found, err := records.GetCredential(ctx, "sess-1")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, "sess-1", clearedSession)
	assert.True(t, cleared)
}

func TestGetRefreshTransportErrorPassesThrough(t *testing.T) {
	store, records, provider := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, records.SaveCredential(ctx, "sess-1", expiredCredential()))
	provider.RefreshFunc = func(_ context.Context, _ domainauth.Credential) (domainauth.Credential, error) {
		return domainauth.Credential{}, errors.New("provider unreachable")
	}

	_, err := store.Get(ctx, "sess-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoCredential)

	// A transient failure must not destroy the stored pair.
	_, found, getErr := records.GetCredential(ctx, "sess-1")
	require.NoError(t, getErr)
	assert.True(t, found)
}

func TestCurrentResolvesSessionFromContext(t *testing.T) {
	store, records, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, records.SaveCredential(ctx, "sess-1", liveCredential()))

	// No session on the context: absent, not an error.
	_, ok, err := store.Current(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	cred, ok, err := store.Current(WithSessionID(ctx, "sess-1"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "at-1", cred.AccessToken)

	// A session with no stored pair is also absent, not an error.
	_, ok, err = store.Current(WithSessionID(ctx, "sess-2"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCurrentObservesRotation(t *testing.T) {
	store, records, _ := newTestStore(t)
	ctx := WithSessionID(context.Background(), "sess-1")

	require.NoError(t, records.SaveCredential(ctx, "sess-1", liveCredential()))

	first, ok, err := store.Current(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	// Another path rotates the pair; the next read must see the new pair.
	rotated := domainauth.Credential{
		AccessToken:  "at-2",
		RefreshToken: "rt-2",
		ExpiresAt:    time.Now().Add(time.Hour),
	}
	require.NoError(t, records.SaveCredential(ctx, "sess-1", rotated))

	second, ok, err := store.Current(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotEqual(t, first.AccessToken, second.AccessToken)
	assert.Equal(t, "at-2", second.AccessToken)
}

func TestClearRevokesAndDeletes(t *testing.T) {
	store, records, provider := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, records.SaveCredential(ctx, "sess-1", liveCredential()))

	var notified bool
	store.Subscribe(func(sessionID string, cleared bool) {
		notified = sessionID == "sess-1" && cleared
	})

	require.NoError(t, store.Clear(ctx, "sess-1"))

	_, found, err := records.GetCredential(ctx, "sess-1")
	require.NoError(t, err)
	assert.False(t, found)
	require.Len(t, provider.Revoked(), 1)
	assert.Equal(t, "at-1", provider.Revoked()[0].AccessToken)
	assert.True(t, notified)
}

func TestClearSurvivesRevokeFailure(t *testing.T) {
	store, records, provider := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, records.SaveCredential(ctx, "sess-1", liveCredential()))
	provider.RevokeFunc = func(_ context.Context, _ domainauth.Credential) error {
		return errors.New("provider unreachable")
	}

	require.NoError(t, store.Clear(ctx, "sess-1"))

	_, found, err := records.GetCredential(ctx, "sess-1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestClearEmptySessionIsNoop(t *testing.T) {
	store, _, _ := newTestStore(t)
	require.NoError(t, store.Clear(context.Background(), ""))
}

func TestSubscribeAndUnsubscribe(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	var calls int
	unsubscribe := store.Subscribe(func(_ string, _ bool) { calls++ })

	require.NoError(t, store.Set(ctx, "sess-1", liveCredential()))
	assert.Equal(t, 1, calls)

	unsubscribe()

	require.NoError(t, store.Set(ctx, "sess-1", liveCredential()))
	assert.Equal(t, 1, calls)
}

func TestSessionIDContextRoundTrip(t *testing.T) {
	_, ok := SessionIDFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithSessionID(context.Background(), "sess-9")
	got, ok := SessionIDFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "sess-9", got)
}
