package redis

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ujwal209/prashne-ui-api/internal/cryptoutil"
	domainauth "github.com/ujwal209/prashne-ui-api/internal/domain/auth"
)

func newTestClient(t *testing.T) (goredis.UniversalClient, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func testSession(id string) domainauth.Session {
	return domainauth.Session{
		ID:        id,
		UserID:    "u-1",
		Email:     "recruiter@prashne.io",
		Role:      domainauth.RoleHRUser,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func TestSessionStoreSaveAndGet(t *testing.T) {
	client, _ := newTestClient(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	sess := testSession("sid-1")
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, sess.UserID, got.UserID)
	assert.Equal(t, sess.Role, got.Role)
	assert.Equal(t, sess.Email, got.Email)
}

func TestSessionStoreSaveValidation(t *testing.T) {
	client, _ := newTestClient(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	t.Run("empty ID", func(t *testing.T) {
		sess := testSession("")
		assert.Error(t, store.Save(ctx, sess))
	})

	t.Run("already expired", func(t *testing.T) {
		sess := testSession("sid-exp")
		sess.ExpiresAt = time.Now().Add(-time.Minute)
		assert.Error(t, store.Save(ctx, sess))
	})
}

func TestSessionStoreGetMissing(t *testing.T) {
	client, _ := newTestClient(t)
	store := NewSessionStore(client)

	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Get(context.Background(), "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionStoreGetExpiredRecord(t *testing.T) {
	client, mr := newTestClient(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	// The wall clock passes the session expiry while the Redis TTL has not
	// fired (miniredis time is frozen); Get must treat the record as gone.
	sess := testSession("sid-ttl")
	sess.ExpiresAt = time.Now().Add(50 * time.Millisecond)
	require.NoError(t, store.Save(ctx, sess))
	require.True(t, mr.Exists("prashne:sess:sid-ttl"))

	time.Sleep(60 * time.Millisecond)

	_, err := store.Get(ctx, "sid-ttl")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, mr.Exists("prashne:sess:sid-ttl"))
}

func TestSessionStoreDelete(t *testing.T) {
	client, _ := newTestClient(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testSession("sid-del")))
	require.NoError(t, store.Delete(ctx, "sid-del"))

	_, err := store.Get(ctx, "sid-del")
	assert.ErrorIs(t, err, ErrNotFound)

	// Idempotent
	assert.NoError(t, store.Delete(ctx, "sid-del"))
	assert.NoError(t, store.Delete(ctx, ""))
}

func TestCredentialRecordsRoundTrip(t *testing.T) {
	client, _ := newTestClient(t)
	records := NewCredentialRecords(client)
	ctx := context.Background()

	cred := domainauth.Credential{
		AccessToken:  "at-1",
		RefreshToken: "rt-1",
		ExpiresAt:    time.Now().Add(time.Hour).UTC(),
	}
	require.NoError(t, records.SaveCredential(ctx, "sid-1", cred))

	got, found, err := records.GetCredential(ctx, "sid-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "at-1", got.AccessToken)
	assert.Equal(t, "rt-1", got.RefreshToken)
}

func TestCredentialRecordsExpiredAccessTokenStillStored(t *testing.T) {
	client, _ := newTestClient(t)
	records := NewCredentialRecords(client)
	ctx := context.Background()

	// An expired access token with a live refresh token is a valid
	// credential; the store must not drop it.
	cred := domainauth.Credential{
		AccessToken:  "at-stale",
		RefreshToken: "rt-live",
		ExpiresAt:    time.Now().Add(-time.Minute),
	}
	require.NoError(t, records.SaveCredential(ctx, "sid-stale", cred))

	got, found, err := records.GetCredential(ctx, "sid-stale")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "rt-live", got.RefreshToken)
}

func TestCredentialRecordsValidation(t *testing.T) {
	client, _ := newTestClient(t)
	records := NewCredentialRecords(client)
	ctx := context.Background()

	assert.Error(t, records.SaveCredential(ctx, "", domainauth.Credential{AccessToken: "a"}))
	assert.Error(t, records.SaveCredential(ctx, "sid", domainauth.Credential{}))

	_, found, err := records.GetCredential(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, records.DeleteCredential(ctx, ""))
	assert.NoError(t, records.DeleteCredential(ctx, "missing"))
}

func TestCredentialRecordsEncryptedAtRest(t *testing.T) {
	client, mr := newTestClient(t)

	key := bytes.Repeat([]byte{0x42}, 32)
	enc, err := cryptoutil.NewAESGCMEncryptor(key)
	require.NoError(t, err)
	records := NewCredentialRecordsWithEncryptor(client, enc)
	ctx := context.Background()

	cred := domainauth.Credential{
		AccessToken:  "at-secret",
		RefreshToken: "rt-secret",
		ExpiresAt:    time.Now().Add(time.Hour),
	}
	require.NoError(t, records.SaveCredential(ctx, "sid-enc", cred))

	// The raw Redis value must not contain the tokens.
	raw, err := mr.Get("prashne:cred:sid-enc")
	require.NoError(t, err)
	assert.True(t, cryptoutil.IsEncrypted(raw))
	assert.NotContains(t, raw, "at-secret")
	assert.NotContains(t, raw, "rt-secret")

	got, found, err := records.GetCredential(ctx, "sid-enc")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "at-secret", got.AccessToken)
	assert.Equal(t, "rt-secret", got.RefreshToken)
}

func TestCredentialRecordsEncryptorReadsLegacyPlaintext(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	// Written before encryption was enabled.
	plain := NewCredentialRecords(client)
	require.NoError(t, plain.SaveCredential(ctx, "sid-legacy", domainauth.Credential{
		AccessToken:  "at-old",
		RefreshToken: "rt-old",
	}))

	enc, err := cryptoutil.NewAESGCMEncryptor(bytes.Repeat([]byte{0x42}, 32))
	require.NoError(t, err)
	records := NewCredentialRecordsWithEncryptor(client, enc)

	got, found, err := records.GetCredential(ctx, "sid-legacy")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "at-old", got.AccessToken)
}
