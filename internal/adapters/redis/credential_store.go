package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ujwal209/prashne-ui-api/internal/cryptoutil"
	domainauth "github.com/ujwal209/prashne-ui-api/internal/domain/auth"
)

// CredentialRecords persists token pairs keyed by session ID. It is the
// storage half of the credential store; validation and refresh against the
// identity provider live in internal/credstore, which is this type's only
// writer. Credentials are kept in a separate key space from session records
// so the request pipeline can read a token pair without touching identity
// state.
type CredentialRecords struct {
	client redis.UniversalClient
	prefix string

	// ttl bounds how long a pair may sit in Redis regardless of its access
	// token expiry; the refresh token is what actually keeps a session alive.
	ttl time.Duration

	// enc encrypts token pairs at rest. Nil stores plain JSON.
	enc cryptoutil.Encryptor
}

// NewCredentialRecords creates a credential record store with the default
// key prefix and a 30-day retention bound.
func NewCredentialRecords(client redis.UniversalClient) *CredentialRecords {
	return &CredentialRecords{
		client: client,
		prefix: "prashne:cred:",
		ttl:    30 * 24 * time.Hour,
	}
}

// NewCredentialRecordsWithPrefix creates a credential record store with a
// custom key prefix. Retention stays at the default bound.
func NewCredentialRecordsWithPrefix(client redis.UniversalClient, prefix string) *CredentialRecords {
	cr := NewCredentialRecords(client)
	cr.prefix = prefix
	return cr
}

// NewCredentialRecordsWithEncryptor creates a credential record store that
// encrypts token pairs before they reach Redis. Records written before
// encryption was enabled still read back as plain JSON.
func NewCredentialRecordsWithEncryptor(client redis.UniversalClient, enc cryptoutil.Encryptor) *CredentialRecords {
	cr := NewCredentialRecords(client)
	cr.enc = enc
	return cr
}

// SaveCredential persists the pair for a session. The access token's own
// expiry does not shorten the record's life: an expired access token with a
// live refresh token is still a valid credential.
func (c *CredentialRecords) SaveCredential(ctx context.Context, sessionID string, cred domainauth.Credential) error {
	if sessionID == "" {
		return errors.New("session ID cannot be empty")
	}
	if cred.IsZero() {
		return errors.New("credential cannot be empty")
	}

	data, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("marshal credential: %w", err)
	}

	payload := string(data)
	if c.enc != nil {
		payload, err = c.enc.Encrypt(data)
		if err != nil {
			return fmt.Errorf("encrypt credential: %w", err)
		}
	}

	return c.client.Set(ctx, c.prefix+sessionID, payload, c.ttl).Err()
}

// GetCredential returns the stored pair for a session. found is false when
// no pair exists; err reports storage failures only.
func (c *CredentialRecords) GetCredential(ctx context.Context, sessionID string) (domainauth.Credential, bool, error) {
	if sessionID == "" {
		return domainauth.Credential{}, false, nil
	}

	data, err := c.client.Get(ctx, c.prefix+sessionID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.Credential{}, false, nil
		}
		return domainauth.Credential{}, false, fmt.Errorf("redis get credential: %w", err)
	}

	raw := []byte(data)
	if c.enc != nil && cryptoutil.IsEncrypted(data) {
		raw, err = c.enc.Decrypt(data)
		if err != nil {
			return domainauth.Credential{}, false, fmt.Errorf("decrypt credential: %w", err)
		}
	}

	var cred domainauth.Credential
	if unmarshalErr := json.Unmarshal(raw, &cred); unmarshalErr != nil {
		return domainauth.Credential{}, false, fmt.Errorf("unmarshal credential: %w", unmarshalErr)
	}

	return cred, true, nil
}

// DeleteCredential removes the pair for a session. Deleting an absent pair
// is a no-op.
func (c *CredentialRecords) DeleteCredential(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return c.client.Del(ctx, c.prefix+sessionID).Err()
}
