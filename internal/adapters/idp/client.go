package idp

// Package idp is the client for the hosted identity provider that backs
// Prashne's password sign-in. The core backend performs the actual password
// exchange and hands the browser a token pair; this client validates,
// refreshes, and revokes that pair against the provider.

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	domainauth "github.com/ujwal209/prashne-ui-api/internal/domain/auth"
	"golang.org/x/oauth2"
)

// ErrRejected is returned when the provider refuses a token pair (malformed,
// revoked, or belonging to a deleted user). Callers distinguish it from
// transport failures, which are returned verbatim.
var ErrRejected = errors.New("identity provider rejected token pair")

// Config holds configuration for the identity provider client.
type Config struct {
	// BaseURL is the provider's root, e.g. "https://id.prashne.io".
	BaseURL string
	// TokenPath is the refresh-grant endpoint. Defaults to "/auth/v1/token".
	TokenPath string
	// VerifyPath is the endpoint that validates an access token by returning
	// the user it belongs to. Defaults to "/auth/v1/user".
	VerifyPath string
	// RevokePath is the sign-out endpoint. Defaults to "/auth/v1/logout".
	RevokePath string
	// APIKey is the provider project key sent on every request, if any.
	APIKey string
	// HTTPClient overrides the transport. Defaults to a 15s-timeout client.
	HTTPClient *http.Client
}

// Client implements ports.IdentityProvider against an HTTP identity provider.
type Client struct {
	baseURL    string
	verifyURL  string
	revokeURL  string
	apiKey     string
	httpClient *http.Client
	oauthCfg   *oauth2.Config
}

// New creates an identity provider client from Config.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("idp: base URL is required")
	}
	base := strings.TrimSuffix(cfg.BaseURL, "/")

	tokenPath := cfg.TokenPath
	if tokenPath == "" {
		tokenPath = "/auth/v1/token"
	}
	verifyPath := cfg.VerifyPath
	if verifyPath == "" {
		verifyPath = "/auth/v1/user"
	}
	revokePath := cfg.RevokePath
	if revokePath == "" {
		revokePath = "/auth/v1/logout"
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}

	return &Client{
		baseURL:    base,
		verifyURL:  base + verifyPath,
		revokeURL:  base + revokePath,
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
		oauthCfg: &oauth2.Config{
			Endpoint: oauth2.Endpoint{
				TokenURL:  base + tokenPath,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
	}, nil
}

// Validate checks the pair with the provider. A live access token is
// confirmed against the verify endpoint; an expired or refused access token
// falls through to a refresh when a refresh token is present. The returned
// credential may therefore differ from the input.
func (c *Client) Validate(ctx context.Context, cred domainauth.Credential) (domainauth.Credential, error) {
	if cred.AccessToken == "" {
		return domainauth.Credential{}, fmt.Errorf("%w: access token is empty", ErrRejected)
	}

	if !cred.Expired(time.Now()) {
		accepted, err := c.verify(ctx, cred.AccessToken)
		if err != nil {
			return domainauth.Credential{}, err
		}
		if accepted {
			return cred, nil
		}
	}

	if cred.RefreshToken == "" {
		return domainauth.Credential{}, fmt.Errorf("%w: access token not accepted and no refresh token", ErrRejected)
	}
	return c.Refresh(ctx, cred)
}

// Refresh exchanges the refresh token for a fresh pair via the provider's
// refresh grant.
func (c *Client) Refresh(ctx context.Context, cred domainauth.Credential) (domainauth.Credential, error) {
	if cred.RefreshToken == "" {
		return domainauth.Credential{}, fmt.Errorf("%w: refresh token is empty", ErrRejected)
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	// Expiry in the past forces TokenSource to run the refresh grant rather
	// than returning the stale access token.
	stale := &oauth2.Token{
		AccessToken:  cred.AccessToken,
		RefreshToken: cred.RefreshToken,
		Expiry:       time.Now().Add(-time.Minute),
	}

	tok, err := c.oauthCfg.TokenSource(ctx, stale).Token()
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return domainauth.Credential{}, fmt.Errorf("%w: %s", ErrRejected, retrieveErr.ErrorDescription)
		}
		return domainauth.Credential{}, fmt.Errorf("refresh token pair: %w", err)
	}

	refreshToken := tok.RefreshToken
	if refreshToken == "" {
		// Provider rotated nothing; the old refresh token stays live.
		refreshToken = cred.RefreshToken
	}

	return domainauth.Credential{
		AccessToken:  tok.AccessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    tok.Expiry,
	}, nil
}

// Revoke invalidates the pair at the provider. An already-dead token is not
// an error; only transport failures are reported.
func (c *Client) Revoke(ctx context.Context, cred domainauth.Credential) error {
	if cred.AccessToken == "" {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.revokeURL, nil)
	if err != nil {
		return fmt.Errorf("build revoke request: %w", err)
	}
	c.setAuthHeaders(req, cred.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("revoke token pair: %w", err)
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode >= 500 {
		return fmt.Errorf("revoke token pair: provider returned %d", resp.StatusCode)
	}
	return nil
}

// verify asks the provider who the access token belongs to. Returns false
// (not an error) when the provider refuses the token.
func (c *Client) verify(ctx context.Context, accessToken string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.verifyURL, nil)
	if err != nil {
		return false, fmt.Errorf("build verify request: %w", err)
	}
	c.setAuthHeaders(req, accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("verify access token: %w", err)
	}
	defer drainAndClose(resp.Body)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return true, nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return false, nil
	default:
		return false, fmt.Errorf("verify access token: provider returned %d", resp.StatusCode)
	}
}

func (c *Client) setAuthHeaders(req *http.Request, accessToken string) {
	req.Header.Set("Authorization", "Bearer "+accessToken)
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}
}

func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}
