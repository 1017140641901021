// Package apiclient is the gateway's outbound request pipeline to the Prashne
// core API. Every call resolves the caller's credential from the request
// context at send time, so a pair rotated by a concurrent refresh is picked up
// by the very next call without any client-side caching.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"

	apperrors "github.com/ujwal209/prashne-ui-api/internal/errors"
	"github.com/ujwal209/prashne-ui-api/internal/ports"
)

const maxErrorBodyBytes = 8 * 1024

// detailExpressions probe known backend error shapes in order. The core API
// answers with a FastAPI-style {"detail": ...}; the older admin surface nests
// the message one level down.
var detailExpressions = []string{"detail", "error.message", "message"}

// APIError is a non-2xx answer from the core API.
type APIError struct {
	Status int
	Detail string
	Body   []byte
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("core api: %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("core api: %d", e.Status)
}

// UnauthorizedObserver is invoked whenever the core API answers 401. The
// default observer only logs; session teardown is owned by the caller that
// registers a real one.
type UnauthorizedObserver func(ctx context.Context, method, path string)

// Options configures a Client.
type Options struct {
	BaseURL        string
	HTTPClient     *http.Client
	Credentials    ports.CredentialReader
	Logger         *slog.Logger
	OnUnauthorized UnauthorizedObserver
	UserAgent      string
}

// Client talks to the core API on behalf of a browser session.
type Client struct {
	base           *url.URL
	http           *http.Client
	creds          ports.CredentialReader
	logger         *slog.Logger
	onUnauthorized UnauthorizedObserver
	userAgent      string
}

// New validates options and builds a Client.
func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base URL %q must be absolute", opts.BaseURL)
	}
	if opts.Credentials == nil {
		return nil, fmt.Errorf("credential reader is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "apiclient")

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	c := &Client{
		base:           base,
		http:           httpClient,
		creds:          opts.Credentials,
		logger:         logger,
		onUnauthorized: opts.OnUnauthorized,
		userAgent:      opts.UserAgent,
	}
	if c.userAgent == "" {
		c.userAgent = "prashne-ui-api"
	}
	if c.onUnauthorized == nil {
		c.onUnauthorized = func(ctx context.Context, method, path string) {
			logger.WarnContext(ctx, "core api rejected credential", "method", method, "path", path)
		}
	}
	return c, nil
}

// Get performs a GET and decodes the JSON answer into out (out may be nil).
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, query, nil, out)
}

// Post sends body as JSON and decodes the answer into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, nil, body, out)
}

// Put sends body as JSON and decodes the answer into out.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPut, path, nil, body, out)
}

// Patch sends body as JSON and decodes the answer into out.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPatch, path, nil, body, out)
}

// Delete performs a DELETE, ignoring any answer body.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	contentType := ""
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeInternal, "encode request body")
		}
		reader = bytes.NewReader(buf)
		contentType = "application/json"
	}

	resp, err := c.Do(ctx, method, path, query, reader, contentType)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "decode core api answer")
	}
	return nil
}

// Do sends a request and returns the raw response for 2xx answers; the caller
// owns resp.Body. Non-2xx answers are consumed and returned as an error. This
// is the passthrough used for multipart uploads and file downloads.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path, query), body)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "build core api request")
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	// The credential is read at send time, never captured at client build
	// time. Exactly one Authorization header is ever set.
	cred, ok, err := c.creds.Current(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "resolve credential")
	}
	if ok && cred.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+cred.AccessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeUnavailable, "core api unreachable")
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	apiErr := &APIError{Status: resp.StatusCode, Detail: extractDetail(raw), Body: raw}

	if resp.StatusCode == http.StatusUnauthorized {
		c.onUnauthorized(ctx, method, path)
	}

	return nil, mapStatus(apiErr)
}

// resolve joins path (and query) onto the base URL, preserving any base path
// prefix such as /api/v1.
func (c *Client) resolve(path string, query url.Values) string {
	ref := *c.base
	escaped := strings.TrimRight(ref.EscapedPath(), "/") + "/" + strings.TrimLeft(path, "/")
	// Keep caller-escaped segments intact instead of re-encoding them.
	if parsed, err := url.Parse(escaped); err == nil {
		ref.Path = parsed.Path
		ref.RawPath = parsed.RawPath
	} else {
		ref.Path = escaped
	}
	if len(query) > 0 {
		ref.RawQuery = query.Encode()
	}
	return ref.String()
}

// extractDetail probes the error body for a human-readable message. Backends
// disagree on the field name, so a few known shapes are tried in order.
func extractDetail(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return ""
	}
	for _, expr := range detailExpressions {
		result, err := jmespath.Search(expr, data)
		if err != nil {
			continue
		}
		if s, ok := result.(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func mapStatus(apiErr *APIError) error {
	msg := apiErr.Detail
	switch apiErr.Status {
	case http.StatusUnauthorized:
		if msg == "" {
			msg = "authentication required"
		}
		return &apperrors.AppError{Code: apperrors.ErrCodeUnauthorized, Message: msg, Cause: apiErr}
	case http.StatusForbidden:
		if msg == "" {
			msg = "access denied"
		}
		return &apperrors.AppError{Code: apperrors.ErrCodeForbidden, Message: msg, Cause: apiErr}
	case http.StatusNotFound:
		if msg == "" {
			msg = "not found"
		}
		return &apperrors.AppError{Code: apperrors.ErrCodeNotFound, Message: msg, Cause: apiErr}
	case http.StatusConflict:
		if msg == "" {
			msg = "conflict"
		}
		return &apperrors.AppError{Code: apperrors.ErrCodeConflict, Message: msg, Cause: apiErr}
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		if msg == "" {
			msg = "invalid request"
		}
		return &apperrors.AppError{Code: apperrors.ErrCodeValidation, Message: msg, Cause: apiErr}
	default:
		if msg == "" {
			msg = "core api error"
		}
		if apiErr.Status >= 500 {
			return &apperrors.AppError{Code: apperrors.ErrCodeUnavailable, Message: msg, Cause: apiErr}
		}
		return &apperrors.AppError{Code: apperrors.ErrCodeInternal, Message: msg, Cause: apiErr}
	}
}
