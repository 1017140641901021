package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"

	"github.com/ujwal209/prashne-ui-api/internal/credstore"
	domainauth "github.com/ujwal209/prashne-ui-api/internal/domain/auth"
	"github.com/ujwal209/prashne-ui-api/internal/routing"
	"github.com/ujwal209/prashne-ui-api/internal/session"
)

// SessionCookieName is the browser cookie carrying the session ID.
const SessionCookieName = "prashne_session"

// retryAfterSeconds is advertised when a session cannot be resolved yet.
const retryAfterSeconds = 2

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// SecureHeaders returns a middleware that sets browser security headers.
func SecureHeaders(isDev bool) func(http.Handler) http.Handler {
	sec := secure.New(secure.Options{
		FrameDeny:            true,
		ContentTypeNosniff:   true,
		BrowserXssFilter:     true,
		ReferrerPolicy:       "strict-origin-when-cross-origin",
		SSLRedirect:          false,
		STSSeconds:           31536000,
		STSIncludeSubdomains: true,
		IsDevelopment:        isDev,
	})
	return sec.Handler
}

// SignInRateLimit caps credential-guessing attempts per client IP.
func SignInRateLimit(requests int, window time.Duration) func(http.Handler) http.Handler {
	return httprate.LimitByIP(requests, window)
}

// SessionResolver resolves a browser session. Implemented by session.Manager.
type SessionResolver interface {
	Resolve(ctx context.Context, sessionID string) (session.Context, error)
}

// SessionContext returns a middleware that resolves the session cookie into
// a session snapshot and stores it, plus the session ID for the credential
// store, in the request context. Resolution failures read as Unknown and are
// decided by the guards, never here.
func SessionContext(resolver SessionResolver, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := ""
			if cookie, err := r.Cookie(SessionCookieName); err == nil {
				sessionID = cookie.Value
			}

			sc, err := resolver.Resolve(r.Context(), sessionID)
			if err != nil {
				logger.WarnContext(r.Context(), "session resolve failed",
					"path", r.URL.Path, "error", err)
			}

			ctx := SetSessionContext(r.Context(), sc)
			if sc.Authenticated() {
				ctx = credstore.WithSessionID(ctx, sc.Session.ID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuthenticated returns a middleware that gates a route on a live
// session. An Unknown session answers 503 with Retry-After instead of a
// sign-out: the caller retries, nobody gets bounced by a slow store.
func RequireAuthenticated() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sc := GetSessionContext(r.Context())
			switch sc.Status {
			case session.StatusAuthenticated:
				next.ServeHTTP(w, r)
			case session.StatusUnknown:
				writeSessionPending(w)
			default:
				writeUnauthenticated(w, r)
			}
		})
	}
}

// RequireRole returns a middleware that gates a route on a role. The same
// grant rules apply as in route matching: exact role, super admin anywhere,
// hr admin over the HR staff roles.
func RequireRole(required domainauth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sc := GetSessionContext(r.Context())
			switch sc.Status {
			case session.StatusUnknown:
				writeSessionPending(w)
				return
			case session.StatusUnauthenticated:
				writeUnauthenticated(w, r)
				return
			}

			if !routing.Allowed(sc.Role(), required) {
				if IsBrowserRequest(r) {
					// A signed-in user on the wrong screen goes to their own
					// landing instead of an error page.
					http.Redirect(w, r, routing.LandingRouteFor(sc.Role()), http.StatusSeeOther)
					return
				}
				WriteError(w, ErrorParams{
					Code:    http.StatusForbidden,
					ErrCode: "insufficient_permissions",
					Err:     errors.New("insufficient permissions"),
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeSessionPending(w http.ResponseWriter) {
	w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds))
	WriteError(w, ErrorParams{
		Code:    http.StatusServiceUnavailable,
		ErrCode: "session_pending",
		Err:     errors.New("session state is not ready, retry shortly"),
	})
}

func writeUnauthenticated(w http.ResponseWriter, r *http.Request) {
	if IsBrowserRequest(r) {
		http.Redirect(w, r, routing.LoginRedirect(r.URL.RequestURI()), http.StatusSeeOther)
		return
	}
	WriteError(w, ErrorParams{
		Code:    http.StatusUnauthorized,
		ErrCode: "authentication_required",
		Err:     errors.New("authentication required"),
	})
}

// browserRequestKey is an unexported context key type for browser request detection.
type browserRequestKey struct{}

// BrowserDetection returns a middleware that detects browser requests vs API requests.
// It sets a context value that can be used by downstream handlers to determine
// whether to redirect or answer JSON.
func BrowserDetection() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			isBrowser := isBrowserRequest(r)
			ctx := context.WithValue(r.Context(), browserRequestKey{}, isBrowser)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IsBrowserRequest returns true if the current request is from a browser.
func IsBrowserRequest(r *http.Request) bool {
	if val := r.Context().Value(browserRequestKey{}); val != nil {
		if isBrowser, ok := val.(bool); ok {
			return isBrowser
		}
	}
	// Fallback to direct detection if middleware wasn't used
	return isBrowserRequest(r)
}

// isBrowserRequest determines if a request is from a browser based on:
// 1. Path prefix - API routes start with /api/
// 2. Accept header - browsers typically accept text/html.
func isBrowserRequest(r *http.Request) bool {
	// API routes are explicitly not browser requests
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return false
	}

	accept := r.Header.Get("Accept")
	if accept == "" {
		// No Accept header, assume browser for non-API routes
		return true
	}

	return strings.Contains(accept, "text/html")
}
