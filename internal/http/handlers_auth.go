package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/ujwal209/prashne-ui-api/internal/errors"
	"github.com/ujwal209/prashne-ui-api/internal/routing"
	"github.com/ujwal209/prashne-ui-api/internal/service"
	"github.com/ujwal209/prashne-ui-api/internal/session"
)

// AuthHandlers provides HTTP handlers for sign-in, sign-out, and session
// status.
type AuthHandlers struct {
	Svc          *service.AuthService
	CookieDomain string
	Logger       *slog.Logger

	validate *validator.Validate
}

// NewAuthHandlers constructs AuthHandlers with a shared validator.
func NewAuthHandlers(svc *service.AuthService, cookieDomain string, logger *slog.Logger) *AuthHandlers {
	return &AuthHandlers{
		Svc:          svc,
		CookieDomain: cookieDomain,
		Logger:       logger,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// SignIn handles the credential sign-in endpoint.
// POST /auth/login.
func (h *AuthHandlers) SignIn(w http.ResponseWriter, r *http.Request) {
	var input service.PasswordSignInInput
	if !DecodeJSON(w, r, &input) {
		return
	}
	if err := h.validate.Struct(input); err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: string(apperrors.ErrCodeValidation),
			Err:     errors.New("email and password are required"),
		})
		return
	}
	input.RemoteAddr = clientAddr(r)

	result, err := h.Svc.PasswordSignIn(r.Context(), input)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	h.setSessionCookie(w, r, result.Session.ID, result.Session.ExpiresAt)

	landing := result.Landing
	if target := routing.ReturnTarget(r.URL.Query()); target != "" {
		landing = target
	}
	WriteJSON(w, http.StatusOK, signInAnswer(result, landing))
}

// signInAnswer shapes the sign-in JSON payload for the browser.
func signInAnswer(result service.SignInResult, landing string) map[string]any {
	return map[string]any{
		"user": map[string]any{
			"id":           result.Session.UserID,
			"email":        result.Session.Email,
			"display_name": result.Session.DisplayName,
			"role":         result.Session.Role,
		},
		"landing": landing,
	}
}

// BeginSSO handles SSO initiation.
// GET /auth/sso/login?redirect_uri=<optional_redirect>.
func (h *AuthHandlers) BeginSSO(w http.ResponseWriter, r *http.Request) {
	redirectURI := routing.ReturnTarget(r.URL.Query())
	if redirectURI == "" {
		redirectURI = "/"
	}

	callbackURL := requestScheme(r) + "://" + r.Host + "/auth/callback"
	result, err := h.Svc.BeginSSO(r.Context(), callbackURL)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	// Store state, nonce, and the original redirect URI in secure cookies
	h.setOAuthCookies(w, r, oauthCookieParams{State: result.State, Nonce: result.Nonce, RedirectURI: redirectURI})

	http.Redirect(w, r, result.AuthURL, http.StatusFound)
}

// Callback handles the SSO callback endpoint.
// GET /auth/callback?code=<code>&state=<state>.
func (h *AuthHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_code",
			Err:     errors.New("authorization code is required"),
		})
		return
	}
	if state == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_state",
			Err:     errors.New("state parameter is required"),
		})
		return
	}

	// Verify state and read nonce
	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value != state {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_state",
			Err:     errors.New("invalid or missing state parameter"),
		})
		return
	}
	nonceCookie, err := r.Cookie("oauth_nonce")
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_nonce",
			Err:     errors.New("missing nonce parameter"),
		})
		return
	}

	result, err := h.Svc.CompleteSSO(r.Context(), service.CompleteSSOInput{
		Code:       code,
		State:      state,
		Nonce:      nonceCookie.Value,
		RemoteAddr: clientAddr(r),
	})
	if err != nil {
		WriteAppError(w, err)
		return
	}

	h.setSessionCookie(w, r, result.Session.ID, result.Session.ExpiresAt)
	h.clearCookie(w, r, "oauth_state")
	h.clearCookie(w, r, "oauth_nonce")

	redirectURI := h.postLoginRedirect(w, r, result.Landing)
	http.Redirect(w, r, redirectURI, http.StatusFound)
}

// SignOut handles the sign-out endpoint.
// POST /auth/logout.
func (h *AuthHandlers) SignOut(w http.ResponseWriter, r *http.Request) {
	sc := GetSessionContext(r.Context())
	if sc.Authenticated() {
		if err := h.Svc.SignOut(r.Context(), sc.Session, clientAddr(r)); err != nil {
			h.logger().WarnContext(r.Context(), "sign-out failed", "error", err)
		}
	}

	// Clear session cookie on the client regardless
	h.clearCookie(w, r, SessionCookieName)

	if IsBrowserRequest(r) {
		http.Redirect(w, r, routing.LoginRoute, http.StatusSeeOther)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"status":      "success",
		"redirect_to": routing.LoginRoute,
	})
}

// Status returns the current authentication state.
// GET /api/session.
//
// The answer distinguishes three states: while the gateway is still warming
// up the endpoint answers 503 with Retry-After, so the browser keeps its
// current view instead of treating the boot race as a sign-out.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	sc := GetSessionContext(r.Context())
	switch sc.Status {
	case session.StatusUnknown:
		writeSessionPending(w)
	case session.StatusAuthenticated:
		WriteJSON(w, http.StatusOK, map[string]any{
			"authenticated": true,
			"user": map[string]any{
				"id":           sc.Session.UserID,
				"email":        sc.Session.Email,
				"display_name": sc.Session.DisplayName,
				"role":         sc.Session.Role,
			},
			"landing":    routing.LandingRouteFor(sc.Session.Role),
			"expires_at": sc.Session.ExpiresAt,
		})
	default:
		WriteJSON(w, http.StatusOK, map[string]any{
			"authenticated": false,
		})
	}
}

// clearCookie clears a cookie by setting it to expire immediately.
// It mirrors key attributes (Secure, Path, Domain, SameSite) used when setting cookies
// to maximize compatibility across browsers during deletion.
func (h *AuthHandlers) clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}

// oauthCookieParams groups the values stored across the SSO round trip.
type oauthCookieParams struct {
	State       string
	Nonce       string
	RedirectURI string
}

// setOAuthCookies stores OAuth state, nonce, and the post-login redirect in secure cookies.
func (h *AuthHandlers) setOAuthCookies(w http.ResponseWriter, r *http.Request, p oauthCookieParams) {
	isSecure := isSecureRequest(r)
	for name, value := range map[string]string{
		"oauth_state":         p.State,
		"oauth_nonce":         p.Nonce,
		"post_login_redirect": p.RedirectURI,
	} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    value,
			Path:     "/",
			Domain:   h.CookieDomain,
			HttpOnly: true,
			Secure:   isSecure,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   600, // 10 minutes
		})
	}
}

// setSessionCookie writes the session cookie based on the session's expiry.
func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, r *http.Request, sessionID string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sessionID,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
	})
}

// postLoginRedirect returns the post-login redirect URL and clears the cookie.
// Falls back to the role landing when the cookie is absent or unsafe.
func (h *AuthHandlers) postLoginRedirect(w http.ResponseWriter, r *http.Request, landing string) string {
	redirectURI := landing
	if redirectCookie, err := r.Cookie("post_login_redirect"); err == nil {
		if target := redirectCookie.Value; routing.ValidReturnTarget(target) {
			redirectURI = target
		}
		h.clearCookie(w, r, "post_login_redirect")
	}
	return redirectURI
}

func isSecureRequest(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

func requestScheme(r *http.Request) string {
	if isSecureRequest(r) {
		return "https"
	}
	return "http"
}

// clientAddr returns the client address for the audit trail, honoring the
// standard proxy header.
func clientAddr(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if idx := strings.IndexByte(fwd, ','); idx > 0 {
			return strings.TrimSpace(fwd[:idx])
		}
		return strings.TrimSpace(fwd)
	}
	return r.RemoteAddr
}
