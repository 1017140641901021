package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModePassword authenticates email/password pairs against the core API.
	AuthModePassword AuthMode = "password"
	// AuthModeSSO uses OAuth/OIDC single sign-on in addition to passwords.
	AuthModeSSO AuthMode = "sso"
	// AuthModeMock uses mock/dev authentication (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "password", "sso", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: password, sso, mock)", v)
	}
}

// SSOConfig contains OAuth/OIDC configuration.
type SSOConfig struct {
	ClientID     string `env:"CLIENT_ID"     envDefault:"prashne"`
	ClientSecret string `env:"CLIENT_SECRET" envDefault:"prashne"`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/auth/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email groups"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
	LogoutURL    string `env:"LOGOUT_URL"`
}

// DevAuthConfig controls mock/dev authentication identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	UserID      string   `env:"USER_ID"      envDefault:"dev-user"`
	Email       string   `env:"EMAIL"        envDefault:"dev@prashne.io"`
	DisplayName string   `env:"DISPLAY_NAME" envDefault:"Dev User"`
	Groups      []string `env:"GROUPS"       envDefault:"prashne-hr"   envSeparator:";"`
}

// IdPConfig points at the hosted identity provider that issued the token
// pairs handed out by the core API's password sign-in.
type IdPConfig struct {
	// BaseURL is the provider's root, e.g. "https://id.prashne.io".
	// Falls back to the core API base URL when empty.
	BaseURL string `env:"BASE_URL"`

	// APIKey is the provider project key sent on every request, if any.
	APIKey string `env:"API_KEY"`
}

// RoleGroupsConfig maps identity provider groups to application roles.
// A group left empty never matches, so roles can be enabled one at a time.
type RoleGroupsConfig struct {
	SuperAdmin string `env:"SUPER_ADMIN_GROUP"`
	HRAdmin    string `env:"HR_ADMIN_GROUP"   envDefault:"prashne-admins"`
	HRUser     string `env:"HR_USER_GROUP"    envDefault:"prashne-hr"`
	HRStaff    string `env:"HR_STAFF_GROUP"`
	Candidate  string `env:"CANDIDATE_GROUP"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which sign-in flows are available.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"password"`

	// SSO configuration (used when Mode=sso).
	SSO SSOConfig `envPrefix:"SSO_"`

	// IdP is the token provider backing password sign-ins.
	IdP IdPConfig `envPrefix:"IDP_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// Groups maps provider groups to roles for SSO sign-ins.
	Groups RoleGroupsConfig `envPrefix:"AUTH_"`
}

// SessionConfig controls browser session lifetime.
type SessionConfig struct {
	// TTL is the server-side session lifetime. The session cookie expires
	// with it.
	TTL time.Duration `env:"SESSION_TTL" envDefault:"12h"`
}

// Sanitize applies guardrails to session configuration values.
func (s *SessionConfig) Sanitize() {
	if s.TTL < time.Minute {
		s.TTL = time.Minute
	}
}
