package config

import (
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func TestAuthModeUnmarshalText(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    AuthMode
		expectError bool
	}{
		{name: "password", input: "password", expected: AuthModePassword},
		{name: "sso", input: "sso", expected: AuthModeSSO},
		{name: "mock", input: "mock", expected: AuthModeMock},
		{name: "uppercase normalized", input: "SSO", expected: AuthModeSSO},
		{name: "invalid", input: "ldap", expectError: true},
		{name: "empty", input: "", expectError: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var mode AuthMode
			err := mode.UnmarshalText([]byte(tt.input))
			if tt.expectError {
				if err == nil {
					t.Fatalf("expected error for %q, got mode %q", tt.input, mode)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if mode != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, mode)
			}
		})
	}
}

func TestAppConfigDefaults(t *testing.T) {
	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("expected default addr :8080, got %q", cfg.HTTP.Addr)
	}
	if cfg.Auth.Mode != AuthModePassword {
		t.Errorf("expected default auth mode password, got %q", cfg.Auth.Mode)
	}
	if cfg.Backend.BaseURL != "http://localhost:8000" {
		t.Errorf("expected default backend URL, got %q", cfg.Backend.BaseURL)
	}
	if cfg.Session.TTL != 12*time.Hour {
		t.Errorf("expected default session TTL 12h, got %v", cfg.Session.TTL)
	}
	if cfg.Auth.Groups.HRAdmin != "prashne-admins" {
		t.Errorf("expected default HR admin group, got %q", cfg.Auth.Groups.HRAdmin)
	}
}

func TestAppConfigFromEnv(t *testing.T) {
	t.Setenv("AUTH_MODE", "sso")
	t.Setenv("SSO_CLIENT_ID", "gateway")
	t.Setenv("SSO_DISCOVERY_URL", "https://idp.example.com/.well-known/openid-configuration")
	t.Setenv("DB_NAME", "prashne_test")
	t.Setenv("REDIS_URI", "redis.internal:6379")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("PRASHNE_API_URL", "https://core.prashne.io")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	if cfg.Auth.Mode != AuthModeSSO {
		t.Errorf("expected sso mode, got %q", cfg.Auth.Mode)
	}
	if cfg.Auth.SSO.ClientID != "gateway" {
		t.Errorf("expected client ID gateway, got %q", cfg.Auth.SSO.ClientID)
	}
	if cfg.Postgres.Name != "prashne_test" {
		t.Errorf("expected db name prashne_test, got %q", cfg.Postgres.Name)
	}
	if cfg.Redis.URI != "redis.internal:6379" {
		t.Errorf("expected redis URI override, got %q", cfg.Redis.URI)
	}
	if cfg.Session.TTL != 30*time.Minute {
		t.Errorf("expected session TTL 30m, got %v", cfg.Session.TTL)
	}
	if cfg.Backend.BaseURL != "https://core.prashne.io" {
		t.Errorf("expected backend URL override, got %q", cfg.Backend.BaseURL)
	}
}

func TestSanitizeCookieDomain(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: ""},
		{name: "registrable domain", input: "prashne.io", expected: "prashne.io"},
		{name: "subdomain", input: "app.prashne.io", expected: "app.prashne.io"},
		{name: "leading dot stripped", input: ".prashne.io", expected: "prashne.io"},
		{name: "bare TLD dropped", input: "com", expected: ""},
		{name: "multi-label public suffix dropped", input: "co.uk", expected: ""},
		{name: "whitespace trimmed", input: "  prashne.io ", expected: "prashne.io"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeCookieDomain(tt.input); got != tt.expected {
				t.Errorf("sanitizeCookieDomain(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSanitizeClampsBackendTimeout(t *testing.T) {
	cfg := AppConfig{Backend: BackendConfig{Timeout: time.Millisecond}}
	cfg.Sanitize()
	if cfg.Backend.Timeout != time.Second {
		t.Errorf("expected timeout clamped to 1s, got %v", cfg.Backend.Timeout)
	}

	cfg = AppConfig{Backend: BackendConfig{Timeout: time.Hour}}
	cfg.Sanitize()
	if cfg.Backend.Timeout != 5*time.Minute {
		t.Errorf("expected timeout clamped to 5m, got %v", cfg.Backend.Timeout)
	}
}

func TestSanitizeSessionTTLFloor(t *testing.T) {
	cfg := AppConfig{Session: SessionConfig{TTL: time.Second}}
	cfg.Sanitize()
	if cfg.Session.TTL != time.Minute {
		t.Errorf("expected TTL floor of 1m, got %v", cfg.Session.TTL)
	}
}
