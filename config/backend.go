package config

import "time"

// BackendConfig contains the core API client configuration.
type BackendConfig struct {
	// BaseURL is the base URL of the Prashne core API.
	BaseURL string `env:"PRASHNE_API_URL" envDefault:"http://localhost:8000"`

	// Timeout is the per-request timeout for core API calls.
	Timeout time.Duration `env:"PRASHNE_API_TIMEOUT" envDefault:"30s"`

	// UserAgent identifies the gateway in core API request logs.
	UserAgent string `env:"PRASHNE_API_USER_AGENT" envDefault:"prashne-ui-api"`
}

// Sanitize applies guardrails to backend configuration values.
func (b *BackendConfig) Sanitize() {
	if b.Timeout < time.Second {
		b.Timeout = time.Second
	}
	if b.Timeout > 5*time.Minute {
		b.Timeout = 5 * time.Minute
	}
}
