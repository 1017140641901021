package httpx

import (
	"context"

	"github.com/ujwal209/prashne-ui-api/internal/session"
)

// sessionKey is an unexported context key type to avoid collisions across packages.
// Centralized in this file so all handlers/middleware use the same key.
type sessionKey struct{}

// SetSessionContext returns a child context that carries the resolved
// session snapshot for this request.
func SetSessionContext(ctx context.Context, sc session.Context) context.Context {
	return context.WithValue(ctx, sessionKey{}, sc)
}

// GetSessionContext returns the session snapshot from context. A request
// that skipped the session middleware reads as Unknown.
func GetSessionContext(ctx context.Context) session.Context {
	if sc, ok := ctx.Value(sessionKey{}).(session.Context); ok {
		return sc
	}
	return session.Context{Status: session.StatusUnknown}
}
