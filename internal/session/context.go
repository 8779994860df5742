package session

import (
	"context"

	"staysync/internal/domain"
)

type contextKey string

const (
	sessionKey  contextKey = "session"
	identityKey contextKey = "identity"
	returnToKey contextKey = "return_to"
)

// FromContext returns the session bound to the request
func FromContext(ctx context.Context) (*domain.Session, bool) {
	s, ok := ctx.Value(sessionKey).(*domain.Session)
	return s, ok
}

// IdentityFromContext returns the authenticated user, if any
func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(identityKey).(domain.Identity)
	return id, ok
}

func WithSession(ctx context.Context, s *domain.Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

func WithIdentity(ctx context.Context, id domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// WithReturnTo exposes the URL a visitor should land on after logging in
func WithReturnTo(ctx context.Context, url string) context.Context {
	return context.WithValue(ctx, returnToKey, url)
}

func ReturnToFromContext(ctx context.Context) string {
	url, _ := ctx.Value(returnToKey).(string)
	return url
}
