// Package auth verifies site sessions and carries the caller's session through
// the request context.
package auth

import (
	"context"
	"time"
)

// RoleAdmin is the role claim required for every admin page and mutation.
const RoleAdmin = "ADMIN"

// Session is the authenticated caller of a request.
type Session struct {
	UserID    string
	Email     string
	Role      string
	ExpiresAt time.Time
}

// IsAdmin reports whether the session carries the admin role. A nil session is never admin.
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}

type ctxKey struct{}

// WithSession returns a copy of ctx carrying the session.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// SessionFromContext returns the request's session, if one was verified.
func SessionFromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	return s, ok && s != nil
}
