// Package session resolves the signed-in viewer of a request. Sessions are
// created by an external login flow and stored in Redis; this service only
// reads them through a signed cookie.
package session

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// ErrNoSession is returned when a request carries no usable session.
var ErrNoSession = errors.New("no session")

// Session is the authenticated viewer.
type Session struct {
	ID          string
	Address     string
	ProfileID   string
	AccessToken string
	CreatedAt   time.Time
}

// Resolver looks up the session attached to a request.
type Resolver interface {
	Resolve(r *http.Request) (*Session, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(r *http.Request) (*Session, error)

func (f ResolverFunc) Resolve(r *http.Request) (*Session, error) { return f(r) }

type contextKey struct{}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session stored in ctx, if any.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(contextKey{}).(*Session)
	return s, ok && s != nil
}
