// Package session defines the per-request unit of work used by the handlers.
//
// A Session is opened once per inbound request by the Session middleware and
// released when the response has been written. Handlers never open sessions
// themselves; they receive the request's session through the context.
package session

import (
	"context"

	"github.com/adboard/adboard/internal/model"
)

// Store is the set of persistence operations available inside a session.
// Every mutating call is committed before it returns.
type Store interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id int64) (*model.User, error)
	GetUserByName(ctx context.Context, name string) (*model.User, error)
	UpdateUser(ctx context.Context, user *model.User) error
	DeleteUser(ctx context.Context, id int64) error

	CreateAd(ctx context.Context, ad *model.Ad) error
	GetAd(ctx context.Context, id int64) (*model.Ad, error)
	UpdateAd(ctx context.Context, ad *model.Ad) error
	DeleteAd(ctx context.Context, id int64) error
}

// Session is a Store bound to one request. Close must be called exactly once.
type Session interface {
	Store
	Close()
}

// Opener creates sessions.
type Opener interface {
	Open(ctx context.Context) (Session, error)
}

type contextKey struct{}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session stored in ctx, if any.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(contextKey{}).(Session)
	return s, ok && s != nil
}
