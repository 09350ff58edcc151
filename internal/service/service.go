// Package service provides business logic for the application.
//
// Services are stateless with respect to persistence: every operation receives
// the request's session.Store explicitly, so one service value is shared by all
// requests while each request keeps its own session.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/adboard/adboard/internal/cache"
	"github.com/adboard/adboard/internal/model"
)

// Service errors.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrUserHasAds         = errors.New("user has ads")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAdNotFound         = errors.New("ad not found")
	ErrAdExists           = errors.New("ads already exists")
	ErrOwnerNotFound      = errors.New("owner not found")
)

// UserCache is the read cache consulted by UserService.
//
// GetUser reports the record's generation alongside ErrCacheMiss. SetUser must
// drop the fill when DeleteUser ran after that generation was observed, so a
// read racing a write never caches the old row.
type UserCache interface {
	GetUser(ctx context.Context, id int64) (*model.User, cache.Generation, error)
	SetUser(ctx context.Context, user *model.User, gen cache.Generation) error
	DeleteUser(ctx context.Context, id int64) error
}

// AdCache is the read cache consulted by AdService.
// It follows the same generation contract as UserCache.
type AdCache interface {
	GetAd(ctx context.Context, id int64) (*model.Ad, cache.Generation, error)
	SetAd(ctx context.Context, ad *model.Ad, gen cache.Generation) error
	DeleteAd(ctx context.Context, id int64) error
}

// errNoCache is returned by noopCache on every read.
var errNoCache = errors.New("cache disabled")

// noopCache is used when no Redis is configured.
type noopCache struct{}

func (noopCache) GetUser(context.Context, int64) (*model.User, cache.Generation, error) {
	return nil, 0, errNoCache
}
func (noopCache) SetUser(context.Context, *model.User, cache.Generation) error { return nil }
func (noopCache) DeleteUser(context.Context, int64) error                      { return nil }
func (noopCache) GetAd(context.Context, int64) (*model.Ad, cache.Generation, error) {
	return nil, 0, errNoCache
}
func (noopCache) SetAd(context.Context, *model.Ad, cache.Generation) error { return nil }
func (noopCache) DeleteAd(context.Context, int64) error                    { return nil }

func loggerOrDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
