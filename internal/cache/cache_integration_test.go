//go:build integration

package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adboard/adboard/internal/cache"
	"github.com/adboard/adboard/internal/model"
	"github.com/adboard/adboard/internal/testutil"
)

func newCache(t *testing.T, ttl time.Duration) (context.Context, *cache.Cache) {
	t.Helper()
	ctx := context.Background()

	c, err := cache.New(ctx, testutil.RedisURL(t), ttl)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	require.NoError(t, c.Client().FlushDB(ctx).Err())
	return ctx, c
}

func TestCache_UserRoundTrip(t *testing.T) {
	ctx, c := newCache(t, time.Minute)

	_, gen, err := c.GetUser(ctx, 1)
	assert.True(t, errors.Is(err, cache.ErrCacheMiss))
	assert.Zero(t, gen)

	u := &model.User{
		ID:               1,
		Name:             "alice",
		PasswordHash:     "$2a$10$secret",
		RegistrationTime: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, c.SetUser(ctx, u, gen))

	got, _, err := c.GetUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Name)
	assert.True(t, u.RegistrationTime.Equal(got.RegistrationTime))
	assert.Empty(t, got.PasswordHash, "password hash must not be cached")

	raw, err := c.Client().Get(ctx, "user:1").Result()
	require.NoError(t, err)
	assert.NotContains(t, raw, "secret")

	ttl, err := c.Client().TTL(ctx, "user:1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)

	require.NoError(t, c.DeleteUser(ctx, 1))
	_, _, err = c.GetUser(ctx, 1)
	assert.True(t, errors.Is(err, cache.ErrCacheMiss))
}

func TestCache_AdRoundTrip(t *testing.T) {
	ctx, c := newCache(t, time.Minute)

	ad := &model.Ad{ID: 9, Header: "Bike", Text: "Blue", Price: 100, OwnerID: 1, CreationTime: time.Now().UTC()}
	require.NoError(t, c.SetAd(ctx, ad, 0))

	got, _, err := c.GetAd(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, ad.Header, got.Header)
	assert.Equal(t, ad.Price, got.Price)
	assert.Equal(t, ad.OwnerID, got.OwnerID)

	require.NoError(t, c.DeleteAd(ctx, 9))
	_, _, err = c.GetAd(ctx, 9)
	assert.True(t, errors.Is(err, cache.ErrCacheMiss))
}

func TestCache_CorruptEntryIsMiss(t *testing.T) {
	ctx, c := newCache(t, time.Minute)

	require.NoError(t, c.Client().Set(ctx, "ad:3", "{not json", time.Minute).Err())
	_, _, err := c.GetAd(ctx, 3)
	assert.True(t, errors.Is(err, cache.ErrCacheMiss))

	exists, err := c.Client().Exists(ctx, "ad:3").Result()
	require.NoError(t, err)
	assert.Zero(t, exists)
}

func TestCache_FillAfterInvalidateIsDropped(t *testing.T) {
	ctx, c := newCache(t, time.Minute)

	// A reader misses and goes to the store.
	_, gen, err := c.GetUser(ctx, 5)
	require.True(t, errors.Is(err, cache.ErrCacheMiss))

	// The row is deleted before the reader fills the cache.
	require.NoError(t, c.DeleteUser(ctx, 5))
	require.NoError(t, c.SetUser(ctx, &model.User{ID: 5, Name: "gone"}, gen))

	_, next, err := c.GetUser(ctx, 5)
	assert.True(t, errors.Is(err, cache.ErrCacheMiss), "stale fill must not be stored")
	assert.Greater(t, next, gen)

	genTTL, err := c.Client().TTL(ctx, "user:5:gen").Result()
	require.NoError(t, err)
	assert.Greater(t, genTTL, time.Duration(0))

	// A fill with the current generation is stored.
	require.NoError(t, c.SetUser(ctx, &model.User{ID: 5, Name: "back"}, next))
	got, _, err := c.GetUser(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "back", got.Name)
}

func TestRateLimiter_Burst(t *testing.T) {
	ctx, c := newCache(t, time.Minute)
	limiter := cache.NewRateLimiter(c, 0.01, 3)

	for i := 0; i < 3; i++ {
		allowed, _, err := limiter.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should pass", i)
	}

	allowed, retryAfter, err := limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.GreaterOrEqual(t, retryAfter, time.Second)

	// Another client has its own bucket.
	allowed, _, err = limiter.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, allowed)
}
