package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/adboard/adboard/internal/model"
)

// Cache key prefixes.
const (
	userKeyPrefix = "user:"
	adKeyPrefix   = "ad:"
)

// generationTTL bounds how long an invalidation counter outlives its record.
// It only has to cover fills that are in flight when a record is invalidated.
const generationTTL = 24 * time.Hour

// Common cache errors.
var (
	ErrCacheMiss = errors.New("cache miss")
)

// Generation is the invalidation counter of one record, observed on a miss.
// A fill carrying a generation older than the current one is dropped, so a
// read that raced an update or delete never repopulates the stale row.
type Generation int64

// storeIfCurrent writes KEYS[1] only while KEYS[2] still holds the generation
// the caller observed before reading the store.
var storeIfCurrent = redis.NewScript(`
local current = redis.call('GET', KEYS[2]) or '0'
if current ~= ARGV[2] then
  return 0
end
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
return 1
`)

// invalidate bumps the generation and drops the record in one step.
var invalidate = redis.NewScript(`
redis.call('INCR', KEYS[2])
redis.call('PEXPIRE', KEYS[2], ARGV[1])
redis.call('DEL', KEYS[1])
return 1
`)

func userKey(id int64) string {
	return userKeyPrefix + strconv.FormatInt(id, 10)
}

func adKey(id int64) string {
	return adKeyPrefix + strconv.FormatInt(id, 10)
}

func generationKey(key string) string {
	return key + ":gen"
}

// GetUser returns the cached user. The password hash is never cached, so the
// returned user has an empty PasswordHash.
// On ErrCacheMiss the Generation must be passed to SetUser.
func (c *Cache) GetUser(ctx context.Context, id int64) (*model.User, Generation, error) {
	var u model.User
	gen, err := c.getJSON(ctx, userKey(id), &u)
	if err != nil {
		return nil, gen, err
	}
	return &u, gen, nil
}

// SetUser stores a user unless it was invalidated after gen was observed.
func (c *Cache) SetUser(ctx context.Context, u *model.User, gen Generation) error {
	return c.setJSON(ctx, userKey(u.ID), u, gen)
}

// DeleteUser invalidates a cached user.
func (c *Cache) DeleteUser(ctx context.Context, id int64) error {
	return c.del(ctx, userKey(id))
}

// GetAd returns the cached ad.
// On ErrCacheMiss the Generation must be passed to SetAd.
func (c *Cache) GetAd(ctx context.Context, id int64) (*model.Ad, Generation, error) {
	var a model.Ad
	gen, err := c.getJSON(ctx, adKey(id), &a)
	if err != nil {
		return nil, gen, err
	}
	return &a, gen, nil
}

// SetAd stores an ad unless it was invalidated after gen was observed.
func (c *Cache) SetAd(ctx context.Context, a *model.Ad, gen Generation) error {
	return c.setJSON(ctx, adKey(a.ID), a, gen)
}

// DeleteAd invalidates a cached ad.
func (c *Cache) DeleteAd(ctx context.Context, id int64) error {
	return c.del(ctx, adKey(id))
}

func (c *Cache) getJSON(ctx context.Context, key string, dst any) (Generation, error) {
	var dataCmd, genCmd *redis.StringCmd
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		dataCmd = pipe.Get(ctx, key)
		genCmd = pipe.Get(ctx, generationKey(key))
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, fmt.Errorf("redis get failed: %w", err)
	}

	gen, err := genCmd.Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, fmt.Errorf("redis get generation failed: %w", err)
	}

	data, err := dataCmd.Bytes()
	if errors.Is(err, redis.Nil) {
		return Generation(gen), ErrCacheMiss
	}
	if err != nil {
		return 0, fmt.Errorf("redis get failed: %w", err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		// Drop the corrupt entry so the next read repopulates it.
		_ = c.client.Del(ctx, key).Err()
		return Generation(gen), ErrCacheMiss
	}
	return Generation(gen), nil
}

func (c *Cache) setJSON(ctx context.Context, key string, v any, gen Generation) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}

	keys := []string{key, generationKey(key)}
	args := []any{data, strconv.FormatInt(int64(gen), 10), c.ttl.Milliseconds()}
	if err := storeIfCurrent.Run(ctx, c.client, keys, args...).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *Cache) del(ctx context.Context, key string) error {
	keys := []string{key, generationKey(key)}
	if err := invalidate.Run(ctx, c.client, keys, generationTTL.Milliseconds()).Err(); err != nil {
		return fmt.Errorf("redis invalidate failed: %w", err)
	}
	return nil
}
