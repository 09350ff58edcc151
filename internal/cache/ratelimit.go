package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// rateLimitIPPrefix is the Redis key prefix for IP rate limits.
	rateLimitIPPrefix = "ratelimit:ip:"
	// rateLimitIPTTL is the TTL for IP rate limit keys.
	rateLimitIPTTL = 10 * time.Second
)

// tokenBucketScript is a Lua script implementing the token bucket algorithm.
// It's atomic and handles token refill and consumption in a single operation.
var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local rate = tonumber(ARGV[1])      -- tokens per second
	local burst = tonumber(ARGV[2])     -- max tokens (bucket capacity)
	local now = tonumber(ARGV[3])       -- current time in seconds
	local ttl = tonumber(ARGV[4])       -- TTL in seconds

	local data = redis.call('HMGET', key, 'tokens', 'last_update')
	local tokens = tonumber(data[1]) or burst
	local last_update = tonumber(data[2]) or now

	local elapsed = math.max(0, now - last_update)
	tokens = math.min(burst, tokens + (elapsed * rate))

	local allowed = 0
	local retry_after = 0

	if tokens >= 1 then
		tokens = tokens - 1
		allowed = 1
	else
		retry_after = math.ceil((1 - tokens) / rate)
	end

	redis.call('HSET', key, 'tokens', tokens, 'last_update', now)
	redis.call('EXPIRE', key, ttl)

	return {allowed, retry_after, math.floor(tokens)}
`)

// RateLimiter is a per-client token bucket stored in Redis, so every API
// instance shares the same budget.
type RateLimiter struct {
	cache *Cache
	rps   float64
	burst int
	ttl   int
}

// NewRateLimiter creates a limiter refilling rps tokens per second up to burst.
func NewRateLimiter(c *Cache, rps float64, burst int) *RateLimiter {
	ttl := int(rateLimitIPTTL.Seconds())
	if rps > 0 {
		// Keep the key alive long enough for a full refill.
		if refill := int(float64(burst)/rps) + 1; refill > ttl {
			ttl = refill
		}
	}
	return &RateLimiter{cache: c, rps: rps, burst: burst, ttl: ttl}
}

// Allow consumes one token for the client identified by ip.
// It reports whether the request may proceed and, if not, how long to wait.
func (l *RateLimiter) Allow(ctx context.Context, ip string) (bool, time.Duration, error) {
	key := rateLimitIPPrefix + hashIP(ip)
	now := time.Now().Unix()

	result, err := tokenBucketScript.Run(ctx, l.cache.client,
		[]string{key},
		l.rps, l.burst, now, l.ttl,
	).Int64Slice()
	if err != nil {
		return true, 0, fmt.Errorf("rate limit script: %w", err)
	}
	if len(result) != 3 {
		return true, 0, fmt.Errorf("rate limit script: unexpected result length %d", len(result))
	}

	allowed := result[0] == 1
	retryAfter := time.Duration(result[1]) * time.Second
	return allowed, retryAfter, nil
}

// hashIP creates a truncated SHA256 hash of an IP address.
// This provides privacy while maintaining uniqueness.
func hashIP(ip string) string {
	hash := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(hash[:8]) // 16 hex chars
}
