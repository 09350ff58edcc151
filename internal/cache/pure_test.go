package cache

import (
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestHashIP_Deterministic(t *testing.T) {
	t.Parallel()

	ip := "192.168.1.100"

	hash1 := hashIP(ip)
	hash2 := hashIP(ip)

	if hash1 != hash2 {
		t.Error("Same IP should produce same hash")
	}
}

func TestHashIP_Length(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ip   string
	}{
		{"IPv4", "192.168.1.1"},
		{"IPv4 localhost", "127.0.0.1"},
		{"IPv6 localhost", "::1"},
		{"IPv6 full", "2001:0db8:85a3:0000:0000:8a2e:0370:7334"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hash := hashIP(tt.ip)
			// hashIP uses first 8 bytes of SHA256, encoded as 16 hex chars
			if len(hash) != 16 {
				t.Errorf("hashIP(%q) length = %d, want 16", tt.ip, len(hash))
			}
		})
	}
}

func TestHashIP_Different(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ip1  string
		ip2  string
	}{
		{"different IPv4", "192.168.1.1", "192.168.1.2"},
		{"different last octet", "10.0.0.1", "10.0.0.2"},
		{"IPv4 vs IPv6", "127.0.0.1", "::1"},
		{"public vs private", "8.8.8.8", "192.168.1.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hash1 := hashIP(tt.ip1)
			hash2 := hashIP(tt.ip2)

			if hash1 == hash2 {
				t.Errorf("Different IPs should produce different hashes: %q and %q both produced %s", tt.ip1, tt.ip2, hash1)
			}
		})
	}
}

func TestRecordKeys(t *testing.T) {
	t.Parallel()

	if got := userKey(42); got != "user:42" {
		t.Errorf("userKey(42) = %q", got)
	}
	if got := adKey(7); got != "ad:7" {
		t.Errorf("adKey(7) = %q", got)
	}
	if got := generationKey(userKey(42)); got != "user:42:gen" {
		t.Errorf("generationKey(user:42) = %q", got)
	}
}

func TestNewFromClient_DefaultTTL(t *testing.T) {
	t.Parallel()

	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer client.Close()

	if c := NewFromClient(client, 0); c.ttl != DefaultTTL {
		t.Errorf("ttl = %v, want %v", c.ttl, DefaultTTL)
	}
	if c := NewFromClient(client, time.Minute); c.ttl != time.Minute {
		t.Errorf("ttl = %v, want 1m", c.ttl)
	}
}

func TestNewRateLimiter_KeyTTL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		rps   float64
		burst int
		want  int
	}{
		{"fast refill keeps minimum", 10, 20, 10},
		{"slow refill extends ttl", 0.5, 20, 41},
		{"zero rate keeps minimum", 0, 5, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			l := NewRateLimiter(nil, tt.rps, tt.burst)
			if l.ttl != tt.want {
				t.Errorf("ttl = %d, want %d", l.ttl, tt.want)
			}
		})
	}
}
