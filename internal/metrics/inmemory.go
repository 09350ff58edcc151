package metrics

import (
	"sync"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	Created       map[string]uint64
	Updated       map[string]uint64
	Deleted       map[string]uint64
	CacheHits     map[string]uint64
	CacheMisses   map[string]uint64
	LoginSuccess  uint64
	LoginFailure  uint64
	Requests      uint64
	RequestsTotal time.Duration
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	mu sync.Mutex
	s  Snapshot
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{s: Snapshot{
		Created:     make(map[string]uint64),
		Updated:     make(map[string]uint64),
		Deleted:     make(map[string]uint64),
		CacheHits:   make(map[string]uint64),
		CacheMisses: make(map[string]uint64),
	}}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := m.s
	out.Created = copyCounts(m.s.Created)
	out.Updated = copyCounts(m.s.Updated)
	out.Deleted = copyCounts(m.s.Deleted)
	out.CacheHits = copyCounts(m.s.CacheHits)
	out.CacheMisses = copyCounts(m.s.CacheMisses)
	return out
}

func copyCounts(in map[string]uint64) map[string]uint64 {
	out := make(map[string]uint64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (m *InMemoryRecorder) inc(counts map[string]uint64, entity string) {
	m.mu.Lock()
	counts[entity]++
	m.mu.Unlock()
}

// IncRecordCreated increments the created counter for entity.
func (m *InMemoryRecorder) IncRecordCreated(entity string) { m.inc(m.s.Created, entity) }

// IncRecordUpdated increments the updated counter for entity.
func (m *InMemoryRecorder) IncRecordUpdated(entity string) { m.inc(m.s.Updated, entity) }

// IncRecordDeleted increments the deleted counter for entity.
func (m *InMemoryRecorder) IncRecordDeleted(entity string) { m.inc(m.s.Deleted, entity) }

// IncCacheHit increments the cache hit counter.
func (m *InMemoryRecorder) IncCacheHit(entity string) { m.inc(m.s.CacheHits, entity) }

// IncCacheMiss increments the cache miss counter.
func (m *InMemoryRecorder) IncCacheMiss(entity string) { m.inc(m.s.CacheMisses, entity) }

// IncLoginAttempt counts a login by outcome.
func (m *InMemoryRecorder) IncLoginAttempt(success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if success {
		m.s.LoginSuccess++
	} else {
		m.s.LoginFailure++
	}
}

// ObserveRequest records one served request.
func (m *InMemoryRecorder) ObserveRequest(method, route string, status int, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s.Requests++
	m.s.RequestsTotal += duration
}
