// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Entity labels.
const (
	EntityUser = "user"
	EntityAd   = "ad"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus or keep them in memory.
type Recorder interface {
	// Record lifecycle metrics, labelled by entity
	IncRecordCreated(entity string)
	IncRecordUpdated(entity string)
	IncRecordDeleted(entity string)

	// Read cache metrics
	IncCacheHit(entity string)
	IncCacheMiss(entity string)

	// Authentication
	IncLoginAttempt(success bool)

	// HTTP metrics
	ObserveRequest(method, route string, status int, duration time.Duration)
}
