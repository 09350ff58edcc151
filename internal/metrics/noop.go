package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

func (n *NoopRecorder) IncRecordCreated(entity string) {}

func (n *NoopRecorder) IncRecordUpdated(entity string) {}

func (n *NoopRecorder) IncRecordDeleted(entity string) {}

func (n *NoopRecorder) IncCacheHit(entity string) {}

func (n *NoopRecorder) IncCacheMiss(entity string) {}

func (n *NoopRecorder) IncLoginAttempt(success bool) {}

func (n *NoopRecorder) ObserveRequest(method, route string, status int, duration time.Duration) {}
