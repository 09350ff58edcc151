package handler

import (
	"context"
	"net/http"
	"time"
)

// HealthChecker is a dependency that can report whether it is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	checks  map[string]HealthChecker
	order   []string
	timeout time.Duration
}

// NewHealthHandler creates a HealthHandler for the storage backend and the
// optional cache. A nil checker is reported as "not configured".
func NewHealthHandler(storage, cache HealthChecker) *HealthHandler {
	return &HealthHandler{
		checks: map[string]HealthChecker{
			"storage": storage,
			"redis":   cache,
		},
		order:   []string{"storage", "redis"},
		timeout: 5 * time.Second,
	}
}

// HealthResponse is the body of both probes.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Healthz reports that the process is serving. It checks no dependencies.
//
// GET /healthz
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, HealthResponse{Status: "ok"})
}

// Readyz pings every configured dependency and returns 503 if any fails.
//
// GET /readyz
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	checks := make(map[string]string, len(h.order))
	healthy := true

	for _, name := range h.order {
		checker := h.checks[name]
		if checker == nil {
			checks[name] = "not configured"
			continue
		}
		if err := checker.Ping(ctx); err != nil {
			checks[name] = "error: " + err.Error()
			healthy = false
			continue
		}
		checks[name] = "ok"
	}

	if !healthy {
		respond(w, r, http.StatusServiceUnavailable, HealthResponse{Status: "unhealthy", Checks: checks})
		return
	}
	respond(w, r, http.StatusOK, HealthResponse{Status: "ok", Checks: checks})
}
