// Package healthprobe provides liveness and readiness handlers for the
// suite's operational HTTP server.
package healthprobe

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"
)

// HealthChecker provides health and readiness checks. The orchestrator
// marks it ready after startup and stamps it after each completed cycle.
type HealthChecker struct {
	startTime time.Time
	ready     atomic.Bool
	cycles    atomic.Int64
	lastCycle atomic.Int64 // unix nanos of last completed cycle
}

// New creates a HealthChecker.
func New() *HealthChecker {
	return &HealthChecker{
		startTime: time.Now(),
	}
}

// SetReady marks the application as ready to serve traffic.
func (h *HealthChecker) SetReady(ready bool) {
	h.ready.Store(ready)
}

// CycleCompleted records one completed scan cycle.
func (h *HealthChecker) CycleCompleted() {
	h.cycles.Add(1)
	h.lastCycle.Store(time.Now().UnixNano())
}

// HealthResponse is the body of health and readiness responses.
type HealthResponse struct {
	Status    string `json:"status"`
	Uptime    string `json:"uptime"`
	Cycles    int64  `json:"cycles"`
	LastCycle string `json:"last_cycle,omitempty"`
	Message   string `json:"message,omitempty"`
}

func (h *HealthChecker) response(status string) HealthResponse {
	resp := HealthResponse{
		Status: status,
		Uptime: time.Since(h.startTime).String(),
		Cycles: h.cycles.Load(),
	}
	if nanos := h.lastCycle.Load(); nanos > 0 {
		resp.LastCycle = time.Unix(0, nanos).UTC().Format(time.RFC3339)
	}
	return resp
}

// Health returns an HTTP handler for liveness checks. Always 200 while
// the process is running.
func (h *HealthChecker) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(h.response("healthy"))
	}
}

// Ready returns an HTTP handler for readiness checks. 200 when ready,
// 503 while starting up.
func (h *HealthChecker) Ready() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if !h.ready.Load() {
			resp := h.response("not_ready")
			resp.Message = "application is starting"
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(resp)
			return
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(h.response("ready"))
	}
}
