package server

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"
)

// Health status constants for health check responses.
const (
	healthStatusOK           = "ok"
	healthStatusNotReady     = "not ready"
	healthStatusShuttingDown = "shutting down"
)

// HealthChecker provides liveness and readiness endpoints for the HTTP
// transport.
type HealthChecker struct {
	ready         atomic.Bool
	serverContext *ServerContext
	startTime     time.Time
}

// NewHealthChecker creates a new HealthChecker. The server starts ready.
func NewHealthChecker(sc *ServerContext) *HealthChecker {
	h := &HealthChecker{
		serverContext: sc,
		startTime:     time.Now(),
	}
	h.ready.Store(true)
	return h
}

// SetReady sets the readiness state of the server.
func (h *HealthChecker) SetReady(ready bool) {
	h.ready.Store(ready)
}

// IsReady returns whether the server is ready to receive traffic.
func (h *HealthChecker) IsReady() bool {
	return h.ready.Load()
}

func (h *HealthChecker) isShuttingDown() bool {
	return h.serverContext != nil && h.serverContext.IsShutdown()
}

// HealthResponse represents the JSON response for health endpoints.
type HealthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime,omitempty"`
}

// LivenessHandler responds 200 while the process is running and not
// shutting down.
func (h *HealthChecker) LivenessHandler(w http.ResponseWriter, _ *http.Request) {
	if h.isShuttingDown() {
		writeHealth(w, http.StatusServiceUnavailable, HealthResponse{Status: healthStatusShuttingDown})
		return
	}
	writeHealth(w, http.StatusOK, HealthResponse{
		Status: healthStatusOK,
		Uptime: time.Since(h.startTime).Round(time.Second).String(),
	})
}

// ReadinessHandler responds 200 once the server is ready for traffic.
func (h *HealthChecker) ReadinessHandler(w http.ResponseWriter, _ *http.Request) {
	if h.isShuttingDown() {
		writeHealth(w, http.StatusServiceUnavailable, HealthResponse{Status: healthStatusShuttingDown})
		return
	}
	if !h.IsReady() {
		writeHealth(w, http.StatusServiceUnavailable, HealthResponse{Status: healthStatusNotReady})
		return
	}
	writeHealth(w, http.StatusOK, HealthResponse{Status: healthStatusOK})
}

func writeHealth(w http.ResponseWriter, code int, resp HealthResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}
