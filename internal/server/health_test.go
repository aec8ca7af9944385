package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func performHealthCheck(t *testing.T, handler http.HandlerFunc) (int, HealthResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	var resp HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("health response is not valid JSON: %v", err)
	}
	return rec.Code, resp
}

func TestLivenessHandler(t *testing.T) {
	h := NewHealthChecker(nil)

	code, resp := performHealthCheck(t, h.LivenessHandler)
	if code != http.StatusOK {
		t.Errorf("status = %d", code)
	}
	if resp.Status != "ok" {
		t.Errorf("status field = %q", resp.Status)
	}
	if resp.Uptime == "" {
		t.Error("uptime missing from liveness response")
	}
}

func TestReadinessHandler(t *testing.T) {
	h := NewHealthChecker(nil)

	code, resp := performHealthCheck(t, h.ReadinessHandler)
	if code != http.StatusOK || resp.Status != "ok" {
		t.Errorf("response = %d %+v", code, resp)
	}

	h.SetReady(false)
	code, resp = performHealthCheck(t, h.ReadinessHandler)
	if code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503 when not ready", code)
	}
	if resp.Status != "not ready" {
		t.Errorf("status field = %q", resp.Status)
	}

	h.SetReady(true)
	if code, _ = performHealthCheck(t, h.ReadinessHandler); code != http.StatusOK {
		t.Errorf("status = %d after SetReady(true)", code)
	}
}

func TestHealthHandlersDuringShutdown(t *testing.T) {
	sc := NewServerContext(t.Context(), Options{})
	h := NewHealthChecker(sc)

	if err := sc.Shutdown(); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	code, resp := performHealthCheck(t, h.LivenessHandler)
	if code != http.StatusServiceUnavailable || resp.Status != "shutting down" {
		t.Errorf("liveness = %d %+v", code, resp)
	}
	code, resp = performHealthCheck(t, h.ReadinessHandler)
	if code != http.StatusServiceUnavailable || resp.Status != "shutting down" {
		t.Errorf("readiness = %d %+v", code, resp)
	}
}
