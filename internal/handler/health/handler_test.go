package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	healthService "github.com/dentacare-id/backend/internal/service/health"
	"github.com/dentacare-id/backend/internal/upstream"
)

func setupRouter(t *testing.T, upstreamHandler http.HandlerFunc) *chi.Mux {
	t.Helper()
	server := httptest.NewServer(upstreamHandler)
	t.Cleanup(server.Close)

	client := upstream.NewClient(server.URL, upstream.WithTimeouts(time.Second, time.Second, time.Second))
	monitor := healthService.NewMonitor(client)

	r := chi.NewRouter()
	New(monitor).RegisterRoutes(r)
	return r
}

func TestHealthOnline(t *testing.T) {
	r := setupRouter(t, func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"status":"ok","dependencies":{"detector":true},"version":"2.3.1","uptime":"72h"}`))
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var payload struct {
		Status       string          `json:"status"`
		Dependencies map[string]bool `json:"dependencies"`
		Version      string          `json:"version"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Status != "online" {
		t.Fatalf("expected online, got %q", payload.Status)
	}
	if !payload.Dependencies["detector"] {
		t.Fatalf("unexpected dependencies: %v", payload.Dependencies)
	}
}

func TestHealthOffline(t *testing.T) {
	r := setupRouter(t, func(w http.ResponseWriter, req *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	// The endpoint itself stays 200; the verdict is in the body.
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var payload struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Status != "offline" {
		t.Fatalf("expected offline, got %q", payload.Status)
	}
}
