package health_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dentacare-id/backend/internal/model/diag"
	"github.com/dentacare-id/backend/internal/service/health"
	"github.com/dentacare-id/backend/internal/upstream"
)

func newMonitor(t *testing.T, handler http.HandlerFunc) *health.Monitor {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := upstream.NewClient(server.URL, upstream.WithTimeouts(time.Second, time.Second, time.Second))
	return health.NewMonitor(client)
}

func TestMonitorStartsChecking(t *testing.T) {
	monitor := newMonitor(t, func(w http.ResponseWriter, r *http.Request) {})

	if got := monitor.Availability(); got != diag.AvailabilityChecking {
		t.Fatalf("expected checking before the first probe, got %s", got)
	}
}

func TestProbeHealthyBackend(t *testing.T) {
	monitor := newMonitor(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"status":"ok","dependencies":{"detector":true,"llm":true},"version":"2.3.1","uptime":"72h"}`))
	})

	status := monitor.Probe(context.Background())

	if !status.Available {
		t.Fatal("expected available=true")
	}
	if !status.Dependencies["detector"] || !status.Dependencies["llm"] {
		t.Fatalf("unexpected dependencies: %v", status.Dependencies)
	}
	if status.Version != "2.3.1" {
		t.Fatalf("unexpected version: %s", status.Version)
	}
	if monitor.Availability() != diag.AvailabilityOnline {
		t.Fatalf("expected online, got %s", monitor.Availability())
	}
}

func TestProbeServerError(t *testing.T) {
	monitor := newMonitor(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	})

	status := monitor.Probe(context.Background())

	if status.Available {
		t.Fatal("HTTP 500 must yield available=false")
	}
	if monitor.Availability() != diag.AvailabilityOffline {
		t.Fatalf("expected offline, got %s", monitor.Availability())
	}
}

func TestProbeUnhealthyPayload(t *testing.T) {
	monitor := newMonitor(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":false,"status":"degraded"}`))
	})

	if status := monitor.Probe(context.Background()); status.Available {
		t.Fatal("success=false payload must yield available=false")
	}
}

func TestProbeUnreachableBackend(t *testing.T) {
	client := upstream.NewClient("http://127.0.0.1:1", upstream.WithTimeouts(time.Second, 200*time.Millisecond, time.Second))
	monitor := health.NewMonitor(client)

	if status := monitor.Probe(context.Background()); status.Available {
		t.Fatal("unreachable backend must yield available=false")
	}
	if monitor.Availability() != diag.AvailabilityOffline {
		t.Fatalf("expected offline, got %s", monitor.Availability())
	}
}

func TestOfflinePersistsUntilHealthyProbe(t *testing.T) {
	var healthy atomic.Bool
	monitor := newMonitor(t, func(w http.ResponseWriter, r *http.Request) {
		if !healthy.Load() {
			http.Error(w, "down", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"status":"ok"}`))
	})
	ctx := context.Background()

	monitor.Probe(ctx)
	if monitor.Availability() != diag.AvailabilityOffline {
		t.Fatalf("expected offline after failed probe, got %s", monitor.Availability())
	}

	// The signal holds without a new probe.
	if monitor.Availability() != diag.AvailabilityOffline {
		t.Fatal("availability flipped without a probe")
	}

	healthy.Store(true)
	monitor.Probe(ctx)
	if monitor.Availability() != diag.AvailabilityOnline {
		t.Fatalf("expected online after healthy probe, got %s", monitor.Availability())
	}
}
