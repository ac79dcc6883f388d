// Package health owns the availability signal for the analysis backend. The
// signal only moves on explicit probes; chat failures never touch it.
package health

import (
	"context"
	"sync"

	"github.com/dentacare-id/backend/internal/model/diag"
	"github.com/dentacare-id/backend/internal/upstream"
	"github.com/dentacare-id/backend/pkg/logger"
)

// Monitor probes the backend's liveness endpoint on demand and remembers the
// last verdict.
type Monitor struct {
	client *upstream.Client

	mu    sync.RWMutex
	state diag.Availability
	last  diag.HealthStatus
}

// NewMonitor builds a monitor in the "checking" state; no probe has run yet.
func NewMonitor(client *upstream.Client) *Monitor {
	return &Monitor{
		client: client,
		state:  diag.AvailabilityChecking,
	}
}

// Probe performs one synchronous liveness round trip and updates the
// availability state. Transport errors, non-success statuses, and unhealthy
// payloads all map uniformly to unavailable.
func (m *Monitor) Probe(ctx context.Context) diag.HealthStatus {
	m.setState(diag.AvailabilityChecking)

	resp, err := m.client.Health(ctx)
	if err != nil {
		logger.Warnf("[health] probe failed: %v", err)
		status := diag.HealthStatus{Available: false, Dependencies: map[string]bool{}}
		m.record(status, diag.AvailabilityOffline)
		return status
	}

	status := diag.HealthStatus{
		Available:    true,
		Dependencies: resp.Dependencies,
		Version:      resp.Version,
		Uptime:       resp.Uptime,
	}
	if status.Dependencies == nil {
		status.Dependencies = map[string]bool{}
	}
	m.record(status, diag.AvailabilityOnline)
	logger.Debugf("[health] probe ok, backend version=%s", resp.Version)
	return status
}

// Availability returns the verdict of the most recent probe, or "checking"
// before the first probe completes.
func (m *Monitor) Availability() diag.Availability {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Last returns the most recent probe result.
func (m *Monitor) Last() diag.HealthStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.last
}

func (m *Monitor) setState(state diag.Availability) {
	m.mu.Lock()
	m.state = state
	m.mu.Unlock()
}

func (m *Monitor) record(status diag.HealthStatus, state diag.Availability) {
	m.mu.Lock()
	m.last = status
	m.state = state
	m.mu.Unlock()
}
