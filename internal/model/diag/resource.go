package diag

import "encoding/json"

// Resource references a generated visualization produced by the analysis
// backend, conventionally identified with a "gen_" prefix. Payloads are
// fetched lazily by identifier and not cached here.
type Resource struct {
	ID          string `json:"id"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
}

// ChatResult is the uniform outcome of one chat turn, genuine or degraded.
type ChatResult struct {
	SessionID string          `json:"session_id"`
	Content   string          `json:"content"`
	Analysis  json.RawMessage `json:"analysis,omitempty"`
	Resources []Resource      `json:"resources"`
	Fallback  bool            `json:"fallback_mode"`
	Note      string          `json:"note,omitempty"`
}

// Availability is the tri-state signal that gates client behavior. It is
// derived solely from explicit health probes.
type Availability string

const (
	AvailabilityChecking Availability = "checking"
	AvailabilityOnline   Availability = "online"
	AvailabilityOffline  Availability = "offline"
)

// HealthStatus is the outcome of a single upstream liveness probe.
type HealthStatus struct {
	Available    bool            `json:"available"`
	Dependencies map[string]bool `json:"dependencies"`
	Version      string          `json:"version"`
	Uptime       string          `json:"uptime"`
}
