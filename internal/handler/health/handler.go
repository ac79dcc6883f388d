package health

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	healthService "github.com/dentacare-id/backend/internal/service/health"
	"github.com/dentacare-id/backend/pkg/utils"
)

// Handler exposes the availability probe. The endpoint always answers 200;
// the body carries the verdict so clients can gate their UI on it.
type Handler struct {
	monitor *healthService.Monitor
}

// New creates the health handler.
func New(monitor *healthService.Monitor) *Handler {
	return &Handler{monitor: monitor}
}

// RegisterRoutes wires the health route onto the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.handleProbe)
}

func (h *Handler) handleProbe(w http.ResponseWriter, r *http.Request) {
	status := h.monitor.Probe(r.Context())

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status":       string(h.monitor.Availability()),
		"dependencies": status.Dependencies,
		"version":      status.Version,
		"uptime":       status.Uptime,
	})
}
