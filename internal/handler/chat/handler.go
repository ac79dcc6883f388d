package chat

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dentacare-id/backend/internal/service/orchestrator"
	sessionService "github.com/dentacare-id/backend/internal/service/session"
	"github.com/dentacare-id/backend/pkg/utils"
)

// Handler exposes the diagnostic chat endpoint. Application-level upstream
// failures never produce an HTTP error here; the degraded result comes back
// with fallback_mode set instead.
type Handler struct {
	orch *orchestrator.Service
}

// New creates the chat handler.
func New(orch *orchestrator.Service) *Handler {
	return &Handler{orch: orch}
}

// RegisterRoutes wires chat routes onto the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleSendTurn)
	r.Get("/chat/{sessionID}/messages", h.handleTranscript)
}

func (h *Handler) handleSendTurn(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Message string `json:"message"`
		ImageID string `json:"image_id"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sessionID := r.URL.Query().Get("session_id")

	result, err := h.orch.SendTurn(r.Context(), sessionID, payload.Message, payload.ImageID)
	if err != nil {
		switch {
		case errors.Is(err, orchestrator.ErrEmptyMessage):
			utils.RespondError(w, http.StatusBadRequest, "message is required")
		case errors.Is(err, orchestrator.ErrInvalidImageReference):
			utils.RespondError(w, http.StatusBadRequest, "referenced image does not exist")
		default:
			utils.RespondError(w, http.StatusInternalServerError, "failed to process chat turn")
		}
		return
	}

	response := map[string]interface{}{
		"status": "success",
		"assistant_message": map[string]interface{}{
			"content":   result.Content,
			"type":      "text",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
		"resources":  result.Resources,
		"session_id": result.SessionID,
	}
	if result.Analysis != nil {
		response["analysis"] = result.Analysis
	}
	if result.Fallback {
		response["fallback_mode"] = true
		response["note"] = result.Note
	}

	utils.RespondJSON(w, http.StatusOK, response)
}

func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	messages, err := h.orch.Transcript(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, sessionService.ErrSessionNotFound) {
			utils.RespondError(w, http.StatusNotFound, "session not found")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "failed to load transcript")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "success",
		"messages": messages,
	})
}
