package session

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	sessionService "github.com/dentacare-id/backend/internal/service/session"
	"github.com/dentacare-id/backend/pkg/utils"
)

// Handler exposes session lifecycle over HTTP.
type Handler struct {
	sessions *sessionService.Store
}

// New creates the session handler.
func New(sessions *sessionService.Store) *Handler {
	return &Handler{sessions: sessions}
}

// RegisterRoutes wires session routes onto the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/sessions", h.handleCreate)
	r.Get("/sessions/{sessionID}", h.handleGet)
	r.Delete("/sessions/{sessionID}", h.handleClear)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.Create(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"session": sess,
	})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	sess, err := h.sessions.Get(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, sessionService.ErrSessionNotFound) {
			utils.RespondError(w, http.StatusNotFound, "session not found")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "failed to load session")
		return
	}

	transcript, err := h.sessions.Transcript(r.Context(), sessionID)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to load session history")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "success",
		"messages_count": len(transcript),
		"last_activity":  sess.LastActivity,
	})
}

func (h *Handler) handleClear(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	h.sessions.Clear(r.Context(), sessionID)

	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "success"})
}
