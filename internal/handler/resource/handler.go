package resource

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	resourceService "github.com/dentacare-id/backend/internal/service/resource"
	"github.com/dentacare-id/backend/pkg/utils"
)

// Handler exposes generated visualization retrieval over HTTP.
type Handler struct {
	retriever *resourceService.Retriever
}

// New creates the resource handler.
func New(retriever *resourceService.Retriever) *Handler {
	return &Handler{retriever: retriever}
}

// RegisterRoutes wires resource routes onto the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/resources/{resourceID}", h.handleFetch)
}

func (h *Handler) handleFetch(w http.ResponseWriter, r *http.Request) {
	resourceID := chi.URLParam(r, "resourceID")
	format := r.URL.Query().Get("format")
	if format == "" {
		format = resourceService.ReprFile
	}

	artifact, err := h.retriever.Fetch(r.Context(), resourceID, format)
	if err != nil {
		var notFound *resourceService.NotFoundError
		switch {
		case errors.As(err, &notFound):
			utils.RespondError(w, http.StatusNotFound, notFound.Error())
		case errors.Is(err, resourceService.ErrUnknownRepresentation):
			utils.RespondError(w, http.StatusBadRequest, "format must be file, base64 or url")
		default:
			utils.RespondError(w, http.StatusBadGateway, "failed to fetch resource")
		}
		return
	}

	switch format {
	case resourceService.ReprFile:
		w.Header().Set("Content-Type", "application/octet-stream")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(artifact.Data)
	case resourceService.ReprBase64:
		utils.RespondJSON(w, http.StatusOK, map[string]string{
			"status": "success",
			"data":   artifact.Base64,
		})
	case resourceService.ReprURL:
		utils.RespondJSON(w, http.StatusOK, map[string]string{
			"status": "success",
			"url":    artifact.URL,
		})
	}
}
