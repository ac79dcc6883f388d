package image

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	imageService "github.com/dentacare-id/backend/internal/service/image"
	"github.com/dentacare-id/backend/pkg/utils"
)

// maxUploadBytes caps a single image upload.
const maxUploadBytes = 10 << 20

// Handler exposes image upload and retrieval over HTTP.
type Handler struct {
	images *imageService.Store
}

// New creates the image handler.
func New(images *imageService.Store) *Handler {
	return &Handler{images: images}
}

// RegisterRoutes wires image routes onto the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/images", h.handleUpload)
	r.Get("/images/{imageID}", h.handleFetch)
}

// handleUpload accepts either a multipart form with an "image" field or a
// raw binary body with the filename in X-Filename.
func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	data, filename, err := readUpload(r)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	img, err := h.images.Upload(r.Context(), data, filename)
	if err != nil {
		if errors.Is(err, imageService.ErrEmptyImage) {
			utils.RespondError(w, http.StatusBadRequest, "image payload is empty")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "failed to store image")
		return
	}

	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":     "success",
		"image":      img,
		"access_url": fmt.Sprintf("/api/images/%s?format=file", img.ID),
	})
}

func (h *Handler) handleFetch(w http.ResponseWriter, r *http.Request) {
	imageID := chi.URLParam(r, "imageID")
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "file"
	}

	switch format {
	case "file":
		img, err := h.images.Fetch(r.Context(), imageID)
		if err != nil {
			respondFetchError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", img.Filename))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(img.Data)

	case "base64":
		encoded, err := h.images.FetchBase64(r.Context(), imageID)
		if err != nil {
			respondFetchError(w, err)
			return
		}
		utils.RespondJSON(w, http.StatusOK, map[string]string{
			"status": "success",
			"data":   encoded,
		})

	default:
		utils.RespondError(w, http.StatusBadRequest, "format must be file or base64")
	}
}

func readUpload(r *http.Request) ([]byte, string, error) {
	// Cap the body itself; ParseMultipartForm's argument only bounds the
	// in-memory spill, not the upload size.
	r.Body = http.MaxBytesReader(nil, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadBytes); err == nil {
		file, header, err := r.FormFile("image")
		if err != nil {
			return nil, "", errors.New("multipart form is missing the image field")
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return nil, "", errors.New("failed to read image payload")
		}
		return data, header.Filename, nil
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, "", errors.New("request body too large or unreadable")
	}
	return data, r.Header.Get("X-Filename"), nil
}

func respondFetchError(w http.ResponseWriter, err error) {
	if errors.Is(err, imageService.ErrImageNotFound) {
		utils.RespondError(w, http.StatusNotFound, "image not found")
		return
	}
	utils.RespondError(w, http.StatusInternalServerError, "failed to load image")
}
