// Package api exposes the media pipeline over HTTP for the routing layer.
// Authentication and request validation belong to the caller; the handler
// trusts the owner id it is handed.
package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/tendant/simple-media/pkg/simplemedia"
)

const maxUploadBytes = 512 << 20 // 512 MiB

// Handler handles HTTP requests for media assets
type Handler struct {
	service simplemedia.Service
}

// NewHandler creates a new media handler
func NewHandler(service simplemedia.Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the routes for media assets
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/images", h.UploadImage)
	r.Post("/videos", h.UploadVideo)
	r.Get("/{id}", h.GetAsset)
	r.Delete("/{id}", h.DeleteAsset)

	return r
}

// UploadImage accepts a multipart form with a "file" part and an "owner_id"
// value and runs the synchronous image pipeline.
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	req, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	manifest, err := h.service.UploadImage(r.Context(), simplemedia.UploadImageRequest(req))
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, manifest)
}

// UploadVideo accepts the same form as UploadImage and returns a processing
// manifest once the original is stored.
func (h *Handler) UploadVideo(w http.ResponseWriter, r *http.Request) {
	req, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	manifest, err := h.service.UploadVideo(r.Context(), simplemedia.UploadVideoRequest(req))
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, manifest)
}

// GetAsset returns the manifest for an asset
func (h *Handler) GetAsset(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid asset ID", http.StatusBadRequest)
		return
	}

	manifest, err := h.service.GetAsset(r.Context(), id)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	render.JSON(w, r, manifest)
}

// DeleteAsset deletes an asset and all of its blobs. The caller id comes
// from the X-Owner-ID header set by the auth layer.
func (h *Handler) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid asset ID", http.StatusBadRequest)
		return
	}

	callerID, err := uuid.Parse(r.Header.Get("X-Owner-ID"))
	if err != nil {
		http.Error(w, "missing or invalid X-Owner-ID header", http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteAsset(r.Context(), id, callerID); err != nil {
		h.renderError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// uploadRequest is the common shape of both upload request DTOs.
type uploadRequest struct {
	OwnerID     uuid.UUID
	ContentType string
	FileName    string
	Data        []byte
	Tags        []string
}

func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) (uploadRequest, bool) {
	var req uploadRequest

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return req, false
	}

	ownerID, err := uuid.Parse(r.FormValue("owner_id"))
	if err != nil {
		slog.Error("invalid owner ID", "owner_id", r.FormValue("owner_id"), "error", err)
		http.Error(w, "invalid owner ID", http.StatusBadRequest)
		return req, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file part", http.StatusBadRequest)
		return req, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "failed to read upload", http.StatusBadRequest)
		return req, false
	}

	var tags []string
	if raw := r.FormValue("tags"); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
	}

	req = uploadRequest{
		OwnerID:     ownerID,
		ContentType: header.Header.Get("Content-Type"),
		FileName:    header.Filename,
		Data:        data,
		Tags:        tags,
	}
	return req, true
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, simplemedia.ErrUnsupportedFormat):
		status = http.StatusUnsupportedMediaType
	case errors.Is(err, simplemedia.ErrAssetNotFound):
		status = http.StatusNotFound
	case errors.Is(err, simplemedia.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, simplemedia.ErrEmptyPayload):
		status = http.StatusBadRequest
	default:
		slog.Error("request failed", "error", err)
	}

	render.Status(r, status)
	render.JSON(w, r, map[string]string{"error": err.Error()})
}
