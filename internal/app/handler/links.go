package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/atinyakov/go-review-links/internal/app/service"
	"github.com/atinyakov/go-review-links/internal/models"
	"github.com/atinyakov/go-review-links/internal/storage"
)

type LinkHandler struct {
	service service.LinkServiceIface
	logger  *zap.Logger
}

func NewLinks(s service.LinkServiceIface, l *zap.Logger) *LinkHandler {
	return &LinkHandler{
		service: s,
		logger:  l,
	}
}

// List returns every link, newest first.
func (h *LinkHandler) List(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	links, err := h.service.List(ctx)
	if err != nil {
		writeServiceError(res, h.logger, err, "")
		return
	}

	if links == nil {
		links = []storage.ReviewLink{}
	}
	writeJSON(res, http.StatusOK, links)
}

// BySlug resolves a public link.
func (h *LinkHandler) BySlug(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	slug := chi.URLParam(req, "slug")

	link, err := h.service.GetBySlug(ctx, slug)
	if err != nil {
		writeServiceError(res, h.logger, err, "Link not found")
		return
	}

	writeJSON(res, http.StatusOK, link)
}

func (h *LinkHandler) Create(res http.ResponseWriter, req *http.Request) {
	var request models.CreateLinkRequest
	if err := decodeJSONBody(res, req, &request); err != nil {
		writeDecodeError(res, h.logger, err)
		return
	}

	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	link, err := h.service.Create(ctx, request)
	if err != nil {
		writeServiceError(res, h.logger, err, "")
		return
	}

	writeJSON(res, http.StatusCreated, link)
}

// Update patches the link given by the id query parameter. Immutable
// fields in the body are ignored.
func (h *LinkHandler) Update(res http.ResponseWriter, req *http.Request) {
	id := strings.TrimSpace(req.URL.Query().Get("id"))
	if id == "" {
		writeError(res, http.StatusBadRequest, "Link ID is required")
		return
	}

	var request models.UpdateLinkRequest
	if err := decodeJSONBody(res, req, &request); err != nil {
		writeDecodeError(res, h.logger, err)
		return
	}

	patch := storage.LinkPatch{
		BusinessName:       request.BusinessName,
		GmbReviewLink:      request.GmbReviewLink,
		LogoURL:            request.LogoURL,
		BackgroundImageURL: request.BackgroundImageURL,
	}
	if patch.Empty() {
		writeError(res, http.StatusBadRequest, "No fields to update")
		return
	}

	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	ok, err := h.service.Update(ctx, id, patch)
	if err != nil {
		writeServiceError(res, h.logger, err, "Link not found")
		return
	}
	if !ok {
		writeError(res, http.StatusNotFound, "Link not found")
		return
	}

	writeJSON(res, http.StatusOK, models.MessageResponse{Success: true})
}

func (h *LinkHandler) Delete(res http.ResponseWriter, req *http.Request) {
	id := strings.TrimSpace(req.URL.Query().Get("id"))
	if id == "" {
		writeError(res, http.StatusBadRequest, "Link ID is required")
		return
	}

	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	ok, err := h.service.Delete(ctx, id)
	if err != nil {
		writeServiceError(res, h.logger, err, "Link not found")
		return
	}
	if !ok {
		writeError(res, http.StatusNotFound, "Link not found")
		return
	}

	writeJSON(res, http.StatusOK, models.MessageResponse{Message: "Link deleted"})
}

// Ping reports whether the store is reachable.
func (h *LinkHandler) Ping(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	if err := h.service.PingContext(ctx); err != nil {
		h.logger.Error("store unreachable", zap.Error(err))
		writeError(res, http.StatusInternalServerError, "Store unreachable")
		return
	}

	res.WriteHeader(http.StatusOK)
}
