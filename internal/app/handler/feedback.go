package handler

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/go-review-links/internal/app/service"
	"github.com/atinyakov/go-review-links/internal/models"
)

type FeedbackHandler struct {
	service service.FeedbackServiceIface
	logger  *zap.Logger
}

func NewFeedback(s service.FeedbackServiceIface, l *zap.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		service: s,
		logger:  l,
	}
}

func (h *FeedbackHandler) Create(res http.ResponseWriter, req *http.Request) {
	var request models.FeedbackRequest
	if err := decodeJSONBody(res, req, &request); err != nil {
		writeDecodeError(res, h.logger, err)
		return
	}

	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	f, err := h.service.Submit(ctx, request)
	if err != nil {
		writeServiceError(res, h.logger, err, "")
		return
	}

	writeJSON(res, http.StatusCreated, f)
}
