package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/atinyakov/go-review-links/internal/models"
	"github.com/atinyakov/go-review-links/internal/review"
)

// ReviewFlow is the public rating page state machine.
type ReviewFlow interface {
	Start(ctx context.Context, slug string) (*review.Outcome, error)
	Rate(ctx context.Context, slug string, rating int) (*review.Outcome, error)
	Submit(ctx context.Context, slug string, form models.ReviewFormRequest) (*review.Outcome, error)
}

type ReviewHandler struct {
	flow   ReviewFlow
	logger *zap.Logger
}

func NewReview(f ReviewFlow, l *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		flow:   f,
		logger: l,
	}
}

func (h *ReviewHandler) Start(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	out, err := h.flow.Start(ctx, chi.URLParam(req, "slug"))
	if err != nil {
		writeServiceError(res, h.logger, err, "Link not found")
		return
	}

	writeJSON(res, http.StatusOK, out)
}

func (h *ReviewHandler) Rate(res http.ResponseWriter, req *http.Request) {
	var request models.RatingRequest
	if err := decodeJSONBody(res, req, &request); err != nil {
		writeDecodeError(res, h.logger, err)
		return
	}

	if request.Rating == nil {
		writeError(res, http.StatusBadRequest, review.ErrInvalidRating.Error())
		return
	}

	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	out, err := h.flow.Rate(ctx, chi.URLParam(req, "slug"), *request.Rating)
	if errors.Is(err, review.ErrInvalidRating) {
		writeError(res, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		writeServiceError(res, h.logger, err, "Link not found")
		return
	}

	writeJSON(res, http.StatusOK, out)
}

// Submit answers with the thanks step even when the feedback could not be
// stored; only missing fields are reported.
func (h *ReviewHandler) Submit(res http.ResponseWriter, req *http.Request) {
	var request models.ReviewFormRequest
	if err := decodeJSONBody(res, req, &request); err != nil {
		writeDecodeError(res, h.logger, err)
		return
	}

	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	out, err := h.flow.Submit(ctx, chi.URLParam(req, "slug"), request)
	if errors.Is(err, review.ErrInvalidRating) {
		writeError(res, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		writeServiceError(res, h.logger, err, "Link not found")
		return
	}

	writeJSON(res, http.StatusOK, out)
}
