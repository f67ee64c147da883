package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atinyakov/go-review-links/internal/models"
	"github.com/atinyakov/go-review-links/internal/storage"
)

type FeedbackService struct {
	repository Storage
	notifier   Notifier
	logger     *zap.Logger
	now        func() time.Time
}

// NewFeedback builds the service. notifier may be nil.
func NewFeedback(repo Storage, notifier Notifier, logger *zap.Logger) *FeedbackService {
	return &FeedbackService{
		repository: repo,
		notifier:   notifier,
		logger:     logger,
		now:        time.Now,
	}
}

// ValidateFeedback checks that every field is present and the rating is
// within 1..5.
func ValidateFeedback(req models.FeedbackRequest) error {
	var missing []string
	if strings.TrimSpace(req.LinkID) == "" {
		missing = append(missing, "linkId")
	}
	if strings.TrimSpace(req.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(req.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(req.Comment) == "" {
		missing = append(missing, "comment")
	}
	if req.Rating == nil {
		missing = append(missing, "rating")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrValidation, strings.Join(missing, ", "))
	}

	if *req.Rating < 1 || *req.Rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}

	return nil
}

// Submit stores feedback posted directly to the API.
func (s *FeedbackService) Submit(ctx context.Context, req models.FeedbackRequest) (*storage.ReviewFeedback, error) {
	return s.submit(ctx, req, req.LinkID)
}

// SubmitForLink stores feedback left on a resolved review page.
func (s *FeedbackService) SubmitForLink(ctx context.Context, link storage.ReviewLink, req models.FeedbackRequest) (*storage.ReviewFeedback, error) {
	req.LinkID = link.ID
	return s.submit(ctx, req, link.BusinessName)
}

func (s *FeedbackService) submit(ctx context.Context, req models.FeedbackRequest, source string) (*storage.ReviewFeedback, error) {
	if err := ValidateFeedback(req); err != nil {
		return nil, err
	}

	f := storage.ReviewFeedback{
		ID:        uuid.NewString(),
		LinkID:    req.LinkID,
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		Comment:   req.Comment,
		Rating:    *req.Rating,
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
	}

	created, err := s.repository.CreateFeedback(ctx, f)
	if err != nil {
		s.logger.Error("failed to store feedback", zap.String("linkId", f.LinkID), zap.Error(err))
	}

	s.notify(f, source)

	return created, err
}

// notify runs after the authoritative write whatever its outcome.
func (s *FeedbackService) notify(f storage.ReviewFeedback, source string) {
	if s.notifier == nil {
		return
	}

	if !s.notifier.Enqueue(models.FeedbackNotification{
		Source:  source,
		LinkID:  f.LinkID,
		Rating:  f.Rating,
		Name:    f.Name,
		Email:   f.Email,
		Message: f.Comment,
	}) {
		s.logger.Warn("feedback notification dropped", zap.String("linkId", f.LinkID))
	}
}
