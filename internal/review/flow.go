// Package review drives the public rating page of a review link.
//
// A visitor starts at the rating step. Five stars send them to the public
// Google review page; anything lower asks for private feedback first. Both
// paths end at the thanks step.
package review

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/atinyakov/go-review-links/internal/app/service"
	"github.com/atinyakov/go-review-links/internal/models"
	"github.com/atinyakov/go-review-links/internal/storage"
)

// Step is a screen of the review page.
type Step string

const (
	StepRating   Step = "rating"
	StepRedirect Step = "redirect"
	StepFeedback Step = "feedback"
	StepThanks   Step = "thanks"
)

// TopRating is the rating that skips private feedback.
const TopRating = 5

var (
	// ErrInvalidRating is returned for ratings outside 1..5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	// ErrTopRatingFeedback is returned when private feedback carries the top
	// rating, which belongs to the redirect step.
	ErrTopRatingFeedback = fmt.Errorf("%w: private feedback takes ratings 1 to 4", ErrInvalidRating)
)

// Outcome tells the client which step to render next.
type Outcome struct {
	Step         Step   `json:"step"`
	Rating       int    `json:"rating,omitempty"`
	BusinessName string `json:"businessName,omitempty"`
	RedirectURL  string `json:"redirectUrl,omitempty"`
}

// LinkResolver finds links by their public slug.
type LinkResolver interface {
	GetBySlug(context.Context, string) (*storage.ReviewLink, error)
}

type Flow struct {
	links    LinkResolver
	feedback service.FeedbackServiceIface
	logger   *zap.Logger
}

func New(links LinkResolver, feedback service.FeedbackServiceIface, logger *zap.Logger) *Flow {
	return &Flow{
		links:    links,
		feedback: feedback,
		logger:   logger,
	}
}

// Start returns the first step for the link behind slug.
func (f *Flow) Start(ctx context.Context, slug string) (*Outcome, error) {
	link, err := f.links.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	return &Outcome{Step: StepRating, BusinessName: link.BusinessName}, nil
}

// Rate moves past the rating step.
func (f *Flow) Rate(ctx context.Context, slug string, rating int) (*Outcome, error) {
	if rating < 1 || rating > TopRating {
		return nil, ErrInvalidRating
	}

	link, err := f.links.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if rating == TopRating {
		return &Outcome{
			Step:         StepRedirect,
			Rating:       rating,
			BusinessName: link.BusinessName,
			RedirectURL:  link.GmbReviewLink,
		}, nil
	}

	return &Outcome{Step: StepFeedback, Rating: rating, BusinessName: link.BusinessName}, nil
}

// Submit records private feedback. Only missing fields and a top rating are
// reported back; a failed write is logged and the visitor still sees the
// thanks step.
func (f *Flow) Submit(ctx context.Context, slug string, form models.ReviewFormRequest) (*Outcome, error) {
	if form.Rating != nil && *form.Rating == TopRating {
		return nil, ErrTopRatingFeedback
	}

	link, err := f.links.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	req := models.FeedbackRequest{
		LinkID:  link.ID,
		Name:    form.Name,
		Email:   form.Email,
		Comment: form.Comment,
		Rating:  form.Rating,
	}
	if err := service.ValidateFeedback(req); err != nil {
		return nil, fmt.Errorf("review %s: %w", slug, err)
	}

	if _, err := f.feedback.SubmitForLink(ctx, *link, req); err != nil {
		f.logger.Warn("review feedback not stored",
			zap.String("slug", slug),
			zap.String("linkId", link.ID),
			zap.Error(err),
		)
	}

	return &Outcome{Step: StepThanks, BusinessName: link.BusinessName}, nil
}
