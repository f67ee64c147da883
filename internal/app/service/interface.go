//go:generate mockgen -destination=../../mocks/service_mock.go -package=mocks github.com/atinyakov/go-review-links/internal/app/service LinkServiceIface,FeedbackServiceIface,AuthIface

package service

import (
	"context"
	"errors"

	"github.com/atinyakov/go-review-links/internal/models"
	"github.com/atinyakov/go-review-links/internal/storage"
)

// ErrValidation marks user-correctable input problems.
var ErrValidation = errors.New("validation failed")

// Storage is implemented by every backend: the SQL store, the file journal
// and the in-memory store.
type Storage interface {
	ListLinks(context.Context) ([]storage.ReviewLink, error)
	FindLinkBySlug(context.Context, string) (*storage.ReviewLink, error)
	CreateLink(context.Context, storage.ReviewLink) (*storage.ReviewLink, error)
	UpdateLink(context.Context, string, storage.LinkPatch) (bool, error)
	DeleteLink(context.Context, string) (bool, error)
	CreateFeedback(context.Context, storage.ReviewFeedback) (*storage.ReviewFeedback, error)
	FindUserByUsername(context.Context, string) (*storage.User, error)
	CreateUser(context.Context, storage.User) (bool, error)
	PingContext(context.Context) error
}

// LinkServiceIface is consumed by the HTTP handlers.
type LinkServiceIface interface {
	List(context.Context) ([]storage.ReviewLink, error)
	GetBySlug(context.Context, string) (*storage.ReviewLink, error)
	Create(context.Context, models.CreateLinkRequest) (*storage.ReviewLink, error)
	Update(context.Context, string, storage.LinkPatch) (bool, error)
	Delete(context.Context, string) (bool, error)
	PingContext(context.Context) error
}

// FeedbackServiceIface is consumed by the HTTP handlers and the review flow.
type FeedbackServiceIface interface {
	Submit(context.Context, models.FeedbackRequest) (*storage.ReviewFeedback, error)
	SubmitForLink(context.Context, storage.ReviewLink, models.FeedbackRequest) (*storage.ReviewFeedback, error)
}

// Notifier receives feedback after it was written. Implementations must not
// block.
type Notifier interface {
	Enqueue(models.FeedbackNotification) bool
}
