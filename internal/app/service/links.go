package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/atinyakov/go-review-links/internal/models"
	"github.com/atinyakov/go-review-links/internal/storage"
)

const (
	slugCacheTTL   = time.Minute
	maxSlugRetries = 3
)

type LinkService struct {
	repository Storage
	slugs      *SlugGenerator
	cache      *cache.Cache
	logger     *zap.Logger
	now        func() time.Time
}

func NewLinks(repo Storage, slugs *SlugGenerator, logger *zap.Logger) *LinkService {
	return &LinkService{
		repository: repo,
		slugs:      slugs,
		cache:      cache.New(slugCacheTTL, 2*slugCacheTTL),
		logger:     logger,
		now:        time.Now,
	}
}

func (s *LinkService) PingContext(ctx context.Context) error {
	return s.repository.PingContext(ctx)
}

func (s *LinkService) List(ctx context.Context) ([]storage.ReviewLink, error) {
	return s.repository.ListLinks(ctx)
}

// GetBySlug resolves a public link, serving repeated lookups from a short
// lived cache.
func (s *LinkService) GetBySlug(ctx context.Context, slug string) (*storage.ReviewLink, error) {
	if v, ok := s.cache.Get(slug); ok {
		l := v.(storage.ReviewLink)
		return &l, nil
	}

	l, err := s.repository.FindLinkBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	s.cache.SetDefault(slug, *l)
	return l, nil
}

// Create generates id, slug and createdAt. A slug collision reported by the
// store triggers a new slug, up to maxSlugRetries attempts.
func (s *LinkService) Create(ctx context.Context, req models.CreateLinkRequest) (*storage.ReviewLink, error) {
	req.BusinessName = strings.TrimSpace(req.BusinessName)
	req.GmbReviewLink = strings.TrimSpace(req.GmbReviewLink)

	if req.BusinessName == "" || req.GmbReviewLink == "" {
		return nil, fmt.Errorf("%w: business name and GMB review link are required", ErrValidation)
	}

	link := storage.ReviewLink{
		ID:                 uuid.NewString(),
		BusinessName:       req.BusinessName,
		GmbReviewLink:      req.GmbReviewLink,
		LogoURL:            req.LogoURL,
		BackgroundImageURL: req.BackgroundImageURL,
		CreatedAt:          s.now().UTC().Truncate(time.Millisecond),
	}

	var lastErr error
	for attempt := 0; attempt < maxSlugRetries; attempt++ {
		slug, err := s.slugs.Next()
		if err != nil {
			return nil, err
		}
		link.Slug = slug

		created, err := s.repository.CreateLink(ctx, link)
		if err == nil {
			s.logger.Info("link created", zap.String("id", created.ID), zap.String("slug", created.Slug))
			return created, nil
		}
		if !errors.Is(err, storage.ErrConflict) {
			return nil, err
		}

		s.logger.Warn("slug collision, retrying", zap.String("slug", slug), zap.Int("attempt", attempt+1))
		lastErr = err
	}

	return nil, lastErr
}

// Update applies patch to the link with the given id. An empty patch is a
// failed no-op.
func (s *LinkService) Update(ctx context.Context, id string, patch storage.LinkPatch) (bool, error) {
	if patch.Empty() {
		return false, nil
	}

	ok, err := s.repository.UpdateLink(ctx, id, patch)
	if ok {
		s.cache.Flush()
	}

	return ok, err
}

func (s *LinkService) Delete(ctx context.Context, id string) (bool, error) {
	ok, err := s.repository.DeleteLink(ctx, id)
	if ok {
		s.cache.Flush()
	}

	return ok, err
}
