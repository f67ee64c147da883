package repository

import (
	"context"

	"github.com/atinyakov/go-review-links/internal/storage"
)

func (r *Store) CreateFeedback(ctx context.Context, f storage.ReviewFeedback) (*storage.ReviewFeedback, error) {
	res, err := r.exec.Execute(ctx,
		"INSERT INTO feedback (id, linkId, name, email, comment, rating, createdAt) VALUES (?, ?, ?, ?, ?, ?, ?)",
		f.ID, f.LinkID, f.Name, f.Email, f.Comment, f.Rating, formatTime(f.CreatedAt),
	)
	if err != nil {
		return nil, err
	}

	if !res.Success {
		return nil, rejected("insert feedback", res)
	}

	return &f, nil
}
