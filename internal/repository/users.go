package repository

import (
	"context"

	"github.com/atinyakov/go-review-links/internal/storage"
)

func (r *Store) FindUserByUsername(ctx context.Context, username string) (*storage.User, error) {
	res, err := r.exec.Execute(ctx, "SELECT * FROM users WHERE username = ? LIMIT 1", username)
	if err != nil {
		return nil, err
	}
	if !res.Success {
		return nil, rejected("find user", res)
	}

	if len(res.Rows) == 0 {
		return nil, storage.ErrNotFound
	}

	row := res.Rows[0]
	return &storage.User{
		ID:        row.String("id"),
		Username:  row.String("username"),
		Password:  row.String("password"),
		CreatedAt: row.Int64("created_at", "createdAt"),
	}, nil
}

// CreateUser reports false when the username is already taken.
func (r *Store) CreateUser(ctx context.Context, u storage.User) (bool, error) {
	res, err := r.exec.Execute(ctx,
		"INSERT INTO users (id, username, password, created_at) VALUES (?, ?, ?, ?)",
		u.ID, u.Username, u.Password, u.CreatedAt,
	)
	if err != nil {
		return false, err
	}

	if res.Conflict {
		return false, nil
	}

	if !res.Success {
		return false, rejected("insert user", res)
	}

	return true, nil
}
