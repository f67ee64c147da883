package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/go-review-links/internal/gateway"
	"github.com/atinyakov/go-review-links/internal/storage"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS links (
		id TEXT PRIMARY KEY,
		slug TEXT UNIQUE NOT NULL,
		businessName TEXT NOT NULL,
		gmbReviewLink TEXT NOT NULL,
		logoUrl TEXT,
		backgroundImageUrl TEXT,
		createdAt TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS feedback (
		id TEXT PRIMARY KEY,
		linkId TEXT NOT NULL,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		comment TEXT NOT NULL,
		rating INTEGER NOT NULL,
		createdAt TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		password TEXT NOT NULL,
		created_at BIGINT NOT NULL
	)`,
}

// Store keeps links, feedback and users in a SQL database reached through
// a gateway.Executor. Every method maps to exactly one statement.
type Store struct {
	exec   gateway.Executor
	logger *zap.Logger
}

func NewStore(exec gateway.Executor, logger *zap.Logger) *Store {
	return &Store{
		exec:   exec,
		logger: logger,
	}
}

// InitSchema creates the tables if they do not exist yet.
func (r *Store) InitSchema(ctx context.Context) error {
	for _, stmt := range schema {
		res, err := r.exec.Execute(ctx, stmt)
		if err != nil {
			return err
		}
		if !res.Success {
			return rejected("create schema", res)
		}
	}

	r.logger.Info("Database tables ready.")
	return nil
}

func (r *Store) PingContext(c context.Context) error {
	return r.exec.PingContext(c)
}

func (r *Store) Close() error {
	return r.exec.Close()
}

// rejected turns a statement the store refused into a storage error.
func rejected(op string, res *gateway.Result) error {
	if res.Conflict {
		return fmt.Errorf("%w: %s", storage.ErrConflict, op)
	}
	return fmt.Errorf("%w: %s: %s", storage.ErrStorage, op, strings.Join(res.Errors, "; "))
}

func formatTime(t time.Time) string {
	return t.UTC().Format(storage.TimeLayout)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{storage.TimeLayout, time.RFC3339Nano, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
