package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/atinyakov/go-review-links/internal/gateway"
	"github.com/atinyakov/go-review-links/internal/storage"
)

// Helper to set up a mock DB and repository
func setupMockDB(t *testing.T) (sqlmock.Sqlmock, *Store) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewStore(gateway.NewSQL(db, gateway.DriverPgx, zap.NewNop()), zap.NewNop())
	return mock, repo
}

// countingExecutor fails the test if anything reaches the store.
type countingExecutor struct {
	calls int
}

func (c *countingExecutor) Execute(ctx context.Context, query string, params ...any) (*gateway.Result, error) {
	c.calls++
	return &gateway.Result{Success: true}, nil
}

func (c *countingExecutor) PingContext(ctx context.Context) error { return nil }
func (c *countingExecutor) Close() error                          { return nil }

func strPtr(s string) *string { return &s }

func TestCreateLink(t *testing.T) {
	mock, repo := setupMockDB(t)

	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	link := storage.ReviewLink{
		ID:            "id-1",
		Slug:          "abcdefghij",
		BusinessName:  "Acme",
		GmbReviewLink: "https://example.com/r",
		CreatedAt:     created,
	}

	mock.ExpectExec(`INSERT INTO links`).
		WithArgs("id-1", "abcdefghij", "Acme", "https://example.com/r", "", "", "2025-03-01T10:00:00.000Z").
		WillReturnResult(sqlmock.NewResult(0, 1))

	result, err := repo.CreateLink(context.Background(), link)
	require.NoError(t, err)
	assert.Equal(t, link, *result)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListLinks_NormalizesColumnCase(t *testing.T) {
	mock, repo := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"id", "slug", "businessname", "gmbreviewlink", "logourl", "backgroundimageurl", "createdat"}).
		AddRow("id-2", "s2", "Beta", "https://b.com", "", nil, "2025-03-02T10:00:00.000Z").
		AddRow("id-1", "s1", "Acme", "https://a.com", "https://cdn/logo.png", "", "2025-03-01T10:00:00.000Z")

	mock.ExpectQuery(`SELECT \* FROM links ORDER BY createdAt DESC`).WillReturnRows(rows)

	links, err := repo.ListLinks(context.Background())
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, "Beta", links[0].BusinessName)
	assert.Equal(t, "https://b.com", links[0].GmbReviewLink)
	assert.Equal(t, "https://cdn/logo.png", links[1].LogoURL)
	assert.Equal(t, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC), links[1].CreatedAt)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindLinkBySlug(t *testing.T) {
	mock, repo := setupMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM links WHERE slug = \$1 LIMIT 1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindLinkBySlug(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateLink(t *testing.T) {
	mock, repo := setupMockDB(t)

	mock.ExpectExec(`UPDATE links SET businessName = \$1, logoUrl = \$2 WHERE id = \$3`).
		WithArgs("Acme Corp", "", "id-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE links SET businessName = \$1 WHERE id = \$2`).
		WithArgs("Ghost", "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.UpdateLink(context.Background(), "id-1", storage.LinkPatch{
		BusinessName: strPtr("Acme Corp"),
		LogoURL:      strPtr(""),
	})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.UpdateLink(context.Background(), "missing", storage.LinkPatch{BusinessName: strPtr("Ghost")})
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateLink_EmptyPatchSkipsStore(t *testing.T) {
	exec := &countingExecutor{}
	repo := NewStore(exec, zap.NewNop())

	ok, err := repo.UpdateLink(context.Background(), "id-1", storage.LinkPatch{})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, exec.calls)
}

func TestDeleteLink_Twice(t *testing.T) {
	mock, repo := setupMockDB(t)

	mock.ExpectExec(`DELETE FROM links WHERE id = \$1`).WithArgs("id-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM links WHERE id = \$1`).WithArgs("id-1").WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.DeleteLink(context.Background(), "id-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.DeleteLink(context.Background(), "id-1")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateFeedback_Rejected(t *testing.T) {
	mock, repo := setupMockDB(t)

	mock.ExpectExec(`INSERT INTO feedback`).WillReturnError(assert.AnError)

	_, err := repo.CreateFeedback(context.Background(), storage.ReviewFeedback{ID: "f1", Rating: 3})
	assert.ErrorIs(t, err, storage.ErrStorage)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindUserByUsername(t *testing.T) {
	mock, repo := setupMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM users WHERE username = \$1 LIMIT 1`).
		WithArgs("admin").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password", "created_at"}).
			AddRow("u1", "admin", "$2a$10$hash", int64(1700000000000)))

	u, err := repo.FindUserByUsername(context.Background(), "admin")
	require.NoError(t, err)
	assert.Equal(t, storage.User{ID: "u1", Username: "admin", Password: "$2a$10$hash", CreatedAt: 1700000000000}, *u)

	assert.NoError(t, mock.ExpectationsWereMet())
}

// rejectingExecutor answers every statement the way D1 answers a query
// against a missing table.
type rejectingExecutor struct{}

func (rejectingExecutor) Execute(ctx context.Context, query string, params ...any) (*gateway.Result, error) {
	return &gateway.Result{Rows: []gateway.Row{}, Errors: []string{"no such table: links"}}, nil
}

func (rejectingExecutor) PingContext(ctx context.Context) error { return nil }
func (rejectingExecutor) Close() error                          { return nil }

func TestReads_RejectedStatementIsStorageError(t *testing.T) {
	repo := NewStore(rejectingExecutor{}, zap.NewNop())
	ctx := context.Background()

	links, err := repo.ListLinks(ctx)
	assert.Nil(t, links)
	assert.ErrorIs(t, err, storage.ErrStorage)
	assert.ErrorContains(t, err, "no such table: links")

	link, err := repo.FindLinkBySlug(ctx, "abcdefghij")
	assert.Nil(t, link)
	assert.ErrorIs(t, err, storage.ErrStorage)
	assert.NotErrorIs(t, err, storage.ErrNotFound)

	user, err := repo.FindUserByUsername(ctx, "admin")
	assert.Nil(t, user)
	assert.ErrorIs(t, err, storage.ErrStorage)
	assert.NotErrorIs(t, err, storage.ErrNotFound)

	assert.ErrorIs(t, repo.InitSchema(ctx), storage.ErrStorage)
}

func TestListLinks_QueryRejected(t *testing.T) {
	mock, repo := setupMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM links`).
		WillReturnError(errors.New(`relation "links" does not exist`))

	links, err := repo.ListLinks(context.Background())
	assert.Nil(t, links)
	assert.ErrorIs(t, err, storage.ErrStorage)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindUserByUsername_QueryRejected(t *testing.T) {
	mock, repo := setupMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM users WHERE username = \$1`).
		WithArgs("admin").
		WillReturnError(errors.New(`relation "users" does not exist`))

	user, err := repo.FindUserByUsername(context.Background(), "admin")
	assert.Nil(t, user)
	assert.ErrorIs(t, err, storage.ErrStorage)
	require.NoError(t, mock.ExpectationsWereMet())
}
