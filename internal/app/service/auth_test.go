package service_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/atinyakov/go-review-links/internal/app/service"
	"github.com/atinyakov/go-review-links/internal/storage"
)

func newTestAuth(t *testing.T, secret string) (*service.Auth, *storage.MemoryStorage) {
	t.Helper()

	mem, _ := storage.CreateMemoryStorage()
	auth, err := service.NewAuth(mem, []byte(secret), zap.NewNop())
	require.NoError(t, err)

	return auth, mem
}

func TestNewAuth_RequiresSecret(t *testing.T) {
	mem, _ := storage.CreateMemoryStorage()

	auth, err := service.NewAuth(mem, nil, zap.NewNop())
	assert.Nil(t, auth)
	assert.ErrorIs(t, err, service.ErrMissingSecret)
}

func TestIssueSession(t *testing.T) {
	auth, _ := newTestAuth(t, "test-secret")

	tokenStr, claims, err := auth.IssueSession("user-1", "admin")
	require.NoError(t, err)
	require.NotEmpty(t, tokenStr)

	// Decode token to verify claims
	parsed := &service.Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, parsed, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)
	assert.Equal(t, "HS256", token.Header["alg"])

	assert.Equal(t, "user-1", parsed.UserID)
	assert.Equal(t, "admin", parsed.Username)
	assert.Equal(t, claims.UserID, parsed.UserID)
	require.NotNil(t, parsed.IssuedAt)
	require.WithinDuration(t, time.Now().Add(service.TokenExp), parsed.ExpiresAt.Time, time.Minute)
	assert.Equal(t, service.TokenExp, parsed.ExpiresAt.Sub(parsed.IssuedAt.Time))
}

func TestVerifySession(t *testing.T) {
	auth, _ := newTestAuth(t, "test-secret")
	other, _ := newTestAuth(t, "other-secret")

	valid, _, err := auth.IssueSession("user-1", "admin")
	require.NoError(t, err)

	foreign, _, err := other.IssueSession("user-1", "admin")
	require.NoError(t, err)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, service.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-25 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
		UserID:   "user-1",
		Username: "admin",
	})
	expiredStr, err := expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, service.Claims{UserID: "user-1"})
	noneStr, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	t.Run("valid token", func(t *testing.T) {
		claims := auth.VerifySession(valid)
		require.NotNil(t, claims)
		assert.Equal(t, "user-1", claims.UserID)
		assert.Equal(t, "admin", claims.Username)
	})

	tests := []struct {
		name  string
		token string
	}{
		{"different secret", foreign},
		{"expired", expiredStr},
		{"malformed", "invalid.token.here"},
		{"empty", ""},
		{"garbage", "not-a-jwt"},
		{"alg none", noneStr},
		{"tampered", valid[:strings.LastIndex(valid, ".")] + ".AAAA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, auth.VerifySession(tt.token))
		})
	}
}

func TestVerifyCredential(t *testing.T) {
	hash, err := service.HashPassword("s3cret!")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", hash)

	assert.True(t, service.VerifyCredential("s3cret!", hash))
	assert.False(t, service.VerifyCredential("wrong", hash))
	assert.False(t, service.VerifyCredential("", hash))
	assert.False(t, service.VerifyCredential("s3cret!", ""))
	assert.False(t, service.VerifyCredential("", ""))
	assert.False(t, service.VerifyCredential("s3cret!", "not-a-bcrypt-hash"))
}

func TestCreateUserAndLogin(t *testing.T) {
	auth, mem := newTestAuth(t, "test-secret")
	ctx := context.Background()

	ok, err := auth.CreateUser(ctx, "admin", "correct horse")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = auth.CreateUser(ctx, "admin", "another")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = auth.CreateUser(ctx, "", "pw")
	assert.ErrorIs(t, err, service.ErrValidation)

	stored, err := mem.FindUserByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", stored.Password)
	assert.True(t, strings.HasPrefix(stored.Password, "$2"))

	token, claims, err := auth.Login(ctx, "admin", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, stored.ID, claims.UserID)
	assert.NotNil(t, auth.VerifySession(token))

	_, _, err = auth.Login(ctx, "admin", "wrong")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, _, err = auth.Login(ctx, "ghost", "correct horse")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	u, err := auth.FindUserByUsername(ctx, "ghost")
	require.NoError(t, err)
	assert.Nil(t, u)
}

type brokenUsers struct{}

func (brokenUsers) FindUserByUsername(context.Context, string) (*storage.User, error) {
	return nil, fmt.Errorf("%w: find user: no such table: users", storage.ErrStorage)
}

func (brokenUsers) CreateUser(context.Context, storage.User) (bool, error) {
	return false, fmt.Errorf("%w: insert user: no such table: users", storage.ErrStorage)
}

func TestLogin_StoreFailureIsNotBadCredentials(t *testing.T) {
	auth, err := service.NewAuth(brokenUsers{}, []byte("test-secret"), zap.NewNop())
	require.NoError(t, err)

	token, claims, err := auth.Login(context.Background(), "admin", "pw")
	assert.Empty(t, token)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, storage.ErrStorage)
	assert.NotErrorIs(t, err, service.ErrInvalidCredentials)
}
