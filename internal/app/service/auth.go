// Package service holds the business logic behind the HTTP API: review
// links, feedback capture and admin authentication.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/atinyakov/go-review-links/internal/metrics"
	"github.com/atinyakov/go-review-links/internal/storage"
)

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "admin_session"

// TokenExp defines the lifetime of a session token.
const TokenExp = 24 * time.Hour

// passwordCost is the bcrypt work factor used for new hashes.
const passwordCost = 10

var (
	// ErrInvalidCredentials is returned for an unknown user or a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrMissingSecret is returned when no signing secret is configured.
	ErrMissingSecret = errors.New("session secret is not configured")
)

// AuthIface is consumed by the HTTP handlers and the session middleware.
type AuthIface interface {
	Login(ctx context.Context, username, password string) (string, *Claims, error)
	VerifySession(token string) *Claims
	CreateUser(ctx context.Context, username, password string) (bool, error)
}

// Claims are embedded into every session token.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"id"`
	Username string `json:"username"`
}

// UserStore is the credential part of Storage.
type UserStore interface {
	FindUserByUsername(context.Context, string) (*storage.User, error)
	CreateUser(context.Context, storage.User) (bool, error)
}

// Auth verifies passwords and issues stateless session tokens.
type Auth struct {
	users  UserStore
	secret []byte
	logger *zap.Logger
	now    func() time.Time
}

// NewAuth requires a non-empty signing secret.
func NewAuth(users UserStore, secret []byte, logger *zap.Logger) (*Auth, error) {
	if len(secret) == 0 {
		return nil, ErrMissingSecret
	}

	return &Auth{
		users:  users,
		secret: secret,
		logger: logger,
		now:    time.Now,
	}, nil
}

var (
	dummyOnce sync.Once
	dummyHash []byte
)

// equalizeTiming burns one bcrypt comparison so that unknown usernames take
// as long as wrong passwords.
func equalizeTiming(password string) {
	dummyOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte(uuid.NewString()), passwordCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

// HashPassword returns a salted bcrypt hash.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyCredential reports whether password matches the stored hash.
func VerifyCredential(password, hash string) bool {
	if password == "" || hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// FindUserByUsername returns nil when the user does not exist.
func (a *Auth) FindUserByUsername(ctx context.Context, username string) (*storage.User, error) {
	u, err := a.users.FindUserByUsername(ctx, username)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	return u, err
}

// CreateUser hashes password and stores a new admin. It reports false when
// the username is taken.
func (a *Auth) CreateUser(ctx context.Context, username, password string) (bool, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return false, fmt.Errorf("%w: username and password are required", ErrValidation)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return false, err
	}

	ok, err := a.users.CreateUser(ctx, storage.User{
		ID:        uuid.NewString(),
		Username:  username,
		Password:  hash,
		CreatedAt: a.now().UnixMilli(),
	})
	if err != nil {
		return false, err
	}

	if ok {
		a.logger.Info("admin user created", zap.String("username", username))
	}
	return ok, nil
}

// Login checks the credentials and issues a session token.
func (a *Auth) Login(ctx context.Context, username, password string) (string, *Claims, error) {
	u, err := a.FindUserByUsername(ctx, username)
	if err != nil {
		return "", nil, err
	}

	if u == nil {
		equalizeTiming(password)
		return "", nil, ErrInvalidCredentials
	}

	if !VerifyCredential(password, u.Password) {
		return "", nil, ErrInvalidCredentials
	}

	token, claims, err := a.IssueSession(u.ID, u.Username)
	if err != nil {
		return "", nil, err
	}

	metrics.SessionsIssuedTotal.Inc()
	return token, claims, nil
}

// IssueSession signs a token valid for TokenExp.
func (a *Auth) IssueSession(id, username string) (string, *Claims, error) {
	now := a.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenExp)),
		},
		UserID:   id,
		Username: username,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(a.secret)
	if err != nil {
		return "", nil, err
	}

	return tokenString, claims, nil
}

// VerifySession returns the claims of a valid token and nil for anything
// else: bad signature, expiry, wrong algorithm or garbage.
func (a *Auth) VerifySession(tokenString string) *Claims {
	if tokenString == "" {
		return nil
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil || !token.Valid {
		return nil
	}

	return claims
}
