package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/atinyakov/go-review-links/internal/app/service"
	"github.com/atinyakov/go-review-links/internal/mocks"
)

func TestInjectClaims(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	_, ok := ClaimsFromContext(req.Context())
	assert.False(t, ok)

	claims := &service.Claims{UserID: "u1", Username: "admin"}
	got, ok := ClaimsFromContext(InjectClaims(req, claims).Context())
	require.True(t, ok)
	assert.Same(t, claims, got)
}

func TestRequireSession(t *testing.T) {
	t.Run("no cookie", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockAuth := mocks.NewMockAuthIface(ctrl)

		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be called without a session")
		})

		rec := httptest.NewRecorder()
		RequireSession(mockAuth)(handler).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/links", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
	})

	t.Run("invalid token", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockAuth := mocks.NewMockAuthIface(ctrl)
		mockAuth.EXPECT().VerifySession("bad-token").Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/api/links", nil)
		req.AddCookie(&http.Cookie{Name: service.SessionCookie, Value: "bad-token"})

		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be called with an invalid session")
		})

		rec := httptest.NewRecorder()
		RequireSession(mockAuth)(handler).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockAuth := mocks.NewMockAuthIface(ctrl)
		mockAuth.EXPECT().
			VerifySession("good-token").
			Return(&service.Claims{UserID: "u1", Username: "admin"})

		req := httptest.NewRequest(http.MethodPost, "/api/links", nil)
		req.AddCookie(&http.Cookie{Name: service.SessionCookie, Value: "good-token"})

		var got *service.Claims
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, _ = ClaimsFromContext(r.Context())
			w.WriteHeader(http.StatusCreated)
		})

		rec := httptest.NewRecorder()
		RequireSession(mockAuth)(handler).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		require.NotNil(t, got)
		assert.Equal(t, "admin", got.Username)
	})
}
