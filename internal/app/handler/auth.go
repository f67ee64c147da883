package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/atinyakov/go-review-links/internal/app/service"
	"github.com/atinyakov/go-review-links/internal/middleware"
	"github.com/atinyakov/go-review-links/internal/models"
)

type AuthHandler struct {
	auth   service.AuthIface
	secure bool
	logger *zap.Logger
}

// NewAuth builds the session handlers. secure adds the Secure attribute to
// the session cookie and should follow the HTTPS setting.
func NewAuth(a service.AuthIface, secure bool, l *zap.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   a,
		secure: secure,
		logger: l,
	}
}

func (h *AuthHandler) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     service.SessionCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteStrictMode,
	}
}

func (h *AuthHandler) Login(res http.ResponseWriter, req *http.Request) {
	var request models.LoginRequest
	if err := decodeJSONBody(res, req, &request); err != nil {
		writeDecodeError(res, h.logger, err)
		return
	}

	if strings.TrimSpace(request.Username) == "" || request.Password == "" {
		writeError(res, http.StatusBadRequest, "Username and password are required")
		return
	}

	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	token, claims, err := h.auth.Login(ctx, request.Username, request.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		h.logger.Info("failed login", zap.String("username", request.Username))
		writeError(res, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		h.logger.Error("login failed", zap.Error(err))
		writeError(res, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}

	http.SetCookie(res, h.sessionCookie(token, int(service.TokenExp.Seconds())))
	writeJSON(res, http.StatusOK, models.SessionResponse{ID: claims.UserID, Username: claims.Username})
}

// Logout clears the session cookie. Tokens are stateless, so nothing is
// revoked server side.
func (h *AuthHandler) Logout(res http.ResponseWriter, req *http.Request) {
	http.SetCookie(res, h.sessionCookie("", -1))
	writeJSON(res, http.StatusOK, models.MessageResponse{Success: true})
}

// Session describes the admin behind the current cookie.
func (h *AuthHandler) Session(res http.ResponseWriter, req *http.Request) {
	claims, ok := middleware.ClaimsFromContext(req.Context())
	if !ok {
		writeError(res, http.StatusUnauthorized, "Unauthorized")
		return
	}

	writeJSON(res, http.StatusOK, models.SessionResponse{ID: claims.UserID, Username: claims.Username})
}

// Setup provisions an admin account. The route is only reachable from the
// trusted subnet.
func (h *AuthHandler) Setup(res http.ResponseWriter, req *http.Request) {
	var request models.LoginRequest
	if err := decodeJSONBody(res, req, &request); err != nil {
		writeDecodeError(res, h.logger, err)
		return
	}

	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	created, err := h.auth.CreateUser(ctx, request.Username, request.Password)
	if err != nil {
		writeServiceError(res, h.logger, err, "")
		return
	}
	if !created {
		writeError(res, http.StatusConflict, "User already exists")
		return
	}

	writeJSON(res, http.StatusCreated, models.MessageResponse{Success: true, Message: "User created"})
}
