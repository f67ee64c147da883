package middleware

import (
	"context"
	"net/http"

	"github.com/atinyakov/go-review-links/internal/app/service"
)

// ContextKey is a custom type used for keys in the context.
type ContextKey string

// ClaimsKey stores the verified session claims.
const ClaimsKey ContextKey = "session"

// InjectClaims adds verified claims to the request context.
func InjectClaims(req *http.Request, claims *service.Claims) *http.Request {
	ctx := context.WithValue(req.Context(), ClaimsKey, claims)
	return req.WithContext(ctx)
}

// ClaimsFromContext returns the claims put there by RequireSession.
func ClaimsFromContext(ctx context.Context) (*service.Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*service.Claims)
	return claims, ok && claims != nil
}

// RequireSession rejects requests without a valid admin_session cookie
// with 401. Sessions are stateless, so the token alone decides.
func RequireSession(auth service.AuthIface) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(service.SessionCookie)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			claims := auth.VerifySession(cookie.Value)
			if claims == nil {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			next.ServeHTTP(w, InjectClaims(r, claims))
		})
	}
}
