// File: internal/middleware/auth.go
package middleware

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/okizari/go-threadchat/internal/services/user_services"
)

type contextKey string

// UsernameKey is the request-context key carrying the authenticated username.
const UsernameKey contextKey = "username"

// UsernameFromContext extracts the authenticated username set by the JWT
// middleware.
func UsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(UsernameKey).(string)
	return username, ok && username != ""
}

// NewJWTMiddleware validates the session token cookie and resolves the
// username into the request context. Browsers get redirected to /login;
// invalid cookies are cleared on the way.
func NewJWTMiddleware(authService *user_services.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie("auth_token")
			if err != nil {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			username, err := authService.ValidateSessionToken(cookie.Value)
			if err != nil {
				log.Printf("[AuthMiddleware] Invalid token: %v", err)
				http.SetCookie(w, &http.Cookie{
					Name:     "auth_token",
					Value:    "",
					Path:     "/",
					Expires:  time.Unix(0, 0),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), UsernameKey, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
