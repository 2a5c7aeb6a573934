package middleware

import (
	"context"
	"net/http"

	"medquiz/internal/models"
	"medquiz/internal/service"
)

type contextKey string

const userContextKey contextKey = "user"

// AccessTokenCookie is the cookie the login endpoint sets and the auth
// middleware reads.
const AccessTokenCookie = "access_token_cookie"

// UserFromContext returns the authenticated user attached by Auth, or
// nil for anonymous requests.
func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(userContextKey).(*models.User)
	return user
}

// Auth resolves the access token cookie into a user and stores it in
// the request context. Requests without a valid token pass through
// anonymously; Required and AdminOnly decide who gets rejected.
func Auth(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(AccessTokenCookie)
			if err == nil && cookie.Value != "" {
				user, err := authService.ValidateToken(r.Context(), cookie.Value)
				if err == nil {
					r = r.WithContext(context.WithValue(r.Context(), userContextKey, user))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func reject(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":"` + message + `"}`))
}

// Required rejects anonymous requests with 401
func Required(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromContext(r.Context()) == nil {
			reject(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// AdminOnly rejects requests from non-admin users with 403
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		if user == nil {
			reject(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if !user.IsAdmin {
			reject(w, http.StatusForbidden, "forbidden")
			return
		}
		next.ServeHTTP(w, r)
	})
}
