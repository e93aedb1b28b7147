package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/hajobja/hajobja-backend/internal/models"
	"github.com/hajobja/hajobja-backend/internal/services"
)

type contextKey string

const userContextKey contextKey = "authenticatedUser"

// ExtractBearerToken pulls the session token out of an Authorization header.
func ExtractBearerToken(header string) string {
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}

// UserFromContext returns the authenticated user placed by RequireAuth,
// or nil outside an authenticated route.
func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(userContextKey).(*models.User)
	return user
}

// WithUser returns a request context carrying the user. Exposed for tests.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"success":false,"message":"` + message + `"}`))
}

// RequireAuth validates the session token and loads the user document into
// the request context. 401 when missing or invalid.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ExtractBearerToken(r.Header.Get("Authorization"))
		if token == "" {
			unauthorized(w, "Missing session token")
			return
		}

		userID, ok, err := services.ValidateSession(r.Context(), token)
		if err != nil || !ok {
			unauthorized(w, "Invalid or expired session")
			return
		}

		user, err := services.GetUserByID(r.Context(), userID)
		if err != nil {
			unauthorized(w, "Invalid or expired session")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// RequireRole gates a route to the given roles. Use after RequireAuth.
func RequireRole(roles ...models.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFromContext(r.Context())
			if user == nil {
				unauthorized(w, "Missing session token")
				return
			}
			for _, role := range roles {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"success":false,"message":"คุณไม่มีสิทธิ์เข้าถึงส่วนนี้"}`))
		})
	}
}
