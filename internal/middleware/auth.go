package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"kingtires/internal/models"
)

type contextKey string

const (
	UserContextKey contextKey = "user"

	// TokenCookieName is the cookie the login endpoint sets
	TokenCookieName = "token"
)

// AuthService is the subset of the auth service the middleware needs
type AuthService interface {
	ValidateToken(token string) (int, error)
	GetCurrentUser(userID int) (*models.User, error)
}

// AuthMiddleware provides token-based authentication
type AuthMiddleware struct {
	authService AuthService
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(authService AuthService) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// LoadUser resolves the requesting user from the bearer token or the token
// cookie and adds it to the request context. Requests without a valid token
// continue unauthenticated.
func (m *AuthMiddleware) LoadUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		userID, err := m.authService.ValidateToken(token)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		user, err := m.authService.GetCurrentUser(userID)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth rejects requests without an authenticated user
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetUserFromContext(r.Context()) == nil {
			writeAuthError(w, http.StatusUnauthorized, "Access denied. You must log in first.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects requests whose user does not have the admin role
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetUserFromContext(r.Context())
		if user == nil {
			writeAuthError(w, http.StatusUnauthorized, "Access denied. You must log in first.")
			return
		}
		if !user.IsAdmin() {
			writeAuthError(w, http.StatusForbidden, "Only administrators may access this route.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetUserFromContext returns the authenticated user, or nil
func GetUserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(UserContextKey).(*models.User)
	return user
}

func extractToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}

	if cookie, err := r.Cookie(TokenCookieName); err == nil {
		return cookie.Value
	}

	return ""
}

func writeAuthError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "error",
		"message": message,
	})
}
