package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"kingtires/internal/middleware"
	"kingtires/internal/models"
)

// AuthService is the auth functionality the handler needs
type AuthService interface {
	Register(req *models.UserRegisterRequest) (*models.User, error)
	Login(req *models.UserLoginRequest) (*models.User, string, error)
}

// SessionHandler handles registration, login and session inspection
type SessionHandler struct {
	authService  AuthService
	tokenTTL     time.Duration
	secureCookie bool
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(authService AuthService, tokenTTL time.Duration, secureCookie bool) *SessionHandler {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}

	return &SessionHandler{
		authService:  authService,
		tokenTTL:     tokenTTL,
		secureCookie: secureCookie,
	}
}

// Register creates a new user account
func (h *SessionHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.UserRegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.authService.Register(&req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, user)
}

// Login verifies credentials, sets the token cookie and returns the token
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.UserLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, token, err := h.authService.Login(&req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.tokenTTL),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"user":  user,
		"token": token,
	})
}

// Logout clears the token cookie
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	respondJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// Current returns the authenticated user behind the request
func (h *SessionHandler) Current(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "Access denied. You must log in first.")
		return
	}

	respondJSON(w, http.StatusOK, user)
}
