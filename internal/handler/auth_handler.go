package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"loomcart/internal/auth"
	"loomcart/internal/middleware"
	"loomcart/internal/model"
	"loomcart/internal/service"

	"github.com/rs/zerolog"
)

// AuthHandler handles registration, login and session HTTP requests.
type AuthHandler struct {
	service  service.UserService
	secret   string
	tokenTTL time.Duration
	logger   zerolog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(service service.UserService, secret string, tokenTTL time.Duration, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service:  service,
		secret:   secret,
		tokenTTL: tokenTTL,
		logger:   logger.With().Str("handler", "auth").Logger(),
	}
}

// Register handles POST /api/auth/register requests.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	var req model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	user, err := h.service.Register(r.Context(), &req)
	if err != nil {
		writeDomainError(w, err, "failed to register user", h.logger)
		return
	}

	if !h.issueSession(w, user) {
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// Login handles POST /api/auth/login requests.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	user, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeDomainError(w, err, "failed to login", h.logger)
		return
	}

	if !h.issueSession(w, user) {
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Me handles GET /api/auth/me requests.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	p, ok := middleware.UserFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorised", h.logger)
		return
	}

	user, err := h.service.GetByID(r.Context(), p.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to retrieve user", h.logger)
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "user not found", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Logout handles POST /api/auth/logout requests by expiring the session
// cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// issueSession signs a token for the user and sets the session cookie.
// Returns false after writing an error response on failure.
func (h *AuthHandler) issueSession(w http.ResponseWriter, user *model.User) bool {
	token, err := auth.SignToken(user.ID, user.Role, h.secret, h.tokenTTL)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to sign token")
		writeError(w, http.StatusInternalServerError, "failed to create session", h.logger)
		return false
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.tokenTTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return true
}
