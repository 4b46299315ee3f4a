package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"evdash/backend/services/dashboard-service/internal/identity"
	"evdash/backend/services/dashboard-service/internal/service"
)

// CookieOptions control the session cookie set at login.
type CookieOptions struct {
	Name   string
	Secure bool
}

// AuthHandlers serves signup, login and session endpoints.
type AuthHandlers struct {
	auth   *service.AuthService
	cookie CookieOptions
	logger *zap.Logger
}

// NewAuthHandlers returns handler struct.
func NewAuthHandlers(auth *service.AuthService, cookie CookieOptions, logger *zap.Logger) *AuthHandlers {
	return &AuthHandlers{auth: auth, cookie: cookie, logger: logger}
}

// Signup handles POST /api/auth/signup.
func (h *AuthHandlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.auth.Signup(r.Context(), service.SignupInput{Email: req.Email, Name: req.Name, Password: req.Password})
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to create user")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"user": user})
}

// Login handles POST /api/auth/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to login")
		return
	}

	if h.cookie.Name != "" {
		http.SetCookie(w, &http.Cookie{
			Name:     h.cookie.Name,
			Value:    res.Token,
			Path:     "/",
			Expires:  res.ExpiresAt,
			HttpOnly: true,
			Secure:   h.cookie.Secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token":      res.Token,
		"token_type": "Bearer",
		"expires_at": res.ExpiresAt,
		"user":       res.User,
	})
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request, caller identity.Identity) {
	if err := h.auth.Logout(r.Context(), caller); err != nil {
		writeServiceError(w, h.logger, err, "Failed to logout")
		return
	}
	if h.cookie.Name != "" {
		http.SetCookie(w, &http.Cookie{
			Name:     h.cookie.Name,
			Value:    "",
			Path:     "/",
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   h.cookie.Secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// Me handles GET /api/auth/me.
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request, caller identity.Identity) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"user": caller})
}
