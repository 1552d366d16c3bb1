package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/backend"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/domain"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/logger"
)

type SessionService interface {
	Login(ctx context.Context, username, password string) (*domain.Session, error)
	Touch(ctx context.Context, id string) error
	Logout(ctx context.Context, id string) error
	Timeout() time.Duration
}

type TokenIssuer interface {
	Issue(sessionID string) (string, error)
}

type AuthHandler struct {
	sessions SessionService
	tokens   TokenIssuer
	secure   bool
}

func NewAuthHandler(sessions SessionService, tokens TokenIssuer, secureCookie bool) *AuthHandler {
	return &AuthHandler{sessions: sessions, tokens: tokens, secure: secureCookie}
}

type LoginRequestDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token          string       `json:"token"`
	User           *domain.User `json:"user"`
	TimeoutSeconds int          `json:"timeoutSeconds"`
}

type MeResponse struct {
	User         *domain.User `json:"user"`
	LastActivity time.Time    `json:"lastActivity"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	sess, err := h.sessions.Login(r.Context(), req.Username, req.Password)
	var apiErr *backend.APIError
	switch {
	case errors.As(err, &apiErr):
		respondError(w, http.StatusUnauthorized, "invalid_credentials", backend.Message(err, "Username atau password salah"))
		return
	case err != nil:
		handleError(w, r, err)
		return
	}

	token, err := h.tokens.Issue(sess.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	respondJSON(w, http.StatusOK, LoginResponse{
		Token:          token,
		User:           sess.User,
		TimeoutSeconds: int(h.sessions.Timeout().Seconds()),
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.sessions.Logout(r.Context(), sess.ID); err != nil {
		logger.FromContext(r.Context()).Warn("logout failed", "err", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	respondJSON(w, http.StatusOK, MessageResponse{Message: "Anda telah keluar"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentUser(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, MeResponse{User: sess.User, LastActivity: sess.LastActivity})
}

// Activity records a click or key press on the page.
func (h *AuthHandler) Activity(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.sessions.Touch(r.Context(), sess.ID); err != nil {
		respondSessionExpired(w, "session_expired")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
