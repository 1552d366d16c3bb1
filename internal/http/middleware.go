package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/backend"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/domain"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/logger"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/session"
)

const (
	SessionCookie = "portal_session"
	loginPath     = "/login"
)

type sessionCtxKey struct{}

// RequestIDMiddleware hands the request id to the logger and echoes it back.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := middleware.GetReqID(r.Context())
		if requestID == "" {
			requestID = r.Header.Get("X-Request-ID")
		}
		if requestID == "" {
			requestID = fmt.Sprintf("req-%d", time.Now().UnixNano())
		}

		ctx := logger.WithRequestID(r.Context(), requestID)
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Recoverer answers a panic with the generic message. Panics caused by a
// backend transport failure are not logged again.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			err, isErr := rec.(error)
			if !isErr || !errors.Is(err, backend.ErrUnavailable) {
				logger.FromContext(r.Context()).Error("panic recovered",
					"path", r.URL.Path,
					"panic", fmt.Sprint(rec),
					"stack", string(debug.Stack()))
			}
			respondError(w, http.StatusInternalServerError, "internal_error", msgGeneric)
		}()
		next.ServeHTTP(w, r)
	})
}

// SessionChecker is the part of session.Manager the guard needs.
type SessionChecker interface {
	Check(ctx context.Context, id string) (*domain.Session, error)
}

// TokenParser resolves a session token to the session id.
type TokenParser interface {
	Parse(token string) (string, error)
}

// SessionMiddleware admits requests with a live session. Every admitted
// request counts as activity.
func SessionMiddleware(sessions SessionChecker, tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := sessionToken(r)
			if raw == "" {
				respondSessionExpired(w, "unauthorized")
				return
			}
			sid, err := tokens.Parse(raw)
			if err != nil {
				respondSessionExpired(w, "invalid_token")
				return
			}
			sess, err := sessions.Check(r.Context(), sid)
			switch {
			case errors.Is(err, session.ErrSessionExpired), errors.Is(err, session.ErrSessionNotFound):
				respondSessionExpired(w, "session_expired")
				return
			case err != nil:
				handleError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), sessionCtxKey{}, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// EndpointChecker reports the configured backend url.
type EndpointChecker interface {
	Get(ctx context.Context) (string, error)
}

// FirstRunOrGuarded serves open while the portal has no backend url yet and
// hands every later request to guarded.
func FirstRunOrGuarded(endpoints EndpointChecker, open, guarded http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, err := endpoints.Get(r.Context())
		switch {
		case errors.Is(err, backend.ErrNotConfigured):
			open.ServeHTTP(w, r)
		case err != nil:
			handleError(w, r, err)
		default:
			guarded.ServeHTTP(w, r)
		}
	})
}

// RequireRole refuses users whose role is not listed.
func RequireRole(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := sessionFromContext(r.Context())
			if sess == nil || sess.User == nil {
				respondSessionExpired(w, "unauthorized")
				return
			}
			if !slices.Contains(roles, sess.User.Role) {
				respondError(w, http.StatusForbidden, "forbidden", msgNoAccess)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func sessionToken(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

func respondSessionExpired(w http.ResponseWriter, code string) {
	respondJSON(w, http.StatusUnauthorized, ErrorResponse{
		Error:    msgSession,
		Code:     code,
		Redirect: loginPath,
	})
}

func sessionFromContext(ctx context.Context) *domain.Session {
	if s, ok := ctx.Value(sessionCtxKey{}).(*domain.Session); ok {
		return s
	}
	return nil
}

// currentUser returns the session user or answers 401.
func currentUser(w http.ResponseWriter, r *http.Request) (*domain.Session, bool) {
	sess := sessionFromContext(r.Context())
	if sess == nil || sess.User == nil {
		respondSessionExpired(w, "unauthorized")
		return nil, false
	}
	return sess, true
}
