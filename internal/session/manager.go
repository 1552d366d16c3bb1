package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/domain"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/logger"
)

type Authenticator interface {
	Login(ctx context.Context, username, password string) (*domain.User, error)
}

// Manager owns session validity: a session is valid while a user is
// attached and the idle time does not exceed timeout.
type Manager struct {
	store   Store
	auth    Authenticator
	timeout time.Duration
	now     func() time.Time
}

func NewManager(store Store, auth Authenticator, timeout time.Duration) *Manager {
	return &Manager{store: store, auth: auth, timeout: timeout, now: time.Now}
}

func (m *Manager) Timeout() time.Duration {
	return m.timeout
}

func (m *Manager) Login(ctx context.Context, username, password string) (*domain.Session, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, ErrMissingCredentials
	}
	user, err := m.auth.Login(ctx, strings.TrimSpace(username), password)
	if err != nil {
		return nil, err
	}

	now := m.now()
	s := &domain.Session{
		ID:           uuid.NewString(),
		User:         user,
		LastActivity: now,
		CreatedAt:    now,
	}
	if err := m.store.Save(ctx, s); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("user logged in", "user", user.Nama, "role", user.Role)
	return s, nil
}

// Check validates the session and counts the call as activity. An invalid
// session is removed.
func (m *Manager) Check(ctx context.Context, id string) (*domain.Session, error) {
	s, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	now := m.now()
	if s.User == nil || s.Expired(now, m.timeout) {
		if err := m.store.Delete(ctx, id); err != nil {
			logger.FromContext(ctx).Warn("delete expired session failed", "err", err)
		}
		return nil, ErrSessionExpired
	}

	s.LastActivity = now
	if err := m.store.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Touch records activity without other side effects.
func (m *Manager) Touch(ctx context.Context, id string) error {
	_, err := m.Check(ctx, id)
	return err
}

func (m *Manager) Logout(ctx context.Context, id string) error {
	return m.store.Delete(ctx, id)
}

// Sweep logs out every expired session and returns how many were removed.
func (m *Manager) Sweep(ctx context.Context) (int, error) {
	sessions, err := m.store.List(ctx)
	if err != nil {
		return 0, err
	}
	now := m.now()
	removed := 0
	var errs []error
	for _, s := range sessions {
		if s.User != nil && !s.Expired(now, m.timeout) {
			continue
		}
		if err := m.store.Delete(ctx, s.ID); err != nil {
			errs = append(errs, err)
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}

// LogoutAll clears every stored user. Used when the backend endpoint is
// found to be wrong.
func (m *Manager) LogoutAll(ctx context.Context) error {
	sessions, err := m.store.List(ctx)
	if err != nil {
		return err
	}
	var errs []error
	for _, s := range sessions {
		if err := m.store.Delete(ctx, s.ID); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
