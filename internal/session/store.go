package session

import (
	"context"
	"errors"

	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/domain"
)

var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
	ErrMissingCredentials = errors.New("username and password are required")
	ErrInvalidToken       = errors.New("invalid session token")
)

type Store interface {
	Get(ctx context.Context, id string) (*domain.Session, error)
	Save(ctx context.Context, s *domain.Session) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.Session, error)
}
