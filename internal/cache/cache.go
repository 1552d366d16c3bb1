package cache

import (
	"context"
	"errors"

	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/domain"
)

// MasterDataCache stores the reference lists per backend endpoint, so a
// changed endpoint never serves the old catalog.
type MasterDataCache interface {
	Get(ctx context.Context, endpoint string) (*domain.MasterData, error)
	Set(ctx context.Context, endpoint string, md *domain.MasterData) error
	Delete(ctx context.Context, endpoint string) error
}

var ErrCacheMiss = errors.New("cache miss")
