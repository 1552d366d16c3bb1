package masterdata

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/backend"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/cache"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/domain"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/logger"
)

type Fetcher interface {
	MasterData(ctx context.Context) (*domain.MasterData, error)
}

type Service struct {
	endpoints backend.EndpointStore
	fetcher   Fetcher
	cache     cache.MasterDataCache
	sfg       singleflight.Group // Prevents cache stampede
}

func NewService(endpoints backend.EndpointStore, fetcher Fetcher, c cache.MasterDataCache) *Service {
	return &Service{
		endpoints: endpoints,
		fetcher:   fetcher,
		cache:     c,
	}
}

// Get returns the reference lists of the current endpoint. Concurrent
// misses share one backend call.
func (s *Service) Get(ctx context.Context) (*domain.MasterData, error) {
	endpoint, err := s.endpoints.Get(ctx)
	if err != nil {
		return nil, err
	}

	v, err, _ := s.sfg.Do(endpoint, func() (interface{}, error) {
		md, err := s.cache.Get(ctx, endpoint)
		if err == nil {
			return md, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			logger.FromContext(ctx).Warn("master data cache get failed", "err", err)
		}

		md, err = s.fetcher.MasterData(ctx)
		if err != nil {
			return nil, err
		}

		go func() {
			setCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if err := s.cache.Set(setCtx, endpoint, md); err != nil {
				logger.FromContext(ctx).Warn("master data cache set failed", "err", err)
			}
		}()
		return md, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.MasterData), nil
}

// Invalidate drops the cached lists of the current endpoint.
func (s *Service) Invalidate(ctx context.Context) {
	endpoint, err := s.endpoints.Get(ctx)
	if err != nil {
		return
	}
	if err := s.cache.Delete(ctx, endpoint); err != nil {
		logger.FromContext(ctx).Warn("master data cache invalidate failed", "err", err)
	}
}
