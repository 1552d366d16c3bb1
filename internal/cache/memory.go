package cache

import (
	"context"
	"sync"
	"time"

	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/domain"
)

type memoryEntry struct {
	md        *domain.MasterData
	expiresAt time.Time
}

// MemoryCache is used when no redis is configured.
type MemoryCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{ttl: ttl, entries: make(map[string]memoryEntry), now: time.Now}
}

func (m *MemoryCache) Get(_ context.Context, endpoint string) (*domain.MasterData, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[endpoint]
	if !ok || !m.now().Before(e.expiresAt) {
		return nil, ErrCacheMiss
	}
	return e.md, nil
}

func (m *MemoryCache) Set(_ context.Context, endpoint string, md *domain.MasterData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[endpoint] = memoryEntry{md: md, expiresAt: m.now().Add(m.ttl)}
	return nil
}

func (m *MemoryCache) Delete(_ context.Context, endpoint string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, endpoint)
	return nil
}
