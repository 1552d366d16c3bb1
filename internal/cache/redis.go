package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/domain"
)

func NewRedisCache(client *redis.Client, baseTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:  client,
		baseTTL: baseTTL,
	}
}

type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func (r RedisCache) Get(ctx context.Context, endpoint string) (*domain.MasterData, error) {
	data, err := r.client.Get(ctx, cacheKey(endpoint)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var md domain.MasterData
	if err := json.Unmarshal(data, &md); err != nil {
		return nil, fmt.Errorf("unmarshal master data failed: %w", err)
	}
	return &md, nil
}

// Set stores md with the base TTL plus up to 5 minutes of jitter, so pods
// do not all refill at the same moment.
func (r RedisCache) Set(ctx context.Context, endpoint string, md *domain.MasterData) error {
	raw, err := json.Marshal(md)
	if err != nil {
		return fmt.Errorf("marshal master data failed: %w", err)
	}

	jitter := time.Duration(rand.Intn(5)) * time.Minute
	if err := r.client.Set(ctx, cacheKey(endpoint), raw, r.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r RedisCache) Delete(ctx context.Context, endpoint string) error {
	if err := r.client.Del(ctx, cacheKey(endpoint)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cacheKey(endpoint string) string {
	sum := sha1.Sum([]byte(endpoint))
	return fmt.Sprintf("masterdata:%s", hex.EncodeToString(sum[:8]))
}
