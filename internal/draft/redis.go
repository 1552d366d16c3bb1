package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisStore[T any] struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore stores values under "<prefix>:<sid>". The ttl should match
// the session timeout so abandoned drafts expire with their session.
func NewRedisStore[T any](client *redis.Client, prefix string, ttl time.Duration) *RedisStore[T] {
	return &RedisStore[T]{client: client, prefix: prefix, ttl: ttl}
}

func (r *RedisStore[T]) Load(ctx context.Context, sid string) (*T, error) {
	data, err := r.client.Get(ctx, r.key(sid)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	v := new(T)
	if err := json.Unmarshal(data, v); err != nil {
		return nil, fmt.Errorf("unmarshal %s draft failed: %w", r.prefix, err)
	}
	return v, nil
}

func (r *RedisStore[T]) Save(ctx context.Context, sid string, v *T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s draft failed: %w", r.prefix, err)
	}
	if err := r.client.Set(ctx, r.key(sid), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisStore[T]) Delete(ctx context.Context, sid string) error {
	if err := r.client.Del(ctx, r.key(sid)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (r *RedisStore[T]) key(sid string) string {
	return fmt.Sprintf("%s:%s", r.prefix, sid)
}
