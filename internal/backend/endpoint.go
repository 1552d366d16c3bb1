package backend

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
)

const endpointKey = "portal:backend_url"

var ErrInvalidURL = errors.New("backend url must be an absolute http(s) url")

// EndpointStore keeps the backend url chosen at runtime.
type EndpointStore interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, rawURL string) error
	Clear(ctx context.Context) error
}

// ParseEndpoint trims and checks a user supplied url.
func ParseEndpoint(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", ErrInvalidURL
	}
	return rawURL, nil
}

type RedisEndpointStore struct {
	client *redis.Client
}

func NewRedisEndpointStore(client *redis.Client) *RedisEndpointStore {
	return &RedisEndpointStore{client: client}
}

func (s *RedisEndpointStore) Get(ctx context.Context) (string, error) {
	v, err := s.client.Get(ctx, endpointKey).Result()
	if errors.Is(err, redis.Nil) || (err == nil && v == "") {
		return "", ErrNotConfigured
	}
	if err != nil {
		return "", fmt.Errorf("redis get failed: %w", err)
	}
	return v, nil
}

func (s *RedisEndpointStore) Set(ctx context.Context, rawURL string) error {
	u, err := ParseEndpoint(rawURL)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, endpointKey, u, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s *RedisEndpointStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, endpointKey).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

type MemoryEndpointStore struct {
	mu  sync.RWMutex
	url string
}

func NewMemoryEndpointStore(initial string) *MemoryEndpointStore {
	s := &MemoryEndpointStore{}
	if u, err := ParseEndpoint(initial); err == nil {
		s.url = u
	}
	return s
}

func (s *MemoryEndpointStore) Get(context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.url == "" {
		return "", ErrNotConfigured
	}
	return s.url, nil
}

func (s *MemoryEndpointStore) Set(_ context.Context, rawURL string) error {
	u, err := ParseEndpoint(rawURL)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.url = u
	s.mu.Unlock()
	return nil
}

func (s *MemoryEndpointStore) Clear(context.Context) error {
	s.mu.Lock()
	s.url = ""
	s.mu.Unlock()
	return nil
}
