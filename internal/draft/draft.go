// Package draft keeps per-session page state (the order wizard, the
// selected payment order) between requests.
package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

var ErrNotFound = errors.New("draft not found")

type Store[T any] interface {
	Load(ctx context.Context, sid string) (*T, error)
	Save(ctx context.Context, sid string, v *T) error
	Delete(ctx context.Context, sid string) error
}

// LoadOr returns the stored value, or fresh() when nothing is stored yet.
func LoadOr[T any](ctx context.Context, s Store[T], sid string, fresh func() *T) (*T, error) {
	v, err := s.Load(ctx, sid)
	if errors.Is(err, ErrNotFound) {
		return fresh(), nil
	}
	return v, err
}

// MemoryStore is the in-process Store. Values are kept encoded so a loaded
// value never shares slices with the stored one.
type MemoryStore[T any] struct {
	mu     sync.Mutex
	values map[string][]byte
}

func NewMemoryStore[T any]() *MemoryStore[T] {
	return &MemoryStore[T]{values: make(map[string][]byte)}
}

func (m *MemoryStore[T]) Load(_ context.Context, sid string) (*T, error) {
	m.mu.Lock()
	raw, ok := m.values[sid]
	m.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}
	v := new(T)
	if err := json.Unmarshal(raw, v); err != nil {
		return nil, fmt.Errorf("unmarshal draft failed: %w", err)
	}
	return v, nil
}

func (m *MemoryStore[T]) Save(_ context.Context, sid string, v *T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal draft failed: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[sid] = raw
	return nil
}

func (m *MemoryStore[T]) Delete(_ context.Context, sid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, sid)
	return nil
}
