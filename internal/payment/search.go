package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/domain"
)

const MinQueryLength = 3

// ErrSuperseded is returned to a search call replaced by a newer one for the
// same key before it completed.
var ErrSuperseded = errors.New("search superseded by a newer query")

type OrderFinder interface {
	SearchOrders(ctx context.Context, query, filterBy string) ([]domain.Order, error)
}

// Searcher debounces order searches per key (the session id). Only the last
// call inside the window reaches the backend.
type Searcher struct {
	finder OrderFinder
	delay  time.Duration

	mu     sync.Mutex
	seq    uint64
	latest map[string]uint64
}

func NewSearcher(finder OrderFinder, delay time.Duration) *Searcher {
	return &Searcher{
		finder: finder,
		delay:  delay,
		latest: make(map[string]uint64),
	}
}

// Search waits out the debounce window, then queries all fields and applies
// the status filter locally. status "" or "all" keeps every order.
func (s *Searcher) Search(ctx context.Context, key, query, status string) ([]domain.Order, error) {
	query = strings.TrimSpace(query)
	ticket := s.begin(key)
	defer s.end(key, ticket)

	if utf8.RuneCountInString(query) < MinQueryLength {
		return []domain.Order{}, nil
	}

	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
	}
	if !s.current(key, ticket) {
		return nil, ErrSuperseded
	}

	orders, err := s.finder.SearchOrders(ctx, query, "all")
	if err != nil {
		return nil, err
	}
	if !s.current(key, ticket) {
		return nil, ErrSuperseded
	}
	return FilterStatus(orders, status), nil
}

// Lookup fetches the order with exactly this id from the backend.
func (s *Searcher) Lookup(ctx context.Context, id string) (*domain.Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrNoOrder
	}
	orders, err := s.finder.SearchOrders(ctx, id, "id")
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].IDPesanan.String() == id {
			o := orders[i]
			return &o, nil
		}
	}
	return nil, fmt.Errorf("pesanan %s: %w", id, domain.ErrNotFound)
}

func FilterStatus(orders []domain.Order, status string) []domain.Order {
	if status == "" || status == "all" {
		return orders
	}
	out := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		if string(o.Status) == status {
			out = append(out, o)
		}
	}
	return out
}

func (s *Searcher) begin(key string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.latest[key] = s.seq
	return s.seq
}

func (s *Searcher) current(key string, ticket uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest[key] == ticket
}

func (s *Searcher) end(key string, ticket uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.latest[key] == ticket {
		delete(s.latest, key)
	}
}
