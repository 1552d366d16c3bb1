package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/metrics"
)

// Sweeper forces logout of idle sessions on a fixed schedule, even when no
// request arrives for them.
type Sweeper struct {
	manager *Manager
	cron    *cron.Cron
	timeout time.Duration
}

func NewSweeper(manager *Manager, interval time.Duration) (*Sweeper, error) {
	s := &Sweeper{manager: manager, cron: cron.New(), timeout: interval / 2}
	if s.timeout <= 0 {
		s.timeout = time.Second
	}
	if _, err := s.cron.AddFunc(fmt.Sprintf("@every %s", interval), s.run); err != nil {
		return nil, fmt.Errorf("schedule session sweep: %w", err)
	}
	return s, nil
}

func (s *Sweeper) Start() {
	s.cron.Start()
}

// Stop waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Sweeper) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	removed, err := s.manager.Sweep(ctx)
	metrics.SweptSessions.Set(float64(removed))
	if err != nil {
		slog.Warn("session sweep failed", "err", err)
		return
	}
	if removed > 0 {
		slog.Info("expired sessions logged out", "count", removed)
	}
}
