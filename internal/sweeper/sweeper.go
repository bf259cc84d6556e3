// Package sweeper runs the periodic hold expiry pass. Expiry itself is
// data-driven and enforced lazily by every read path; the sweep only
// bounds how long a lapsed hold keeps its slot blocked.
package sweeper

import (
	"context"
	"log/slog"
	"time"

	"visitdesk/internal/usecase/commands"
)

type Sweeper struct {
	holds    *commands.HoldCommands
	interval time.Duration
	logger   *slog.Logger
	cancel   context.CancelFunc
	done     chan struct{}
}

func New(holds *commands.HoldCommands, interval time.Duration, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		holds:    holds,
		interval: interval,
		logger:   logger,
	}
}

func (s *Sweeper) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.run(ctx)
}

func (s *Sweeper) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
}

func (s *Sweeper) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	expired, err := s.holds.ExpireHolds(ctx)
	if err != nil {
		s.logger.Error("hold sweep failed", slog.Any("error", err))
		return
	}
	if expired > 0 {
		s.logger.Info("expired lapsed holds", slog.Int("count", expired))
	}
}
