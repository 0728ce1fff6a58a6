package session

import (
	"context"
	"time"

	"github.com/brightbroom/booking-platform/pkg/logging"
)

// Sweeper periodically evicts idle sessions from a Sweepable store. It runs
// independently of inbound traffic and never blocks message handling; the
// store's own locking keeps eviction safe against in-flight mutations.
type Sweeper struct {
	store    Sweepable
	ttl      time.Duration
	interval time.Duration
	logger   *logging.Logger
	onEvict  func(count int)
	done     chan struct{}
}

// NewSweeper creates a sweeper that evicts sessions idle longer than ttl,
// checking every interval. onEvict may be nil.
func NewSweeper(store Sweepable, ttl, interval time.Duration, logger *logging.Logger, onEvict func(count int)) *Sweeper {
	if store == nil {
		panic("session: sweepable store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Sweeper{
		store:    store,
		ttl:      ttl,
		interval: interval,
		logger:   logger,
		onEvict:  onEvict,
		done:     make(chan struct{}),
	}
}

// Start launches the background sweep loop.
func (s *Sweeper) Start() {
	go s.run()
	s.logger.Info("session sweeper started", "ttl", s.ttl, "interval", s.interval)
}

// Stop terminates the sweep loop.
func (s *Sweeper) Stop() {
	close(s.done)
	s.logger.Info("session sweeper stopped")
}

func (s *Sweeper) run() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().Add(-s.ttl)
	count, err := s.store.Sweep(ctx, cutoff)
	if err != nil {
		s.logger.Error("session sweep failed", "error", err)
		return
	}
	if count > 0 {
		s.logger.Info("evicted idle sessions", "count", count)
	}
	if s.onEvict != nil && count > 0 {
		s.onEvict(count)
	}
}
