package storage

import (
	"context"
	"sync"
	"time"

	"github.com/subba5076/Pizza-Delivery-agent/internal/logger"
)

// IdleSweeper is a store that can drop sessions idle since a given time.
type IdleSweeper interface {
	SweepIdle(ctx context.Context, before time.Time) []string
}

// SweeperOption configures the sweeper.
type SweeperOption func(*Sweeper)

// WithSweepInterval sets how often idle sessions are checked.
func WithSweepInterval(d time.Duration) SweeperOption {
	return func(s *Sweeper) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithOnSweep registers a callback run after every sweep with the ids of
// the sessions removed, possibly none.
func WithOnSweep(fn func(evicted []string)) SweeperOption {
	return func(s *Sweeper) {
		s.onSweep = fn
	}
}

// Sweeper runs in the background and evicts sessions idle longer than ttl.
type Sweeper struct {
	store    IdleSweeper
	log      *logger.Logger
	ttl      time.Duration
	interval time.Duration
	onSweep  func([]string)
	now      func() time.Time

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewSweeper creates a sweeper. The default interval is a quarter of ttl,
// at least one second.
func NewSweeper(store IdleSweeper, ttl time.Duration, log *logger.Logger, opts ...SweeperOption) *Sweeper {
	interval := ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	s := &Sweeper{
		store:    store,
		log:      log,
		ttl:      ttl,
		interval: interval,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins the background sweep loop. Non-blocking.
func (s *Sweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		s.log.Warn("session sweeper already running")
		return
	}

	childCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true
	s.done = make(chan struct{})

	go s.loop(childCtx, s.done)

	s.log.Info("session sweeper started (ttl=%s, every=%s)", s.ttl, s.interval)
}

// Stop shuts the loop down and waits for it to exit.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.cancel()
	s.running = false
	done := s.done
	s.mu.Unlock()

	<-done
	s.log.Info("session sweeper stopped")
}

// SweepOnce evicts idle sessions now and returns how many were removed.
func (s *Sweeper) SweepOnce(ctx context.Context) int {
	evicted := s.store.SweepIdle(ctx, s.now().Add(-s.ttl))
	if len(evicted) > 0 {
		s.log.Info("evicted %d idle sessions", len(evicted))
	}
	if s.onSweep != nil {
		s.onSweep(evicted)
	}
	return len(evicted)
}

func (s *Sweeper) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}
