package fleet

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Scheduler drives fleet sweeps on a fixed interval. Ticks launch sweeps
// asynchronously: a sweep that outlives the interval overlaps the next one
// rather than delaying it. Per-printer merges are last-write-wins, so
// overlap is harmless.
type Scheduler struct {
	poller   *Poller
	interval time.Duration
	logger   *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler creates a scheduler that triggers poller sweeps every interval.
func NewScheduler(poller *Poller, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		poller:   poller,
		interval: interval,
		logger:   logger,
	}
}

// Start begins the scheduling loop and returns immediately.
func (s *Scheduler) Start(ctx context.Context) {
	s.ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		// Sweep immediately on start, then on each tick.
		s.tick()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.tick()
			}
		}
	}()
}

// Stop cancels the loop and any in-flight sweeps, then waits for them.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

// Running reports whether the scheduling loop is active.
func (s *Scheduler) Running() bool {
	return s.ctx != nil && s.ctx.Err() == nil
}

func (s *Scheduler) tick() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.poller.PollAll(s.ctx); err != nil {
			s.logger.Warn("scheduled sweep failed", zap.Error(err))
		}
	}()
}
