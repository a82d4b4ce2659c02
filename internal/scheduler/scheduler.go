package scheduler

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Scheduler fires a task on a fixed interval. Ticks are single-flight: if
// the previous run is still in progress when the ticker fires, the tick is
// skipped rather than overlapped.
type Scheduler struct {
	interval time.Duration
	task     func(ctx context.Context)
	logger   *zap.Logger
	inFlight atomic.Bool
}

// New creates a new scheduler
func New(interval time.Duration, task func(ctx context.Context), logger *zap.Logger) *Scheduler {
	return &Scheduler{
		interval: interval,
		task:     task,
		logger:   logger,
	}
}

// Run fires the task until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info("Scheduler started", zap.Duration("interval", s.interval))
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler stopped")
			return
		case <-ticker.C:
			s.fire(ctx)
		}
	}
}

func (s *Scheduler) fire(ctx context.Context) {
	if !s.inFlight.CompareAndSwap(false, true) {
		s.logger.Warn("Previous run still in progress, skipping tick")
		return
	}
	go func() {
		defer s.inFlight.Store(false)
		s.task(ctx)
	}()
}
