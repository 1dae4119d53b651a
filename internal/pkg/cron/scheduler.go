package cron

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// ResyncScheduler runs a single named task no more often than every
// minInterval, outside any foreground request path. After every attempt,
// success or failure, it schedules the next occurrence; at most one pending
// schedule exists at a time, and requesting a new one cancels the previous
// request first. Each attempt must complete before the expiration deadline
// or it is marked failed and rescheduled anyway.
type ResyncScheduler struct {
	name        string
	minInterval time.Duration
	deadline    time.Duration
	fn          func(ctx context.Context) error

	mu        sync.Mutex
	timer     *time.Timer
	scheduled bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewResyncScheduler creates a scheduler for one named recurring task.
func NewResyncScheduler(name string, minInterval, deadline time.Duration, fn func(ctx context.Context) error) *ResyncScheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &ResyncScheduler{
		name:        name,
		minInterval: minInterval,
		deadline:    deadline,
		fn:          fn,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Schedule requests the next occurrence at now + minInterval, cancelling any
// previously pending request first.
func (s *ResyncScheduler) Schedule() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctx.Err() != nil {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.minInterval, s.fire)
	s.scheduled = true
	slog.Info("Background task scheduled", "name", s.name, "in", s.minInterval)
}

// CancelPending drops the pending schedule without stopping the scheduler.
func (s *ResyncScheduler) CancelPending() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.scheduled = false
	slog.Info("Background task cancelled", "name", s.name)
}

// IsScheduled reports whether an occurrence is pending.
func (s *ResyncScheduler) IsScheduled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scheduled
}

// Stop cancels everything and waits for an in-flight attempt to settle.
func (s *ResyncScheduler) Stop() {
	s.cancel()
	s.CancelPending()
	s.wg.Wait()
	slog.Info("Background task scheduler stopped", "name", s.name)
}

func (s *ResyncScheduler) fire() {
	// The stopped check and the in-flight registration must be one atomic
	// step, or Stop's Wait could return while an attempt is still starting.
	s.mu.Lock()
	s.scheduled = false
	if s.ctx.Err() != nil {
		s.mu.Unlock()
		return
	}
	s.wg.Add(1)
	s.mu.Unlock()
	defer s.wg.Done()

	_ = s.RunNow(s.ctx)

	// Reschedule regardless of outcome.
	s.Schedule()
}

// RunNow executes one attempt under the completion deadline and returns its
// outcome. When the deadline fires before the task settles, the attempt is
// reported failed; the task keeps the cancelled context and winds down on
// its own.
func (s *ResyncScheduler) RunNow(ctx context.Context) error {
	runCtx, cancel := context.WithTimeout(ctx, s.deadline)
	defer cancel()

	start := time.Now()
	slog.Debug("Background task starting", "name", s.name)

	done := make(chan error, 1)
	go func() {
		done <- s.fn(runCtx)
	}()

	select {
	case err := <-done:
		if err != nil {
			slog.Error("Background task failed", "name", s.name, "error", err, "duration", time.Since(start))
			return err
		}
		slog.Debug("Background task completed", "name", s.name, "duration", time.Since(start))
		return nil
	case <-runCtx.Done():
		slog.Error("Background task expired before completion", "name", s.name, "duration", time.Since(start))
		return runCtx.Err()
	}
}
