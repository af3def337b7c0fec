// Package jobs runs the periodic background work of the server.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

// Resetter regenerates daily state such as challenges.
type Resetter interface {
	ResetDaily(ctx context.Context)
}

// Sweeper evicts idle resources and reports how many were removed.
type Sweeper interface {
	Sweep(ctx context.Context) int
}

// Scheduler wraps a gocron scheduler.
type Scheduler struct {
	cron   *gocron.Scheduler
	logger *slog.Logger
}

// New returns a stopped scheduler whose daily jobs fire in loc.
func New(loc *time.Location, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{cron: gocron.NewScheduler(loc), logger: logger}
}

// DailyReset calls r at local midnight.
func (s *Scheduler) DailyReset(r Resetter) error {
	_, err := s.cron.Every(1).Day().At("00:00").Tag("daily-reset").Do(func() {
		s.logger.Info("running daily reset")
		r.ResetDaily(context.Background())
	})
	if err != nil {
		return fmt.Errorf("schedule daily reset: %w", err)
	}
	return nil
}

// Sweep calls sw every interval, starting one interval from now.
func (s *Scheduler) Sweep(sw Sweeper, every time.Duration) error {
	_, err := s.cron.Every(every).WaitForSchedule().Tag("sweep").Do(func() {
		if n := sw.Sweep(context.Background()); n > 0 {
			s.logger.Info("sweep removed idle sessions", "count", n)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule sweep: %w", err)
	}
	return nil
}

// DueDigest logs the number of reviews due every interval.
func (s *Scheduler) DueDigest(count func(ctx context.Context) (int, error), every time.Duration) error {
	_, err := s.cron.Every(every).WaitForSchedule().Tag("due-digest").Do(func() {
		n, err := count(context.Background())
		if err != nil {
			s.logger.Warn("count due reviews failed", "error", err)
			return
		}
		s.logger.Info("reviews due", "count", n)
	})
	if err != nil {
		return fmt.Errorf("schedule due digest: %w", err)
	}
	return nil
}

// Len returns the number of registered jobs.
func (s *Scheduler) Len() int {
	return s.cron.Len()
}

// Start runs the scheduler in the background.
func (s *Scheduler) Start() {
	s.cron.StartAsync()
}

// RunAll triggers every job once without waiting for its schedule.
func (s *Scheduler) RunAll() {
	s.cron.RunAll()
}

// Stop halts the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}
