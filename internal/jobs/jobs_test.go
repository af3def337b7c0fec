package jobs

import (
	"context"
	"errors"
	"testing"
	"time"
)

type resetFunc func(ctx context.Context)

func (f resetFunc) ResetDaily(ctx context.Context) { f(ctx) }

type sweepFunc func(ctx context.Context) int

func (f sweepFunc) Sweep(ctx context.Context) int { return f(ctx) }

func waitFor(t *testing.T, ch <-chan string, want string) {
	t.Helper()
	select {
	case got := <-ch:
		if got != want {
			t.Errorf("ran %q, want %q", got, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("job %q did not run", want)
	}
}

func TestScheduler_RegistersAndRunsJobs(t *testing.T) {
	s := New(time.UTC, nil)
	reset := make(chan string, 1)
	sweep := make(chan string, 1)
	digest := make(chan string, 1)

	if err := s.DailyReset(resetFunc(func(context.Context) { reset <- "reset" })); err != nil {
		t.Fatal(err)
	}
	sw := sweepFunc(func(context.Context) int {
		sweep <- "sweep"
		return 1
	})
	if err := s.Sweep(sw, time.Hour); err != nil {
		t.Fatal(err)
	}
	err := s.DueDigest(func(context.Context) (int, error) {
		digest <- "digest"
		return 0, errors.New("db closed")
	}, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}

	s.Start()
	defer s.Stop()
	s.RunAll()

	waitFor(t, reset, "reset")
	waitFor(t, sweep, "sweep")
	waitFor(t, digest, "digest")
}

func TestScheduler_InvalidInterval(t *testing.T) {
	s := New(nil, nil)
	if err := s.Sweep(sweepFunc(func(context.Context) int { return 0 }), 0); err == nil {
		t.Error("expected error for a zero interval")
	}
}
