package retry

import (
	"context"
	"time"
)

// Sleeper performs the actual waiting between attempts. The engine only
// computes delay values; suspending execution is the boundary's job, so
// tests can substitute a recording fake and async callers can plug in a
// timer of their own.
type Sleeper interface {
	// Sleep blocks for d or until ctx is done, returning ctx.Err() in
	// the latter case. Zero and negative durations return immediately.
	Sleep(ctx context.Context, d time.Duration) error
}

// SleeperFunc adapts a function to the Sleeper interface.
type SleeperFunc func(ctx context.Context, d time.Duration) error

// Sleep calls fn.
func (fn SleeperFunc) Sleep(ctx context.Context, d time.Duration) error {
	return fn(ctx, d)
}

// timerSleeper is the default Sleeper, backed by a time.Timer that
// respects context cancellation.
type timerSleeper struct{}

func (timerSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
