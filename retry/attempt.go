package retry

import "time"

// Attempt is the immutable record of a single attempt. The engine opens
// one entry per attempt, closes it with the outcome, and appends it to
// the run's log; closed entries are never mutated again.
type Attempt struct {
	// Number is the 1-based attempt number (1 is the initial attempt).
	Number int
	// MaxAttempts is the retry limit in effect for the run, -1 when
	// unlimited.
	MaxAttempts int
	// Delay is the delay that was applied before this attempt.
	Delay time.Duration
	// Start and End bound the attempt's execution.
	Start time.Time
	End   time.Time
	// Value is the operation's result, valid when Err is nil.
	Value any
	// Err is the operation's error, nil on success or invalid result.
	Err error
	// Invalid marks a returned value that was rejected by the
	// configured result predicate.
	Invalid bool

	open bool
}

// Outcome describes how an attempt ended; pass it to EndOfAttempt.
type Outcome struct {
	Value   any
	Err     error
	Invalid bool
}

// Succeeded builds the outcome for an accepted result value.
func Succeeded(value any) Outcome {
	return Outcome{Value: value}
}

// Failed builds the outcome for an operation error.
func Failed(err error) Outcome {
	return Outcome{Err: err}
}

// Rejected builds the outcome for a value refused by the result
// predicate.
func Rejected(value any) Outcome {
	return Outcome{Value: value, Invalid: true}
}

// Success reports whether the attempt ended with an accepted value.
func (a *Attempt) Success() bool {
	return !a.open && a.Err == nil && !a.Invalid
}

// Duration returns the attempt's execution time, zero while still open.
func (a *Attempt) Duration() time.Duration {
	if a.open || a.End.Before(a.Start) {
		return 0
	}
	return a.End.Sub(a.Start)
}
