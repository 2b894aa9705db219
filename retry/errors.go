package retry

import (
	"errors"
	"fmt"
)

// ErrInvalidResult is the cause recorded when a run ends because every
// attempt produced a value that was rejected by the configured result
// predicate, so no operation error is available.
var ErrInvalidResult = errors.New("retry: result rejected by predicate")

// InitError reports invalid static configuration: an unknown time unit
// token, a random range whose min exceeds its max, a jitter factor range
// out of order, or a non-function callback registration. It is detected
// at construction/registration time and never retried.
type InitError struct {
	Reason string
	Err    error
}

func (e *InitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("retry: invalid configuration: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("retry: invalid configuration: %s", e.Reason)
}

func (e *InitError) Unwrap() error { return e.Err }

// StateError reports a protocol violation on a Retrier: reconfiguring it
// after the first Step, closing an attempt that was never opened, or
// opening an attempt after the run has stopped. It names the offending
// method and indicates programmer error, so it is raised as a panic and
// never retried.
type StateError struct {
	Method string
	Reason string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("retry: %s: %s", e.Method, e.Reason)
}

// ExhaustedError is returned by Do when every attempt has been used
// without an accepted result and no default value was configured. It
// wraps the last failure so errors.Is and errors.As reach the cause.
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("retry: exhausted after %d attempt(s): %v", e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error { return e.Last }
