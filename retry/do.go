package retry

import (
	"context"
	"errors"
)

// Operation is the fallible operation guarded by a Retrier.
type Operation[T any] func(ctx context.Context) (T, error)

// ErrNoAttempts is the cause recorded when a run ends without a single
// attempt, e.g. because OnlyRetryWhen(false) disabled the loop.
var ErrNoAttempts = errors.New("retry: no attempts were performed")

// Do runs op under the configured retry policy and returns the accepted
// value. On exhaustion it returns the configured default value if one
// was set, otherwise an *ExhaustedError wrapping the last failure.
// Errors classified as fatal propagate immediately. Waiting between
// attempts goes through the configured Sleeper and respects ctx.
func (r *Retrier[T]) Do(ctx context.Context, op Operation[T]) (T, error) {
	return r.run(ctx, op, nil)
}

// DoWithDefault is Do with an explicit fallback value for this run,
// overriding any DefaultTo configuration.
func (r *Retrier[T]) DoWithDefault(ctx context.Context, op Operation[T], def T) (T, error) {
	return r.run(ctx, op, &def)
}

func (r *Retrier[T]) run(ctx context.Context, op Operation[T], def *T) (T, error) {
	var zero T

	// Surface invalid static configuration as an error rather than the
	// panic Step would raise.
	if _, err := r.Calculator(); err != nil {
		return zero, err
	}
	if def == nil {
		def = r.defaultVal
	}

	var result T
	var lastErr error
	succeeded := false
	fatal := false

	for r.Step() {
		if d := r.Delay(); d > 0 {
			if err := r.sleeper.Sleep(ctx, d); err != nil {
				return zero, r.finish(err)
			}
		}
		if r.limiter != nil {
			if err := r.limiter.Wait(ctx); err != nil {
				return zero, r.finish(err)
			}
		}

		r.StartOfAttempt()
		v, err := op(ctx)

		if err != nil {
			a := r.EndOfAttempt(Failed(err))
			lastErr = err
			if r.retryable(err) {
				debugLog("attempt %d failed (retryable): %v", a.Number, err)
				continue
			}
			debugLog("attempt %d failed (fatal): %v", a.Number, err)
			r.stopped = true
			fatal = true
			break
		}

		if r.invalidResult(v) {
			a := r.EndOfAttempt(Rejected(v))
			lastErr = nil
			willRetry := r.wouldStep()
			debugLog("attempt %d rejected by predicate, willRetry=%v", a.Number, willRetry)
			if cbErr := r.cbInvalid.Invoke(v, a, willRetry, r.Logs()); cbErr != nil {
				return zero, cbErr
			}
			continue
		}

		a := r.EndOfAttempt(Succeeded(v))
		result = v
		succeeded = true
		if cbErr := r.cbSuccess.Invoke(v, a, r.Logs()); cbErr != nil {
			return result, cbErr
		}
		break
	}

	if succeeded {
		return result, r.finish(nil)
	}

	if lastErr == nil {
		if len(r.logs) == 0 {
			lastErr = ErrNoAttempts
		} else {
			lastErr = ErrInvalidResult
		}
	}

	if fatal {
		// Fatal errors propagate as-is; the default does not apply.
		if cbErr := r.failureBatch(lastErr); cbErr != nil {
			return zero, cbErr
		}
		return zero, r.finish(lastErr)
	}

	if def != nil {
		// Default accepted: the run no longer counts as failed, so the
		// failure batch stays silent.
		return *def, r.finish(nil)
	}

	if cbErr := r.failureBatch(lastErr); cbErr != nil {
		return zero, cbErr
	}
	return zero, r.finish(&ExhaustedError{Attempts: len(r.logs), Last: lastErr})
}

// failureBatch dispatches the failure callbacks with the last error and
// attempt as candidates.
func (r *Retrier[T]) failureBatch(lastErr error) error {
	var last *Attempt
	if n := len(r.logs); n > 0 {
		last = r.logs[n-1]
	}
	if last != nil {
		return r.cbFailure.Invoke(lastErr, last, r.Logs())
	}
	return r.cbFailure.Invoke(lastErr, r.Logs())
}

// finish dispatches the finally batch exactly once per run and returns
// either the callback error or the run's own error.
func (r *Retrier[T]) finish(runErr error) error {
	if cbErr := r.cbFinally.Invoke(r.Logs()); cbErr != nil {
		return cbErr
	}
	return runErr
}

// retryable classifies an operation error. Abort filters win; context
// cancellation is always fatal. With no retry filters configured every
// other error is a retry candidate; with filters configured an error
// must match one of them.
func (r *Retrier[T]) retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	for _, target := range r.abortErrs {
		if errors.Is(err, target) {
			return false
		}
	}
	for _, pred := range r.abortIf {
		if pred(err) {
			return false
		}
	}

	if len(r.retryErrs) == 0 && len(r.retryIf) == 0 {
		return true
	}
	for _, target := range r.retryErrs {
		if errors.Is(err, target) {
			return true
		}
	}
	for _, pred := range r.retryIf {
		if pred(err) {
			return true
		}
	}
	return false
}

// invalidResult classifies a returned value against the configured
// result predicates.
func (r *Retrier[T]) invalidResult(v T) bool {
	if r.retryWhen != nil && r.retryWhen(v) {
		return true
	}
	if r.retryUntil != nil && !r.retryUntil(v) {
		return true
	}
	return false
}
