package retry

import (
	"time"

	"golang.org/x/time/rate"
)

// Option is a functional option for configuring a Retrier at
// construction. Every option has a matching chainable setter method for
// callers that configure a Retrier incrementally before its first Step.
type Option[T any] func(*Retrier[T])

// WithBackoff selects the backoff algorithm.
func WithBackoff[T any](b Backoff) Option[T] {
	return func(r *Retrier[T]) { r.Backoff(b) }
}

// WithJitter selects the jitter strategy applied to base delays.
func WithJitter[T any](j Jitter) Option[T] {
	return func(r *Retrier[T]) { r.Jitter(j) }
}

// WithMaxAttempts bounds the number of retries. Negative means
// unlimited; zero disables retries (only the initial attempt runs).
func WithMaxAttempts[T any](n int) Option[T] {
	return func(r *Retrier[T]) { r.MaxAttempts(n) }
}

// WithMaxDelay caps every base delay; zero means unbounded.
func WithMaxDelay[T any](d time.Duration) Option[T] {
	return func(r *Retrier[T]) { r.MaxDelay(d) }
}

// WithUnit sets the unit in which delays are reported at the boundary,
// e.g. by Simulate.
func WithUnit[T any](u Unit) Option[T] {
	return func(r *Retrier[T]) { r.Unit(u) }
}

// WithImmediateFirstRetry makes the first retry fire immediately and
// shifts the algorithm's sequence by one attempt.
func WithImmediateFirstRetry[T any](enabled bool) Option[T] {
	return func(r *Retrier[T]) { r.ImmediateFirstRetry(enabled) }
}

// WithDelaysEnabled set to false collapses every delay to zero while
// preserving when the run stops; useful in tests.
func WithDelaysEnabled[T any](enabled bool) Option[T] {
	return func(r *Retrier[T]) { r.DelaysEnabled(enabled) }
}

// WithSleeper substitutes the waiting boundary, e.g. a recording fake
// in tests.
func WithSleeper[T any](s Sleeper) Option[T] {
	return func(r *Retrier[T]) { r.SleepWith(s) }
}

// WithRateLimit limits attempt throughput across the run. attemptsPerSec
// is the sustained rate, burst the burst size. Useful when retrying
// against an external service with strict quotas.
func WithRateLimit[T any](attemptsPerSec float64, burst int) Option[T] {
	return func(r *Retrier[T]) { r.RateLimit(attemptsPerSec, burst) }
}

// WithSeed fixes the random seed for deterministic delay sequences in
// tests.
func WithSeed[T any](seed int64) Option[T] {
	return func(r *Retrier[T]) { r.Seed(seed) }
}

// Backoff selects the backoff algorithm.
func (r *Retrier[T]) Backoff(b Backoff) *Retrier[T] {
	r.ensureUnstarted("Backoff")
	r.backoff = b
	return r
}

// Jitter selects the jitter strategy applied to base delays. Ignored
// for intrinsically randomized algorithms (Decorrelated, RandomBetween).
func (r *Retrier[T]) Jitter(j Jitter) *Retrier[T] {
	r.ensureUnstarted("Jitter")
	r.jitter = j
	return r
}

// MaxAttempts bounds the number of retries. Negative means unlimited;
// zero disables retries so only the initial attempt runs.
func (r *Retrier[T]) MaxAttempts(n int) *Retrier[T] {
	r.ensureUnstarted("MaxAttempts")
	r.maxAttempts = n
	return r
}

// MaxDelay caps every base delay before jitter; zero means unbounded.
// Jittered delays are deliberately not re-clamped.
func (r *Retrier[T]) MaxDelay(d time.Duration) *Retrier[T] {
	r.ensureUnstarted("MaxDelay")
	r.maxDelay = d
	return r
}

// Unit sets the unit in which delays are reported at the boundary.
func (r *Retrier[T]) Unit(u Unit) *Retrier[T] {
	r.ensureUnstarted("Unit")
	r.unit = u
	return r
}

// UnitToken is like Unit but parses a unit token such as "ms"; an
// unknown token returns an *InitError.
func (r *Retrier[T]) UnitToken(token string) (*Retrier[T], error) {
	r.ensureUnstarted("UnitToken")
	u, err := ParseUnit(token)
	if err != nil {
		return r, err
	}
	r.unit = u
	return r, nil
}

// ImmediateFirstRetry makes the first retry fire with zero delay; the
// algorithm's own sequence shifts one position later. The algorithm's
// prev-delay chain is fed the real outputs, not the inserted zero.
func (r *Retrier[T]) ImmediateFirstRetry(enabled bool) *Retrier[T] {
	r.ensureUnstarted("ImmediateFirstRetry")
	r.immediateFirst = enabled
	return r
}

// DelaysEnabled set to false collapses every delay to zero while
// preserving the stop behaviour.
func (r *Retrier[T]) DelaysEnabled(enabled bool) *Retrier[T] {
	r.ensureUnstarted("DelaysEnabled")
	r.delaysEnabled = enabled
	return r
}

// RunsAtStartOfLoop makes Step the first call of each loop iteration:
// the very first Step is the initial attempt's no-op entry with no
// preceding delay. This is the default.
func (r *Retrier[T]) RunsAtStartOfLoop() *Retrier[T] {
	r.ensureUnstarted("RunsAtStartOfLoop")
	r.runsAtStart = true
	return r
}

// RunsAtEndOfLoop makes Step the last call of each loop iteration: the
// initial attempt happens before the first Step, and every Step maps
// directly to a retry delay.
func (r *Retrier[T]) RunsAtEndOfLoop() *Retrier[T] {
	r.ensureUnstarted("RunsAtEndOfLoop")
	r.runsAtStart = false
	return r
}

// OnlyDelayWhen set to false forces the delay for upcoming attempts to
// zero without affecting when the run stops. Independent of
// OnlyRetryWhen.
func (r *Retrier[T]) OnlyDelayWhen(enabled bool) *Retrier[T] {
	r.ensureUnstarted("OnlyDelayWhen")
	r.onlyDelay = enabled
	return r
}

// OnlyRetryWhen set to false suppresses attempts entirely: Step returns
// false immediately. Independent of OnlyDelayWhen.
func (r *Retrier[T]) OnlyRetryWhen(enabled bool) *Retrier[T] {
	r.ensureUnstarted("OnlyRetryWhen")
	r.onlyRetry = enabled
	return r
}

// SleepWith substitutes the waiting boundary used by Do.
func (r *Retrier[T]) SleepWith(s Sleeper) *Retrier[T] {
	r.ensureUnstarted("SleepWith")
	if s != nil {
		r.sleeper = s
	}
	return r
}

// RateLimit limits attempt throughput across the run.
func (r *Retrier[T]) RateLimit(attemptsPerSec float64, burst int) *Retrier[T] {
	r.ensureUnstarted("RateLimit")
	if attemptsPerSec > 0 && burst > 0 {
		r.limiter = rate.NewLimiter(rate.Limit(attemptsPerSec), burst)
	}
	return r
}

// Seed fixes the random seed for deterministic delay sequences.
func (r *Retrier[T]) Seed(seed int64) *Retrier[T] {
	r.ensureUnstarted("Seed")
	r.seed = seed
	r.hasSeed = true
	return r
}

// RetryIf marks errors matching pred as retryable. Repeated calls
// append; when any RetryIf/RetryErrors filter is set, errors matching
// none of them abort the run immediately.
func (r *Retrier[T]) RetryIf(pred func(error) bool) *Retrier[T] {
	r.ensureUnstarted("RetryIf")
	if pred != nil {
		r.retryIf = append(r.retryIf, pred)
	}
	return r
}

// RetryErrors marks errors matching any target (via errors.Is) as
// retryable.
func (r *Retrier[T]) RetryErrors(targets ...error) *Retrier[T] {
	r.ensureUnstarted("RetryErrors")
	r.retryErrs = append(r.retryErrs, targets...)
	return r
}

// AbortIf marks errors matching pred as fatal: they propagate
// immediately without further attempts. Abort filters win over retry
// filters.
func (r *Retrier[T]) AbortIf(pred func(error) bool) *Retrier[T] {
	r.ensureUnstarted("AbortIf")
	if pred != nil {
		r.abortIf = append(r.abortIf, pred)
	}
	return r
}

// AbortErrors marks errors matching any target (via errors.Is) as
// fatal.
func (r *Retrier[T]) AbortErrors(targets ...error) *Retrier[T] {
	r.ensureUnstarted("AbortErrors")
	r.abortErrs = append(r.abortErrs, targets...)
	return r
}

// RetryWhen treats values for which pred returns true as invalid
// results: the attempt is logged as rejected and retried.
func (r *Retrier[T]) RetryWhen(pred func(T) bool) *Retrier[T] {
	r.ensureUnstarted("RetryWhen")
	r.retryWhen = pred
	return r
}

// RetryUntil treats values for which pred returns false as invalid
// results, retrying until pred accepts the value.
func (r *Retrier[T]) RetryUntil(pred func(T) bool) *Retrier[T] {
	r.ensureUnstarted("RetryUntil")
	r.retryUntil = pred
	return r
}

// DefaultTo supplies the value returned when every attempt fails. An
// explicit zero value counts as a default; failure callbacks do not
// fire when a default is accepted.
func (r *Retrier[T]) DefaultTo(v T) *Retrier[T] {
	r.ensureUnstarted("DefaultTo")
	r.defaultVal = &v
	return r
}
