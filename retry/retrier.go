package retry

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/utkarsh5026/retryme/internal/dispatch"
)

// DefaultMaxAttempts is the retry limit used when none is configured.
const DefaultMaxAttempts = 10

// defaultBackoff is the algorithm used when none is configured.
func defaultBackoff() Backoff {
	return Exponential(100*time.Millisecond, 2)
}

// Retrier drives a loop of attempts for one operation returning T. It
// owns a Calculator for the per-attempt delays, records an Attempt log
// entry per attempt, and dispatches lifecycle callbacks.
//
// A Retrier is mutable only until the first Step (the start of the
// first run); from then on every configuration setter panics with a
// *StateError. It is single-threaded: one goroutine drives the loop,
// and no internal locking is performed.
type Retrier[T any] struct {
	backoff        Backoff
	jitter         Jitter
	maxAttempts    int
	maxDelay       time.Duration
	unit           Unit
	immediateFirst bool
	delaysEnabled  bool
	runsAtStart    bool
	onlyDelay      bool
	onlyRetry      bool
	seed           int64
	hasSeed        bool

	sleeper    Sleeper
	limiter    *rate.Limiter
	retryIf    []func(error) bool
	retryErrs  []error
	abortIf    []func(error) bool
	abortErrs  []error
	retryWhen  func(T) bool
	retryUntil func(T) bool
	defaultVal *T

	cbSuccess dispatch.List
	cbFailure dispatch.List
	cbInvalid dispatch.List
	cbFinally dispatch.List

	calc         *Calculator
	started      bool
	stopped      bool
	steps        int
	pendingDelay time.Duration
	open         *Attempt
	logs         []*Attempt
}

// New creates a Retrier with the given options.
// Defaults: exponential backoff (100ms initial, factor 2), no jitter,
// DefaultMaxAttempts retries, unbounded max delay, delays enabled,
// Step at the start of the loop, real sleeping.
func New[T any](opts ...Option[T]) *Retrier[T] {
	r := &Retrier[T]{
		maxAttempts:   DefaultMaxAttempts,
		unit:          Seconds,
		delaysEnabled: true,
		runsAtStart:   true,
		onlyDelay:     true,
		onlyRetry:     true,
		sleeper:       timerSleeper{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Step advances the state machine by one loop iteration. The first call
// permanently freezes the configuration. It returns false once the run
// has stopped: the calculator signalled stop for the upcoming attempt,
// the retry limit is exhausted, or OnlyRetryWhen(false) disabled
// retries. Otherwise it records the delay for the upcoming attempt
// (query it with Delay) and returns true.
//
// In the default start-of-loop mode the very first Step is the initial
// attempt's no-op entry: it always succeeds with a zero delay.
func (r *Retrier[T]) Step() bool {
	r.start()

	if r.stopped {
		return false
	}
	if !r.wouldStep() {
		r.stopped = true
		return false
	}

	r.steps++
	idx := r.steps
	if r.runsAtStart {
		if r.steps == 1 {
			r.pendingDelay = 0
			return true
		}
		idx = r.steps - 1
	}

	d, _ := r.calc.JitteredDelay(idx)
	if !r.onlyDelay {
		d = 0
	}
	r.pendingDelay = d
	return true
}

// Delay returns the delay recorded by the last successful Step, the
// value the boundary should wait before the upcoming attempt.
func (r *Retrier[T]) Delay() time.Duration {
	return r.pendingDelay
}

// Stopped reports whether the run has reached its terminal state.
func (r *Retrier[T]) Stopped() bool {
	return r.stopped
}

// StartOfAttempt opens the log entry for the upcoming attempt. It
// panics with a *StateError when the run has stopped or an attempt is
// already open.
func (r *Retrier[T]) StartOfAttempt() *Attempt {
	r.start()

	if r.stopped {
		panic(&StateError{Method: "StartOfAttempt", Reason: "run has stopped"})
	}
	if r.open != nil {
		panic(&StateError{Method: "StartOfAttempt", Reason: "an attempt is already open"})
	}

	a := &Attempt{
		Number:      len(r.logs) + 1,
		MaxAttempts: r.maxAttempts,
		Delay:       r.pendingDelay,
		Start:       time.Now(),
		open:        true,
	}
	r.open = a
	r.logs = append(r.logs, a)
	return a
}

// EndOfAttempt closes the open log entry with the attempt's outcome and
// returns it. It panics with a *StateError when no attempt is open.
func (r *Retrier[T]) EndOfAttempt(o Outcome) *Attempt {
	if r.open == nil {
		panic(&StateError{Method: "EndOfAttempt", Reason: "no attempt is open"})
	}

	a := r.open
	a.End = time.Now()
	a.Value = o.Value
	a.Err = o.Err
	a.Invalid = o.Invalid
	a.open = false
	r.open = nil
	return a
}

// Logs returns the attempt log so far as a copied, insertion-ordered
// view. Entries are shared and must be treated as read-only.
func (r *Retrier[T]) Logs() []*Attempt {
	out := make([]*Attempt, len(r.logs))
	copy(out, r.logs)
	return out
}

// Calculator returns the delay calculator, building it on first use.
// Construction fails with an *InitError for invalid static
// configuration such as a random range whose min exceeds its max.
func (r *Retrier[T]) Calculator() (*Calculator, error) {
	if r.calc != nil {
		return r.calc, nil
	}

	calc, err := newCalculator(r.calcConfig())
	if err != nil {
		return nil, err
	}
	r.calc = calc
	return calc, nil
}

func (r *Retrier[T]) calcConfig() calcConfig {
	return calcConfig{
		backoff:        r.backoff,
		jitter:         r.jitter,
		maxRetries:     r.maxAttempts,
		maxDelay:       r.maxDelay,
		unit:           r.unit,
		immediateFirst: r.immediateFirst,
		delaysEnabled:  r.delaysEnabled,
		seed:           r.seed,
		hasSeed:        r.hasSeed,
	}
}

// start flips the Retrier into its running state, freezing the
// configuration and building the calculator. Invalid static
// configuration surfaces here as an *InitError panic; Do reports it as
// an error instead.
func (r *Retrier[T]) start() {
	if r.started {
		return
	}
	if _, err := r.Calculator(); err != nil {
		panic(err)
	}
	r.started = true
	debugLog("retrier started: maxAttempts=%d maxDelay=%v", r.maxAttempts, r.maxDelay)
}

// wouldStep reports whether another Step would succeed, without
// mutating any state. Safe to call between attempts because calculator
// queries are memoized.
func (r *Retrier[T]) wouldStep() bool {
	if r.stopped || !r.onlyRetry {
		return false
	}

	next := r.steps + 1
	idx := next
	if r.runsAtStart {
		if next == 1 {
			return true
		}
		idx = next - 1
	}
	return !r.calc.ShouldStop(idx)
}

// ensureUnstarted guards configuration setters.
func (r *Retrier[T]) ensureUnstarted(method string) {
	if r.started {
		panic(&StateError{Method: method, Reason: "configuration is frozen after the first Step"})
	}
}
