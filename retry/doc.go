// Package retry provides a small, well-documented retry engine that
// computes and executes backoff delay sequences for fallible operations.
//
// The primary type is Retrier[T], a configurable attempt state machine
// guarding an operation that returns T. It composes a backoff algorithm,
// an optional jitter strategy, bounds and timing flags into a memoizing
// delay Calculator, drives the attempt loop, records an Attempt log and
// dispatches lifecycle callbacks with signature-matched arguments.
//
// # Basic Usage
//
//	r := retry.New[string](
//	    retry.WithBackoff[string](retry.Exponential(100*time.Millisecond, 2)),
//	    retry.WithJitter[string](retry.FullJitter()),
//	    retry.WithMaxAttempts[string](5),
//	)
//	value, err := r.Do(ctx, func(ctx context.Context) (string, error) {
//	    return client.Fetch(ctx)
//	})
//
// # Backoff Algorithms
//
// Delay growth is pluggable: Fixed, Linear, Exponential, Polynomial,
// Fibonacci, Decorrelated (AWS-style), RandomBetween, Sequence,
// BackoffFunc, NoBackoff (retry immediately forever) and NoRetries
// (exactly one attempt). Decorrelated and RandomBetween carry their own
// randomness, so jitter strategies are bypassed for them.
//
// # Jitter
//
// Base delays can be randomized to avoid thundering-herd effects:
// FullJitter draws from [0, base], EqualJitter from [base/2, base],
// RangeJitter from a custom factor range, and JitterFunc delegates to
// user code. Jittered delays are floored at zero but never re-clamped
// to the max-delay bound; bounding happens on the base delay.
//
// # Classification
//
// An attempt ends in one of four ways: an accepted value, a retryable
// error (RetryErrors / RetryIf), a fatal error (AbortErrors / AbortIf,
// context cancellation, or any error outside the configured retry
// filters), or an invalid result — a returned value rejected by
// RetryWhen / RetryUntil. Retryable errors and invalid results consume
// attempts; fatal errors propagate immediately.
//
// # Callbacks
//
//	r.OnSuccess(func(v string, a *retry.Attempt) { ... })
//	r.OnFailure(func(err error, logs []*retry.Attempt) { ... })
//	r.OnInvalidResult(func(v string, willRetry bool) { ... })
//	r.OnFinally(func(logs []*retry.Attempt) { ... })
//
// Each registered callback receives the subset of the candidate
// arguments matching its parameter types; incompatible callbacks are
// skipped rather than failing. Registration accepts single functions,
// several at once, or nested slices, flattened in order.
//
// # Manual Loops
//
// Callers that need full control drive the state machine directly:
//
//	for r.Step() {
//	    sleep(r.Delay()) // boundary's job; the engine never sleeps
//	    r.StartOfAttempt()
//	    out, err := operation()
//	    r.EndOfAttempt(retry.Failed(err))
//	}
//
// The first Step permanently freezes the configuration; any later
// setter call panics with a *StateError naming the method.
//
// # Simulation
//
// Simulate produces the generated delay sequence (base and jittered)
// for a number of attempts without executing anything, for tests and
// previews. Fix the random seed with Seed for reproducible sequences.
//
// The engine itself never blocks: waiting is delegated to a Sleeper,
// substitutable with a recording fake in tests. A Retrier is meant to
// be driven by a single goroutine; concurrent runs need one Retrier
// each.
package retry
