package retry

import (
	"math/rand"
	"time"

	"github.com/utkarsh5026/retryme/internal/algorithms"
	"github.com/utkarsh5026/retryme/internal/jitter"
)

// Backoff selects the algorithm that produces base retry delays. Build
// one with the constructors below and hand it to WithBackoff or
// (*Retrier).Backoff.
type Backoff struct {
	spec algorithms.Spec
	set  bool
}

// BackoffAlgorithm is the contract for user-implemented backoff
// algorithms plugged in via CustomBackoff. NextDelay returns the base
// delay before 1-based retry n (prev is the previous base delay, nil
// before the first) or ok=false to stop retrying. Randomized algorithms
// report true so jitter is bypassed.
type BackoffAlgorithm interface {
	NextDelay(n int, prev *time.Duration) (d time.Duration, ok bool)
	Randomized() bool
	Reset()
}

// Fixed waits the same delay before every retry.
func Fixed(delay time.Duration) Backoff {
	return Backoff{spec: algorithms.Spec{Kind: algorithms.KindFixed, First: delay}, set: true}
}

// Linear grows the delay by increment per retry: first, first+increment,
// first+2*increment, ... An increment of 0 means the increment equals
// first.
func Linear(first, increment time.Duration) Backoff {
	return Backoff{spec: algorithms.Spec{Kind: algorithms.KindLinear, First: first, Increment: increment}, set: true}
}

// Exponential grows the delay geometrically: first, first*factor,
// first*factor^2, ... A factor of 0 means 2.
func Exponential(first time.Duration, factor float64) Backoff {
	return Backoff{spec: algorithms.Spec{Kind: algorithms.KindExponential, First: first, Factor: factor}, set: true}
}

// Polynomial grows the delay as first * n^power for retry n. A power of
// 0 means 2.
func Polynomial(first time.Duration, power float64) Backoff {
	return Backoff{spec: algorithms.Spec{Kind: algorithms.KindPolynomial, First: first, Power: power}, set: true}
}

// Fibonacci follows the Fibonacci sequence scaled so the first term
// equals first. includeFirstTwice selects the classic duplicated start
// (first, first, 2*first, ...) over (first, 2*first, 3*first, ...).
func Fibonacci(first time.Duration, includeFirstTwice bool) Backoff {
	return Backoff{spec: algorithms.Spec{Kind: algorithms.KindFibonacci, First: first, IncludeFirstTwice: includeFirstTwice}, set: true}
}

// Decorrelated implements AWS-style decorrelated jitter: each delay is
// drawn uniformly between first and the previous delay times multiplier,
// clamped to at least first. A multiplier of 0 means 3. The randomness
// is intrinsic, so jitter strategies are bypassed.
func Decorrelated(first time.Duration, multiplier float64) Backoff {
	return Backoff{spec: algorithms.Spec{Kind: algorithms.KindDecorrelated, First: first, Multiplier: multiplier}, set: true}
}

// RandomBetween draws a uniform delay between min and max before every
// retry. Intrinsically randomized; jitter strategies are bypassed.
// min > max is an InitError at first use.
func RandomBetween(min, max time.Duration) Backoff {
	return Backoff{spec: algorithms.Spec{Kind: algorithms.KindRandom, Min: min, Max: max}, set: true}
}

// Sequence replays the given delays in order: values[0] before the first
// retry, values[1] before the second, and so on. Once exhausted it
// repeats the final value when repeatLast is set, otherwise retrying
// stops.
func Sequence(repeatLast bool, values ...time.Duration) Backoff {
	vals := make([]time.Duration, len(values))
	copy(vals, values)
	return Backoff{spec: algorithms.Spec{Kind: algorithms.KindSequence, Values: vals, RepeatLast: repeatLast}, set: true}
}

// BackoffFunc delegates delay calculation to fn; returning nil stops
// retrying.
func BackoffFunc(fn func(n int, prev *time.Duration) *time.Duration) Backoff {
	return Backoff{spec: algorithms.Spec{Kind: algorithms.KindCallback, Fn: fn}, set: true}
}

// NoBackoff retries immediately (delay 0) and never stops on its own;
// only external limits such as MaxAttempts end the run.
func NoBackoff() Backoff {
	return Backoff{spec: algorithms.Spec{Kind: algorithms.KindNoop}, set: true}
}

// NoRetries disables retrying entirely: exactly one attempt runs.
func NoRetries() Backoff {
	return Backoff{spec: algorithms.Spec{Kind: algorithms.KindNone}, set: true}
}

// CustomBackoff wraps a user-implemented algorithm.
func CustomBackoff(alg BackoffAlgorithm) Backoff {
	return Backoff{spec: algorithms.Spec{Kind: algorithms.KindCustom, Custom: alg}, set: true}
}

// Jitter selects the randomization applied to base delays. The zero
// value applies no jitter.
type Jitter struct {
	spec jitter.Spec
	set  bool
}

// JitterStrategy is the contract for user-implemented jitter plugged in
// via CustomJitter. Apply receives a positive base delay and the 1-based
// attempt number; the result is floored at zero by the engine but never
// clamped from above.
type JitterStrategy interface {
	Apply(base time.Duration, n int, rng *rand.Rand) time.Duration
}

// NoJitter applies no randomization.
func NoJitter() Jitter {
	return Jitter{spec: jitter.Spec{Kind: jitter.KindNone}, set: true}
}

// FullJitter draws uniformly from [0, base].
func FullJitter() Jitter {
	return Jitter{spec: jitter.Spec{Kind: jitter.KindFull}, set: true}
}

// EqualJitter draws uniformly from [base/2, base].
func EqualJitter() Jitter {
	return Jitter{spec: jitter.Spec{Kind: jitter.KindEqual}, set: true}
}

// RangeJitter draws uniformly from [base*minFactor, base*maxFactor].
// Factors above 1 deliberately jitter upward. minFactor > maxFactor is
// an InitError at first use.
func RangeJitter(minFactor, maxFactor float64) Jitter {
	return Jitter{spec: jitter.Spec{Kind: jitter.KindRange, MinFactor: minFactor, MaxFactor: maxFactor}, set: true}
}

// JitterFunc delegates jitter to fn.
func JitterFunc(fn func(base time.Duration, n int) time.Duration) Jitter {
	return Jitter{spec: jitter.Spec{Kind: jitter.KindCallback, Fn: fn}, set: true}
}

// CustomJitter wraps a user-implemented strategy.
func CustomJitter(s JitterStrategy) Jitter {
	return Jitter{spec: jitter.Spec{Kind: jitter.KindCustom, Custom: s}, set: true}
}
