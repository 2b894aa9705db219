package algorithms

import (
	"math"
	"math/rand"
	"time"
)

const (
	maxGrowthAttempts = 63 // Prevent overflow in geometric delay calculation
)

// fixedBackoff returns the same delay for every attempt.
// Delay formula: delay
type fixedBackoff struct {
	delay time.Duration
}

func newFixedBackoff(delay time.Duration) *fixedBackoff {
	return &fixedBackoff{delay: delay}
}

func (fb *fixedBackoff) NextDelay(n int, prev *time.Duration) (time.Duration, bool) {
	if n < 1 {
		return 0, false
	}
	return fb.delay, true
}

func (fb *fixedBackoff) Randomized() bool { return false }

func (fb *fixedBackoff) Reset() {
	// No state to reset
}

// linearBackoff grows the delay by a fixed increment per attempt.
// Delay formula: first + (n-1)*increment
type linearBackoff struct {
	first     time.Duration
	increment time.Duration
}

func newLinearBackoff(first, increment time.Duration) *linearBackoff {
	return &linearBackoff{first: first, increment: increment}
}

func (lb *linearBackoff) NextDelay(n int, prev *time.Duration) (time.Duration, bool) {
	if n < 1 {
		return 0, false
	}
	return lb.first + time.Duration(n-1)*lb.increment, true
}

func (lb *linearBackoff) Randomized() bool { return false }

func (lb *linearBackoff) Reset() {
	// No state to reset
}

// exponentialBackoff implements geometric delay growth.
// Delay formula: first * factor^(n-1)
//
// Delays grow exponentially until they saturate:
// Attempt 1: 1x first
// Attempt 2: factor x first
// Attempt 3: factor^2 x first
// ...capped at math.MaxInt64 to avoid overflow.
type exponentialBackoff struct {
	first  time.Duration
	factor float64
}

func newExponentialBackoff(first time.Duration, factor float64) *exponentialBackoff {
	return &exponentialBackoff{first: first, factor: factor}
}

func (eb *exponentialBackoff) NextDelay(n int, prev *time.Duration) (time.Duration, bool) {
	if n < 1 {
		return 0, false
	}
	return scaleByPower(eb.first, eb.factor, n-1), true
}

func (eb *exponentialBackoff) Randomized() bool { return false }

func (eb *exponentialBackoff) Reset() {
	// No state to reset
}

// polynomialBackoff grows the delay polynomially in the attempt number.
// Delay formula: first * n^power
type polynomialBackoff struct {
	first time.Duration
	power float64
}

func newPolynomialBackoff(first time.Duration, power float64) *polynomialBackoff {
	return &polynomialBackoff{first: first, power: power}
}

func (pb *polynomialBackoff) NextDelay(n int, prev *time.Duration) (time.Duration, bool) {
	if n < 1 {
		return 0, false
	}

	scaled := float64(pb.first) * math.Pow(float64(n), pb.power)
	if scaled >= float64(math.MaxInt64) {
		return time.Duration(math.MaxInt64), true
	}
	return time.Duration(scaled), true
}

func (pb *polynomialBackoff) Randomized() bool { return false }

func (pb *polynomialBackoff) Reset() {
	// No state to reset
}

// fibonacciBackoff follows the Fibonacci sequence scaled so the first
// term equals first.
//
// includeFirstTwice controls whether the sequence starts with the classic
// duplicated first term:
//
//	true:  first, first, 2*first, 3*first, 5*first, ...
//	false: first, 2*first, 3*first, 5*first, 8*first, ...
type fibonacciBackoff struct {
	first             time.Duration
	includeFirstTwice bool
}

func newFibonacciBackoff(first time.Duration, includeFirstTwice bool) *fibonacciBackoff {
	return &fibonacciBackoff{first: first, includeFirstTwice: includeFirstTwice}
}

func (fb *fibonacciBackoff) NextDelay(n int, prev *time.Duration) (time.Duration, bool) {
	if n < 1 {
		return 0, false
	}

	term := n
	if !fb.includeFirstTwice {
		term = n + 1
	}

	// fib(1)=1, fib(2)=1, fib(3)=2, ...
	a, b := int64(1), int64(1)
	for i := 2; i < term; i++ {
		a, b = b, a+b
		if b < 0 {
			return time.Duration(math.MaxInt64), true
		}
	}

	scaled := float64(fb.first) * float64(b)
	if scaled >= float64(math.MaxInt64) {
		return time.Duration(math.MaxInt64), true
	}
	return time.Duration(scaled), true
}

func (fb *fibonacciBackoff) Randomized() bool { return false }

func (fb *fibonacciBackoff) Reset() {
	// No state to reset
}

// decorrelatedBackoff implements AWS-style decorrelated jitter backoff.
// Algorithm: next = max(first, random(first, prev * multiplier))
//
// Each delay depends on the previous delay rather than the attempt number,
// which naturally decorrelates concurrent failures.
//
// Reference: AWS Architecture Blog - "Exponential Backoff And Jitter"
// (Marc Brooker, 2015)
// https://aws.amazon.com/blogs/architecture/exponential-backoff-and-jitter/
//
// The randomness is intrinsic to the algorithm; jitter strategies are
// bypassed when this variant is active.
type decorrelatedBackoff struct {
	first      time.Duration
	multiplier float64
	rng        *rand.Rand
}

func newDecorrelatedBackoff(first time.Duration, multiplier float64, rng *rand.Rand) *decorrelatedBackoff {
	return &decorrelatedBackoff{
		first:      first,
		multiplier: multiplier,
		rng:        rng,
	}
}

func (db *decorrelatedBackoff) NextDelay(n int, prev *time.Duration) (time.Duration, bool) {
	if n < 1 {
		return 0, false
	}

	if prev == nil {
		return db.first, true
	}

	upper := time.Duration(float64(*prev) * db.multiplier)
	if upper <= db.first {
		return db.first, true
	}

	span := int64(upper - db.first)
	delay := db.first + time.Duration(db.rng.Int63n(span+1)) // #nosec G404 -- crypto rand not needed for backoff jitter
	if delay < db.first {
		delay = db.first
	}
	return delay, true
}

func (db *decorrelatedBackoff) Randomized() bool { return true }

func (db *decorrelatedBackoff) Reset() {
	// Stateless given prev; nothing to reset
}

// randomBackoff draws a uniform delay between min and max on every call.
// Intrinsically randomized; jitter strategies are bypassed.
type randomBackoff struct {
	min, max time.Duration
	rng      *rand.Rand
}

func newRandomBackoff(min, max time.Duration, rng *rand.Rand) *randomBackoff {
	return &randomBackoff{min: min, max: max, rng: rng}
}

func (rb *randomBackoff) NextDelay(n int, prev *time.Duration) (time.Duration, bool) {
	if n < 1 {
		return 0, false
	}

	span := int64(rb.max - rb.min)
	if span <= 0 {
		return rb.min, true
	}
	return rb.min + time.Duration(rb.rng.Int63n(span+1)), true // #nosec G404 -- crypto rand not needed for backoff jitter
}

func (rb *randomBackoff) Randomized() bool { return true }

func (rb *randomBackoff) Reset() {
	// No state to reset
}

// sequenceBackoff replays a fixed list of delays.
// Attempt n maps to values[n-1]; once exhausted it repeats the final value
// when repeatLast is set, otherwise it signals stop.
type sequenceBackoff struct {
	values     []time.Duration
	repeatLast bool
}

func newSequenceBackoff(values []time.Duration, repeatLast bool) *sequenceBackoff {
	return &sequenceBackoff{values: values, repeatLast: repeatLast}
}

func (sb *sequenceBackoff) NextDelay(n int, prev *time.Duration) (time.Duration, bool) {
	if n < 1 || len(sb.values) == 0 {
		return 0, false
	}

	if n <= len(sb.values) {
		return sb.values[n-1], true
	}
	if sb.repeatLast {
		return sb.values[len(sb.values)-1], true
	}
	return 0, false
}

func (sb *sequenceBackoff) Randomized() bool { return false }

func (sb *sequenceBackoff) Reset() {
	// No state to reset
}

// callbackBackoff delegates delay calculation to a user function.
// A nil return signals stop.
type callbackBackoff struct {
	fn func(n int, prev *time.Duration) *time.Duration
}

func newCallbackBackoff(fn func(n int, prev *time.Duration) *time.Duration) *callbackBackoff {
	return &callbackBackoff{fn: fn}
}

func (cb *callbackBackoff) NextDelay(n int, prev *time.Duration) (time.Duration, bool) {
	if n < 1 {
		return 0, false
	}

	d := cb.fn(n, prev)
	if d == nil {
		return 0, false
	}
	return *d, true
}

func (cb *callbackBackoff) Randomized() bool { return false }

func (cb *callbackBackoff) Reset() {
	// No state to reset
}

// noopBackoff retries immediately forever: delay 0, never stops.
type noopBackoff struct{}

func (noopBackoff) NextDelay(n int, prev *time.Duration) (time.Duration, bool) {
	if n < 1 {
		return 0, false
	}
	return 0, true
}

func (noopBackoff) Randomized() bool { return false }

func (noopBackoff) Reset() {}

// noneBackoff disables retries: it signals stop on the very first call,
// so exactly one attempt runs in total.
type noneBackoff struct{}

func (noneBackoff) NextDelay(n int, prev *time.Duration) (time.Duration, bool) {
	return 0, false
}

func (noneBackoff) Randomized() bool { return false }

func (noneBackoff) Reset() {}

// scaleByPower computes base * factor^exp, saturating at math.MaxInt64.
// Uses bit shifting for the common factor == 2 case.
func scaleByPower(base time.Duration, factor float64, exp int) time.Duration {
	if exp <= 0 {
		return base
	}

	if factor == 2 {
		if exp >= maxGrowthAttempts {
			return time.Duration(math.MaxInt64)
		}
		mult := int64(1) << uint(exp)
		if int64(base) > math.MaxInt64/mult {
			return time.Duration(math.MaxInt64)
		}
		return base * time.Duration(mult)
	}

	scaled := float64(base) * math.Pow(factor, float64(exp))
	if scaled >= float64(math.MaxInt64) {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(scaled)
}
