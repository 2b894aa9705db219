package algorithms

import (
	"fmt"
	"math/rand"
	"time"
)

// Kind identifies a named backoff algorithm variant.
type Kind int

const (
	// KindFixed waits the same delay before every retry.
	KindFixed Kind = iota
	// KindLinear grows the delay by a fixed increment.
	KindLinear
	// KindExponential grows the delay geometrically.
	KindExponential
	// KindPolynomial grows the delay as first * n^power.
	KindPolynomial
	// KindFibonacci follows a scaled Fibonacci sequence.
	KindFibonacci
	// KindDecorrelated uses AWS-style decorrelated jitter.
	KindDecorrelated
	// KindRandom draws a uniform delay between min and max.
	KindRandom
	// KindSequence replays a fixed list of delays.
	KindSequence
	// KindCallback delegates to a user function.
	KindCallback
	// KindNoop retries immediately forever.
	KindNoop
	// KindNone disables retries entirely.
	KindNone
	// KindCustom wraps a user-supplied Algorithm implementation.
	KindCustom
)

// Spec carries the construction parameters for a backoff algorithm.
// Only the fields relevant to the chosen Kind are consulted.
type Spec struct {
	Kind Kind

	First             time.Duration
	Increment         time.Duration // linear; 0 means First
	Factor            float64       // exponential; 0 means 2
	Power             float64       // polynomial; 0 means 2
	IncludeFirstTwice bool          // fibonacci
	Multiplier        float64       // decorrelated; 0 means 3
	Min, Max          time.Duration // random
	Values            []time.Duration
	RepeatLast        bool
	Fn                func(n int, prev *time.Duration) *time.Duration
	Custom            Algorithm
}

// New builds the algorithm described by spec. Randomized variants draw
// from rng. Invalid parameter combinations return an error.
func New(spec Spec, rng *rand.Rand) (Algorithm, error) {
	switch spec.Kind {
	case KindFixed:
		return newFixedBackoff(spec.First), nil

	case KindLinear:
		inc := spec.Increment
		if inc == 0 {
			inc = spec.First
		}
		return newLinearBackoff(spec.First, inc), nil

	case KindExponential:
		factor := spec.Factor
		if factor == 0 {
			factor = 2
		}
		if factor < 1 {
			return nil, fmt.Errorf("exponential backoff factor must be >= 1, got %g", factor)
		}
		return newExponentialBackoff(spec.First, factor), nil

	case KindPolynomial:
		power := spec.Power
		if power == 0 {
			power = 2
		}
		return newPolynomialBackoff(spec.First, power), nil

	case KindFibonacci:
		return newFibonacciBackoff(spec.First, spec.IncludeFirstTwice), nil

	case KindDecorrelated:
		mult := spec.Multiplier
		if mult == 0 {
			mult = 3
		}
		if mult < 1 {
			return nil, fmt.Errorf("decorrelated backoff multiplier must be >= 1, got %g", mult)
		}
		return newDecorrelatedBackoff(spec.First, mult, rng), nil

	case KindRandom:
		if spec.Min > spec.Max {
			return nil, fmt.Errorf("random backoff min %v exceeds max %v", spec.Min, spec.Max)
		}
		return newRandomBackoff(spec.Min, spec.Max, rng), nil

	case KindSequence:
		if len(spec.Values) == 0 {
			return nil, fmt.Errorf("sequence backoff requires at least one delay value")
		}
		return newSequenceBackoff(spec.Values, spec.RepeatLast), nil

	case KindCallback:
		if spec.Fn == nil {
			return nil, fmt.Errorf("callback backoff requires a non-nil function")
		}
		return newCallbackBackoff(spec.Fn), nil

	case KindNoop:
		return noopBackoff{}, nil

	case KindNone:
		return noneBackoff{}, nil

	case KindCustom:
		if spec.Custom == nil {
			return nil, fmt.Errorf("custom backoff requires a non-nil Algorithm")
		}
		return spec.Custom, nil

	default:
		return nil, fmt.Errorf("unknown backoff kind %d", spec.Kind)
	}
}
