// Package jitter provides randomization strategies applied to base retry
// delays to avoid thundering-herd effects.
package jitter

import (
	"fmt"
	"math/rand"
	"time"
)

// Strategy maps a base delay and attempt number to a randomized delay.
// Implementations are never invoked with a zero base delay; the caller
// floors the result at zero.
type Strategy interface {
	Apply(base time.Duration, n int, rng *rand.Rand) time.Duration
}

// Kind identifies a named jitter strategy variant.
type Kind int

const (
	// KindNone applies no randomization.
	KindNone Kind = iota
	// KindFull draws uniformly from [0, base].
	KindFull
	// KindEqual draws uniformly from [base/2, base].
	KindEqual
	// KindRange draws uniformly from [base*minFactor, base*maxFactor].
	KindRange
	// KindCallback delegates to a user function.
	KindCallback
	// KindCustom wraps a user-supplied Strategy implementation.
	KindCustom
)

// Spec carries the construction parameters for a jitter strategy.
type Spec struct {
	Kind Kind

	MinFactor, MaxFactor float64 // range
	Fn                   func(base time.Duration, n int) time.Duration
	Custom               Strategy
}

// New builds the strategy described by spec.
func New(spec Spec) (Strategy, error) {
	switch spec.Kind {
	case KindNone:
		return noJitter{}, nil

	case KindFull:
		return rangeJitter{min: 0, max: 1}, nil

	case KindEqual:
		return rangeJitter{min: 0.5, max: 1}, nil

	case KindRange:
		if spec.MinFactor > spec.MaxFactor {
			return nil, fmt.Errorf("jitter range min factor %g exceeds max factor %g", spec.MinFactor, spec.MaxFactor)
		}
		return rangeJitter{min: spec.MinFactor, max: spec.MaxFactor}, nil

	case KindCallback:
		if spec.Fn == nil {
			return nil, fmt.Errorf("callback jitter requires a non-nil function")
		}
		return callbackJitter{fn: spec.Fn}, nil

	case KindCustom:
		if spec.Custom == nil {
			return nil, fmt.Errorf("custom jitter requires a non-nil Strategy")
		}
		return spec.Custom, nil

	default:
		return nil, fmt.Errorf("unknown jitter kind %d", spec.Kind)
	}
}

// noJitter passes the base delay through unchanged.
type noJitter struct{}

func (noJitter) Apply(base time.Duration, n int, rng *rand.Rand) time.Duration {
	return base
}

// rangeJitter draws uniformly between base*min and base*max.
// Full jitter is the [0, 1] factor range, equal jitter is [0.5, 1].
// Factors above 1 deliberately jitter upward; no upper clamp is applied.
type rangeJitter struct {
	min, max float64
}

func (rj rangeJitter) Apply(base time.Duration, n int, rng *rand.Rand) time.Duration {
	low := float64(base) * rj.min
	high := float64(base) * rj.max
	if high <= low {
		return time.Duration(low)
	}
	return time.Duration(low + rng.Float64()*(high-low)) // #nosec G404 -- crypto rand not needed for backoff jitter
}

// callbackJitter delegates to a user function.
type callbackJitter struct {
	fn func(base time.Duration, n int) time.Duration
}

func (cj callbackJitter) Apply(base time.Duration, n int, rng *rand.Rand) time.Duration {
	return cj.fn(base, n)
}
