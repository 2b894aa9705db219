package retry

import (
	"math/rand"
	"time"

	"github.com/utkarsh5026/retryme/internal/algorithms"
	"github.com/utkarsh5026/retryme/internal/jitter"
)

// Calculator composes one backoff algorithm, an optional jitter strategy
// and the configured bounds into memoized per-attempt delay queries.
//
// Every query is idempotent per attempt index: an index is computed at
// most once and later queries return the identical cached value, even
// for randomized algorithms and jitter. Reset is the only way to draw a
// fresh sequence.
//
// A Calculator is not safe for concurrent use; each Retrier owns its
// own instance together with its own random source.
type Calculator struct {
	alg            algorithms.Algorithm
	jit            jitter.Strategy // nil means no jitter
	maxRetries     int             // -1 means unlimited
	maxDelay       time.Duration   // <= 0 means unbounded
	unit           Unit
	immediateFirst bool
	delaysEnabled  bool
	rng            *rand.Rand

	algCache map[int]memoized // bounded algorithm chain, by algorithm index
	jitCache map[int]memoized // jittered delays, by attempt index
}

type memoized struct {
	d  time.Duration
	ok bool
}

// calcConfig is the frozen configuration a Calculator is built from.
type calcConfig struct {
	backoff        Backoff
	jitter         Jitter
	maxRetries     int
	maxDelay       time.Duration
	unit           Unit
	immediateFirst bool
	delaysEnabled  bool
	seed           int64
	hasSeed        bool
}

func newCalculator(cfg calcConfig) (*Calculator, error) {
	if !cfg.unit.valid() {
		return nil, &InitError{Reason: "unknown time unit"}
	}

	seed := cfg.seed
	if !cfg.hasSeed {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed)) // #nosec G404 -- crypto rand not needed for backoff jitter

	spec := cfg.backoff.spec
	if !cfg.backoff.set {
		spec = defaultBackoff().spec
	}
	alg, err := algorithms.New(spec, rng)
	if err != nil {
		return nil, &InitError{Reason: "backoff algorithm", Err: err}
	}

	var jit jitter.Strategy
	if cfg.jitter.set && cfg.jitter.spec.Kind != jitter.KindNone {
		jit, err = jitter.New(cfg.jitter.spec)
		if err != nil {
			return nil, &InitError{Reason: "jitter strategy", Err: err}
		}
	}

	return &Calculator{
		alg:            alg,
		jit:            jit,
		maxRetries:     cfg.maxRetries,
		maxDelay:       cfg.maxDelay,
		unit:           cfg.unit,
		immediateFirst: cfg.immediateFirst,
		delaysEnabled:  cfg.delaysEnabled,
		rng:            rng,
		algCache:       make(map[int]memoized),
		jitCache:       make(map[int]memoized),
	}, nil
}

// BaseDelay returns the base delay before 1-based attempt n, already
// clamped to [0, maxDelay]. ok=false means no delay exists for n: n is
// 0 (the initial attempt has no preceding delay), n exceeds the retry
// limit, or the algorithm has signalled stop. Stop is monotonic: once
// not-ok, every later index is not-ok too.
func (c *Calculator) BaseDelay(n int) (time.Duration, bool) {
	if n <= 0 {
		return 0, false
	}
	if c.maxRetries >= 0 && n > c.maxRetries {
		return 0, false
	}

	idx := n
	if c.immediateFirst {
		// The first retry fires immediately; later attempts query the
		// algorithm shifted by one, with the prev chain fed the real
		// algorithm outputs rather than the inserted zero.
		if n == 1 {
			return 0, true
		}
		idx = n - 1
	}

	d, ok := c.algDelay(idx)
	if !ok {
		return 0, false
	}
	if !c.delaysEnabled {
		return 0, true
	}
	return d, true
}

// JitteredDelay returns the randomized delay before attempt n, the value
// actually used to wait. It is not-ok exactly where BaseDelay is not-ok,
// equals the base delay when jitter is absent, the algorithm carries its
// own randomness, or the base is zero, and is floored at zero otherwise.
func (c *Calculator) JitteredDelay(n int) (time.Duration, bool) {
	if m, ok := c.jitCache[n]; ok {
		return m.d, m.ok
	}

	b, ok := c.BaseDelay(n)
	var m memoized
	switch {
	case !ok:
		m = memoized{}
	case c.jit == nil || c.alg.Randomized() || b == 0:
		m = memoized{d: b, ok: true}
	default:
		j := c.jit.Apply(b, n, c.rng)
		if j < 0 {
			j = 0
		}
		m = memoized{d: j, ok: true}
	}

	c.jitCache[n] = m
	return m.d, m.ok
}

// ShouldStop reports whether no further attempt should occur after
// attempt index n-1, i.e. whether the base delay for attempt n does not
// exist. Index 0 denotes the initial attempt and never stops the run.
func (c *Calculator) ShouldStop(n int) bool {
	if n <= 0 {
		return false
	}
	_, ok := c.BaseDelay(n)
	return !ok
}

// Reset drops all memoized values so a fresh sequence, with fresh
// randomness, can be drawn. It returns the calculator for chaining.
func (c *Calculator) Reset() *Calculator {
	c.algCache = make(map[int]memoized)
	c.jitCache = make(map[int]memoized)
	c.alg.Reset()
	return c
}

// Unit returns the unit in which delay values are reported at the
// boundary.
func (c *Calculator) Unit() Unit {
	return c.unit
}

// algDelay walks the bounded algorithm chain up to index i, memoizing
// every step. The prev input fed to the algorithm is the previous
// bounded base delay, so maxDelay caps the growth of chain-dependent
// algorithms such as Decorrelated.
func (c *Calculator) algDelay(i int) (time.Duration, bool) {
	var prev *time.Duration

	for j := 1; j <= i; j++ {
		m, cached := c.algCache[j]
		if !cached {
			d, ok := c.alg.NextDelay(j, prev)
			if ok {
				if d < 0 {
					d = 0
				}
				if c.maxDelay > 0 && d > c.maxDelay {
					d = c.maxDelay
				}
			}
			m = memoized{d: d, ok: ok}
			c.algCache[j] = m
		}
		if !m.ok {
			return 0, false
		}
		p := m.d
		prev = &p
	}

	m := c.algCache[i]
	return m.d, m.ok
}
