package retry

import (
	"errors"
	"testing"
	"time"
)

func newTestCalc(t *testing.T, cfg calcConfig) *Calculator {
	t.Helper()
	c, err := newCalculator(cfg)
	if err != nil {
		t.Fatalf("newCalculator() error = %v", err)
	}
	return c
}

// testCfg returns a deterministic configuration with the defaults a
// fresh Retrier would use.
func testCfg(b Backoff) calcConfig {
	return calcConfig{
		backoff:       b,
		maxRetries:    DefaultMaxAttempts,
		unit:          Seconds,
		delaysEnabled: true,
		seed:          1,
		hasSeed:       true,
	}
}

// baseChain collects the base delays for attempts 1..n, stopping early
// when the calculator signals stop.
func baseChain(c *Calculator, n int) []time.Duration {
	var out []time.Duration
	for i := 1; i <= n; i++ {
		d, ok := c.BaseDelay(i)
		if !ok {
			break
		}
		out = append(out, d)
	}
	return out
}

func TestCalculator_BaseDelaySequences(t *testing.T) {
	tests := []struct {
		name string
		cfg  calcConfig
		want []time.Duration
	}{
		{
			name: "fixed repeats the same delay",
			cfg:  testCfg(Fixed(5 * time.Second)),
			want: []time.Duration{
				5 * time.Second, 5 * time.Second, 5 * time.Second, 5 * time.Second, 5 * time.Second,
				5 * time.Second, 5 * time.Second, 5 * time.Second, 5 * time.Second, 5 * time.Second,
			},
		},
		{
			name: "linear grows by the increment",
			cfg:  testCfg(Linear(5*time.Second, 10*time.Second)),
			want: []time.Duration{
				5 * time.Second, 15 * time.Second, 25 * time.Second, 35 * time.Second, 45 * time.Second,
				55 * time.Second, 65 * time.Second, 75 * time.Second, 85 * time.Second, 95 * time.Second,
			},
		},
		{
			name: "sequence repeats its last value",
			cfg: testCfg(Sequence(true,
				9*time.Second, 8*time.Second, 7*time.Second, 6*time.Second, 5*time.Second)),
			want: []time.Duration{
				9 * time.Second, 8 * time.Second, 7 * time.Second, 6 * time.Second, 5 * time.Second,
				5 * time.Second, 5 * time.Second, 5 * time.Second, 5 * time.Second, 5 * time.Second,
			},
		},
		{
			name: "exhausted sequence stops",
			cfg:  testCfg(Sequence(false, 1*time.Second, 2*time.Second)),
			want: []time.Duration{1 * time.Second, 2 * time.Second},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCalc(t, tt.cfg)
			got := baseChain(c, 20)
			if len(got) != len(tt.want) {
				t.Fatalf("baseChain() produced %d delays, want %d", len(got), len(tt.want))
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("BaseDelay(%d) = %v, want %v", i+1, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestCalculator_MaxDelayAndNegativeClamping(t *testing.T) {
	cfg := testCfg(Sequence(false,
		1*time.Second, -1500*time.Millisecond, 4*time.Second, -8*time.Second))
	cfg.maxDelay = 3 * time.Second
	c := newTestCalc(t, cfg)

	want := []time.Duration{1 * time.Second, 0, 3 * time.Second, 0}
	for i, w := range want {
		got, ok := c.BaseDelay(i + 1)
		if !ok {
			t.Fatalf("BaseDelay(%d) not ok, want %v", i+1, w)
		}
		if got != w {
			t.Errorf("BaseDelay(%d) = %v, want %v", i+1, got, w)
		}
	}
	if _, ok := c.BaseDelay(5); ok {
		t.Errorf("BaseDelay(5) ok after sequence exhausted, want stop")
	}
}

func TestCalculator_BaseDelayBounds(t *testing.T) {
	c := newTestCalc(t, testCfg(Fixed(time.Second)))

	if _, ok := c.BaseDelay(0); ok {
		t.Errorf("BaseDelay(0) ok, want not ok: the initial attempt has no delay")
	}
	if _, ok := c.BaseDelay(-3); ok {
		t.Errorf("BaseDelay(-3) ok, want not ok")
	}
	if _, ok := c.BaseDelay(DefaultMaxAttempts); !ok {
		t.Errorf("BaseDelay(%d) not ok, want ok at the retry limit", DefaultMaxAttempts)
	}
	if _, ok := c.BaseDelay(DefaultMaxAttempts + 1); ok {
		t.Errorf("BaseDelay(%d) ok, want not ok past the retry limit", DefaultMaxAttempts+1)
	}
}

func TestCalculator_UnlimitedRetries(t *testing.T) {
	cfg := testCfg(Fixed(time.Millisecond))
	cfg.maxRetries = -1
	c := newTestCalc(t, cfg)

	if d, ok := c.BaseDelay(1000); !ok || d != time.Millisecond {
		t.Errorf("BaseDelay(1000) = %v, %v, want %v, true", d, ok, time.Millisecond)
	}
}

func TestCalculator_StopIsMonotonic(t *testing.T) {
	c := newTestCalc(t, testCfg(Sequence(false, 1*time.Second, 2*time.Second)))

	if _, ok := c.BaseDelay(2); !ok {
		t.Fatalf("BaseDelay(2) not ok, want ok")
	}
	for _, n := range []int{3, 4, 10, 3} {
		if _, ok := c.BaseDelay(n); ok {
			t.Errorf("BaseDelay(%d) ok after stop at 3, want not ok", n)
		}
	}
}

func TestCalculator_ShouldStop(t *testing.T) {
	c := newTestCalc(t, testCfg(Sequence(false, 1*time.Second)))

	if c.ShouldStop(0) {
		t.Errorf("ShouldStop(0) = true, want false: the initial attempt always runs")
	}
	if c.ShouldStop(1) {
		t.Errorf("ShouldStop(1) = true, want false")
	}
	if !c.ShouldStop(2) {
		t.Errorf("ShouldStop(2) = false, want true")
	}
}

func TestCalculator_JitteredDelayMemoized(t *testing.T) {
	cfg := testCfg(Fixed(10 * time.Second))
	cfg.jitter = FullJitter()
	c := newTestCalc(t, cfg)

	for n := 1; n <= 5; n++ {
		first, ok := c.JitteredDelay(n)
		if !ok {
			t.Fatalf("JitteredDelay(%d) not ok, want ok", n)
		}
		if first < 0 || first > 10*time.Second {
			t.Errorf("JitteredDelay(%d) = %v, want within [0, 10s]", n, first)
		}
		// Out-of-order and repeated queries must return the cached draw.
		for i := 0; i < 3; i++ {
			again, _ := c.JitteredDelay(n)
			if again != first {
				t.Errorf("JitteredDelay(%d) second query = %v, want memoized %v", n, again, first)
			}
		}
	}
}

func TestCalculator_JitterBypassedForRandomizedAlgorithms(t *testing.T) {
	cfg := testCfg(RandomBetween(1*time.Second, 2*time.Second))
	cfg.jitter = FullJitter()
	c := newTestCalc(t, cfg)

	for n := 1; n <= 5; n++ {
		b, _ := c.BaseDelay(n)
		j, _ := c.JitteredDelay(n)
		if j != b {
			t.Errorf("JitteredDelay(%d) = %v, want base %v: algorithm carries its own randomness", n, j, b)
		}
	}
}

func TestCalculator_JitterSkipsZeroBase(t *testing.T) {
	cfg := testCfg(NoBackoff())
	cfg.jitter = FullJitter()
	c := newTestCalc(t, cfg)

	for n := 1; n <= 3; n++ {
		j, ok := c.JitteredDelay(n)
		if !ok || j != 0 {
			t.Errorf("JitteredDelay(%d) = %v, %v, want 0, true", n, j, ok)
		}
	}
}

func TestCalculator_JitteredNotOkWhereBaseNotOk(t *testing.T) {
	cfg := testCfg(Sequence(false, time.Second))
	cfg.jitter = FullJitter()
	c := newTestCalc(t, cfg)

	if _, ok := c.JitteredDelay(0); ok {
		t.Errorf("JitteredDelay(0) ok, want not ok")
	}
	if _, ok := c.JitteredDelay(2); ok {
		t.Errorf("JitteredDelay(2) ok past the sequence, want not ok")
	}
}

func TestCalculator_ImmediateFirstRetryShiftsTheSequence(t *testing.T) {
	cfg := testCfg(Linear(5*time.Second, 10*time.Second))
	cfg.immediateFirst = true
	c := newTestCalc(t, cfg)

	want := []time.Duration{0, 5 * time.Second, 15 * time.Second, 25 * time.Second}
	for i, w := range want {
		got, ok := c.BaseDelay(i + 1)
		if !ok {
			t.Fatalf("BaseDelay(%d) not ok, want %v", i+1, w)
		}
		if got != w {
			t.Errorf("BaseDelay(%d) = %v, want %v", i+1, got, w)
		}
	}

	// The retry limit still counts attempts, not algorithm indices.
	if d, ok := c.BaseDelay(DefaultMaxAttempts); !ok || d != 85*time.Second {
		t.Errorf("BaseDelay(%d) = %v, %v, want 85s, true", DefaultMaxAttempts, d, ok)
	}
	if _, ok := c.BaseDelay(DefaultMaxAttempts + 1); ok {
		t.Errorf("BaseDelay(%d) ok, want not ok past the retry limit", DefaultMaxAttempts+1)
	}
}

func TestCalculator_DelaysDisabledKeepsStopBehaviour(t *testing.T) {
	cfg := testCfg(Sequence(false, 1*time.Second, 2*time.Second))
	cfg.delaysEnabled = false
	c := newTestCalc(t, cfg)

	for n := 1; n <= 2; n++ {
		d, ok := c.BaseDelay(n)
		if !ok || d != 0 {
			t.Errorf("BaseDelay(%d) = %v, %v, want 0, true with delays disabled", n, d, ok)
		}
	}
	if _, ok := c.BaseDelay(3); ok {
		t.Errorf("BaseDelay(3) ok, want not ok: disabling delays must not extend the run")
	}
}

func TestCalculator_MaxDelayCapsDecorrelatedChain(t *testing.T) {
	cfg := testCfg(Decorrelated(1*time.Second, 3))
	cfg.maxDelay = 4 * time.Second
	c := newTestCalc(t, cfg)

	for n := 1; n <= DefaultMaxAttempts; n++ {
		d, ok := c.BaseDelay(n)
		if !ok {
			t.Fatalf("BaseDelay(%d) not ok, want ok", n)
		}
		if d > 4*time.Second {
			t.Errorf("BaseDelay(%d) = %v, want at most 4s", n, d)
		}
	}
}

func TestCalculator_ResetClearsMemoization(t *testing.T) {
	cfg := testCfg(Fixed(10 * time.Second))
	cfg.jitter = FullJitter()
	c := newTestCalc(t, cfg)

	if _, ok := c.JitteredDelay(1); !ok {
		t.Fatalf("JitteredDelay(1) not ok before Reset")
	}
	if got := c.Reset(); got != c {
		t.Fatalf("Reset() = %p, want the receiver %p", got, c)
	}
	if len(c.algCache) != 0 || len(c.jitCache) != 0 {
		t.Errorf("Reset() left %d/%d cached entries, want empty caches", len(c.algCache), len(c.jitCache))
	}

	after, ok := c.JitteredDelay(1)
	if !ok {
		t.Fatalf("JitteredDelay(1) not ok after Reset")
	}
	if after < 0 || after > 10*time.Second {
		t.Errorf("JitteredDelay(1) after Reset = %v, want within [0, 10s]", after)
	}
	// The memoization contract holds again on the fresh sequence.
	if again, _ := c.JitteredDelay(1); again != after {
		t.Errorf("JitteredDelay(1) after Reset re-query = %v, want %v", again, after)
	}
}

func TestCalculator_SeededSequencesAreReproducible(t *testing.T) {
	build := func() *Calculator {
		cfg := testCfg(Fixed(10 * time.Second))
		cfg.jitter = FullJitter()
		cfg.seed = 42
		return newTestCalc(t, cfg)
	}

	a, b := build(), build()
	for n := 1; n <= 8; n++ {
		da, _ := a.JitteredDelay(n)
		db, _ := b.JitteredDelay(n)
		if da != db {
			t.Errorf("JitteredDelay(%d) = %v vs %v, want identical for identical seeds", n, da, db)
		}
	}
}

func TestNewCalculator_InvalidConfiguration(t *testing.T) {
	tests := []struct {
		name string
		cfg  calcConfig
	}{
		{"random range min above max", testCfg(RandomBetween(2*time.Second, 1*time.Second))},
		{"jitter factors out of order", func() calcConfig {
			cfg := testCfg(Fixed(time.Second))
			cfg.jitter = RangeJitter(1.5, 0.5)
			return cfg
		}()},
		{"nil backoff function", testCfg(BackoffFunc(nil))},
		{"unknown unit", func() calcConfig {
			cfg := testCfg(Fixed(time.Second))
			cfg.unit = Unit(99)
			return cfg
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newCalculator(tt.cfg)
			if err == nil {
				t.Fatalf("newCalculator() error = nil, want *InitError")
			}
			var initErr *InitError
			if !errors.As(err, &initErr) {
				t.Errorf("newCalculator() error = %T, want *InitError", err)
			}
		})
	}
}

func BenchmarkCalculator_BaseDelay(b *testing.B) {
	cfg := testCfg(Exponential(time.Millisecond, 2))
	cfg.maxRetries = -1
	c, err := newCalculator(cfg)
	if err != nil {
		b.Fatalf("newCalculator() error = %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.BaseDelay(i%50 + 1)
	}
}
