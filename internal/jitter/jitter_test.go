package jitter

import (
	"math/rand"
	"testing"
	"time"
)

func testRNG() *rand.Rand {
	return rand.New(rand.NewSource(1)) // #nosec G404 -- deterministic test source
}

func TestFullJitter_Bounds(t *testing.T) {
	s, err := New(Spec{Kind: KindFull})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	base := time.Second
	rng := testRNG()
	for i := 0; i < 100; i++ {
		d := s.Apply(base, i+1, rng)
		if d < 0 || d > base {
			t.Errorf("Apply() = %v, want between 0 and %v", d, base)
		}
	}
}

func TestEqualJitter_Bounds(t *testing.T) {
	s, err := New(Spec{Kind: KindEqual})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	base := time.Second
	rng := testRNG()
	for i := 0; i < 100; i++ {
		d := s.Apply(base, i+1, rng)
		if d < base/2 || d > base {
			t.Errorf("Apply() = %v, want between %v and %v", d, base/2, base)
		}
	}
}

func TestRangeJitter_Bounds(t *testing.T) {
	tests := []struct {
		name     string
		min, max float64
		base     time.Duration
		wantMin  time.Duration
		wantMax  time.Duration
	}{
		{
			name:    "narrow range around base",
			min:     0.9,
			max:     1.1,
			base:    time.Second,
			wantMin: 900 * time.Millisecond,
			wantMax: 1100 * time.Millisecond,
		},
		{
			name:    "upward jitter is not clamped",
			min:     1.0,
			max:     2.0,
			base:    time.Second,
			wantMin: time.Second,
			wantMax: 2 * time.Second,
		},
		{
			name:    "degenerate range returns fixed factor",
			min:     0.5,
			max:     0.5,
			base:    time.Second,
			wantMin: 500 * time.Millisecond,
			wantMax: 500 * time.Millisecond,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(Spec{Kind: KindRange, MinFactor: tt.min, MaxFactor: tt.max})
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}

			rng := testRNG()
			for i := 0; i < 50; i++ {
				d := s.Apply(tt.base, i+1, rng)
				if d < tt.wantMin || d > tt.wantMax {
					t.Errorf("Apply() = %v, want between %v and %v", d, tt.wantMin, tt.wantMax)
				}
			}
		})
	}
}

func TestFullJitter_Distribution(t *testing.T) {
	s, _ := New(Spec{Kind: KindFull})

	rng := testRNG()
	delays := make([]time.Duration, 50)
	for i := range delays {
		delays[i] = s.Apply(time.Second, 1, rng)
	}

	allSame := true
	for i := 1; i < len(delays); i++ {
		if delays[i] != delays[0] {
			allSame = false
			break
		}
	}
	if allSame {
		t.Error("Expected variation in full jitter delays, but all delays were the same")
	}
}

func TestCallbackJitter(t *testing.T) {
	s, err := New(Spec{Kind: KindCallback, Fn: func(base time.Duration, n int) time.Duration {
		return base * time.Duration(n)
	}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if d := s.Apply(time.Second, 3, testRNG()); d != 3*time.Second {
		t.Errorf("Apply(1s, 3) = %v, want %v", d, 3*time.Second)
	}
}

func TestNoJitter(t *testing.T) {
	s, _ := New(Spec{Kind: KindNone})
	if d := s.Apply(time.Second, 1, testRNG()); d != time.Second {
		t.Errorf("Apply() = %v, want base passed through unchanged", d)
	}
}

func TestNew_InvalidSpecs(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
	}{
		{"range min exceeds max", Spec{Kind: KindRange, MinFactor: 2, MaxFactor: 1}},
		{"nil callback", Spec{Kind: KindCallback}},
		{"nil custom", Spec{Kind: KindCustom}},
		{"unknown kind", Spec{Kind: Kind(99)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.spec); err == nil {
				t.Errorf("New(%+v) = nil error, want error", tt.spec)
			}
		})
	}
}
