package retry

import (
	"errors"
	"testing"
	"time"
)

func TestSimulate_LinearSchedule(t *testing.T) {
	r := New[int]().Backoff(Linear(5*time.Second, 10*time.Second)).MaxAttempts(4)

	s, err := r.Simulate(4)
	if err != nil {
		t.Fatalf("Simulate(4) error = %v", err)
	}

	want := []time.Duration{5 * time.Second, 15 * time.Second, 25 * time.Second, 35 * time.Second}
	got := s.BaseDelays()
	if len(got) != len(want) {
		t.Fatalf("Simulate(4) produced %d rows, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i] != w {
			t.Errorf("row %d base = %v, want %v", i+1, got[i], w)
		}
		if s.Rows[i].Attempt != i+1 {
			t.Errorf("row %d Attempt = %d, want %d", i, s.Rows[i].Attempt, i+1)
		}
	}
	if s.StopIndex != 0 {
		t.Errorf("StopIndex = %d, want 0 when no stop was hit", s.StopIndex)
	}

	// No jitter configured: jittered delays mirror the base delays.
	jittered := s.JitteredDelays()
	for i := range want {
		if jittered[i] != want[i] {
			t.Errorf("row %d jittered = %v, want base %v", i+1, jittered[i], want[i])
		}
	}
}

func TestSimulate_RecordsTheStopIndex(t *testing.T) {
	r := New[int]().Backoff(Sequence(false, 1*time.Second, 2*time.Second))

	s, err := r.Simulate(5)
	if err != nil {
		t.Fatalf("Simulate(5) error = %v", err)
	}
	if len(s.Rows) != 2 {
		t.Errorf("Simulate(5) produced %d rows, want 2", len(s.Rows))
	}
	if s.StopIndex != 3 {
		t.Errorf("StopIndex = %d, want 3", s.StopIndex)
	}
}

func TestSimulate_UnitConversion(t *testing.T) {
	r := New[int]().Backoff(Fixed(1500 * time.Millisecond)).Unit(Milliseconds)

	s, err := r.Simulate(1)
	if err != nil {
		t.Fatalf("Simulate(1) error = %v", err)
	}
	if s.Unit != Milliseconds {
		t.Errorf("Schedule.Unit = %v, want Milliseconds", s.Unit)
	}

	row := s.Rows[0]
	if got := row.BaseIn(Milliseconds); got != 1500 {
		t.Errorf("BaseIn(Milliseconds) = %g, want 1500", got)
	}
	if got := row.BaseIn(Seconds); got != 1.5 {
		t.Errorf("BaseIn(Seconds) = %g, want 1.5", got)
	}
	if got := row.JitteredIn(Microseconds); got != 1500000 {
		t.Errorf("JitteredIn(Microseconds) = %g, want 1500000", got)
	}
}

func TestSimulate_SeededJitterIsReproducible(t *testing.T) {
	build := func() *Retrier[int] {
		return New[int]().
			Backoff(Fixed(10 * time.Second)).
			Jitter(FullJitter()).
			Seed(42)
	}

	a, err := build().Simulate(6)
	if err != nil {
		t.Fatalf("Simulate(6) error = %v", err)
	}
	b, err := build().Simulate(6)
	if err != nil {
		t.Fatalf("Simulate(6) error = %v", err)
	}

	for i := range a.Rows {
		if a.Rows[i].Jittered != b.Rows[i].Jittered {
			t.Errorf("row %d jittered = %v vs %v, want identical for identical seeds",
				i+1, a.Rows[i].Jittered, b.Rows[i].Jittered)
		}
		if a.Rows[i].Jittered > 10*time.Second || a.Rows[i].Jittered < 0 {
			t.Errorf("row %d jittered = %v, want within [0, 10s]", i+1, a.Rows[i].Jittered)
		}
	}
}

func TestSimulate_DoesNotFreezeConfiguration(t *testing.T) {
	r := New[int]().Backoff(Fixed(time.Second))

	if _, err := r.Simulate(3); err != nil {
		t.Fatalf("Simulate(3) error = %v", err)
	}

	// A preview must leave the retrier reconfigurable.
	r.MaxAttempts(7)

	// And it must not consume run state either.
	var attempts int
	for r.Step() {
		attempts++
		r.StartOfAttempt()
		r.EndOfAttempt(Succeeded(1))
		break
	}
	if attempts != 1 {
		t.Errorf("Step() after Simulate ran %d iterations, want the run untouched", attempts)
	}
}

func TestSimulate_InvalidConfiguration(t *testing.T) {
	r := New[int]().Backoff(RandomBetween(2*time.Second, 1*time.Second))

	_, err := r.Simulate(3)
	var initErr *InitError
	if !errors.As(err, &initErr) {
		t.Errorf("Simulate(3) error = %v (%T), want *InitError", err, err)
	}
}
