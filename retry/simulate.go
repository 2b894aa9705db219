package retry

import "time"

// ScheduleRow is one simulated retry delay: the base delay and the
// jittered delay for a single attempt index.
type ScheduleRow struct {
	// Attempt is the 1-based retry index.
	Attempt int
	// Base is the algorithm's bounded output before jitter.
	Base time.Duration
	// Jittered is the value that would actually be waited.
	Jittered time.Duration
}

// Schedule is a generated delay sequence produced without executing any
// operation, for testing and preview.
type Schedule struct {
	// Rows holds one entry per generated delay, in attempt order.
	Rows []ScheduleRow
	// StopIndex is the attempt index at which the sequence stopped, 0
	// when the requested number of delays was generated without
	// hitting a stop signal.
	StopIndex int
	// Unit is the configured reporting unit.
	Unit Unit
}

// BaseIn returns the row's base delay converted to the unit.
func (row ScheduleRow) BaseIn(u Unit) float64 {
	return u.Convert(row.Base)
}

// JitteredIn returns the row's jittered delay converted to the unit.
func (row ScheduleRow) JitteredIn(u Unit) float64 {
	return u.Convert(row.Jittered)
}

// BaseDelays returns the base delays of all rows.
func (s *Schedule) BaseDelays() []time.Duration {
	out := make([]time.Duration, len(s.Rows))
	for i, row := range s.Rows {
		out[i] = row.Base
	}
	return out
}

// JitteredDelays returns the jittered delays of all rows.
func (s *Schedule) JitteredDelays() []time.Duration {
	out := make([]time.Duration, len(s.Rows))
	for i, row := range s.Rows {
		out[i] = row.Jittered
	}
	return out
}

// Simulate generates the delay sequence the retrier would produce for
// up to attempts retries, without executing any operation and without
// touching the retrier's own run state: the sequence is drawn from a
// fresh calculator built from the same configuration.
func (r *Retrier[T]) Simulate(attempts int) (*Schedule, error) {
	calc, err := newCalculator(r.calcConfig())
	if err != nil {
		return nil, err
	}

	s := &Schedule{Unit: calc.Unit()}
	for n := 1; n <= attempts; n++ {
		base, ok := calc.BaseDelay(n)
		if !ok {
			s.StopIndex = n
			break
		}
		jittered, _ := calc.JitteredDelay(n)
		s.Rows = append(s.Rows, ScheduleRow{Attempt: n, Base: base, Jittered: jittered})
	}
	return s, nil
}
