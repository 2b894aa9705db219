package retry

import (
	"fmt"
	"strings"
	"time"
)

// Unit is the time unit in which delay values are reported to callers,
// e.g. by Simulate. Internal arithmetic always uses time.Duration; a Unit
// only performs the pure multiplicative conversion at the boundary.
type Unit int

const (
	// Seconds reports delays in seconds.
	Seconds Unit = iota
	// Milliseconds reports delays in milliseconds.
	Milliseconds
	// Microseconds reports delays in microseconds.
	Microseconds
)

// ParseUnit maps a unit token to a Unit. Accepted tokens (case-insensitive):
// "s"/"sec"/"seconds", "ms"/"milliseconds", "us"/"µs"/"microseconds".
func ParseUnit(token string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "s", "sec", "second", "seconds":
		return Seconds, nil
	case "ms", "millisecond", "milliseconds":
		return Milliseconds, nil
	case "us", "µs", "microsecond", "microseconds":
		return Microseconds, nil
	default:
		return 0, &InitError{Reason: fmt.Sprintf("unknown time unit %q", token)}
	}
}

// Convert returns d expressed in the unit as a float.
func (u Unit) Convert(d time.Duration) float64 {
	switch u {
	case Milliseconds:
		return float64(d) / float64(time.Millisecond)
	case Microseconds:
		return float64(d) / float64(time.Microsecond)
	default:
		return d.Seconds()
	}
}

// String returns the canonical token for the unit.
func (u Unit) String() string {
	switch u {
	case Milliseconds:
		return "ms"
	case Microseconds:
		return "us"
	default:
		return "s"
	}
}

func (u Unit) valid() bool {
	return u == Seconds || u == Milliseconds || u == Microseconds
}
