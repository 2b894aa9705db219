package algorithms

import "time"

// Algorithm defines how base retry delays are produced (internal only).
//
// Note: This interface is exported so the retry package can accept user
// implementations, but the named variants remain internal.
type Algorithm interface {
	// NextDelay returns the base delay before 1-based retry attempt n.
	// prev is the previous base delay in the chain, nil before the first.
	// ok=false signals that no more retries should occur.
	//
	// Implementations must be pure functions of (n, prev) plus their
	// construction-time parameters, so re-querying an index is safe.
	NextDelay(n int, prev *time.Duration) (d time.Duration, ok bool)

	// Randomized reports whether the algorithm draws its own randomness.
	// Jitter strategies are bypassed for randomized algorithms.
	Randomized() bool

	// Reset clears any per-sequence state so a fresh delay sequence can
	// be drawn. Most variants are stateless and treat this as a no-op.
	Reset()
}
