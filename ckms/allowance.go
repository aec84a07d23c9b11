package ckms

import "math"

// allowance is f(r, n) = max(1, floor(2*error*r)), the single source of the
// ε-approximation budget. Insertion, compression and query all derive their
// admissible g+δ ceiling from it.
func (s *Summary[T]) allowance(r float64) uint64 {
	f := uint64(math.Floor(2 * s.error * r))
	if f < 1 {
		return 1
	}
	return f
}
