package ckms

// Summary is an ε-approximate quantile sketch over a stream of T. It is
// built with a fixed error, mutated only by Insert and Absorb, and answers
// Query in O(len(samples)) using the per-entry rank-error budgets computed
// on the way in.
//
// A zero Summary is not usable; construct one with New.
type Summary[T Number] struct {
	n       uint64
	error   float64
	samples []Entry[T]

	insertThreshold uint64
	inserts         uint64

	lastIn *T
	sum    *T
}

// New returns an empty Summary configured for error. error is clamped into
// the open interval (0, 1): values <= 0 become 1e-8, values >= 1 become
// 0.99. Construction never fails.
func New[T Number](error float64) *Summary[T] {
	switch {
	case error <= 0:
		error = 1e-8
	case error >= 1:
		error = 0.99
	}

	threshold := uint64(1.0 / (2.0 * error))
	if threshold < 1 {
		threshold = 1
	}

	return &Summary[T]{
		error:           error,
		insertThreshold: threshold,
	}
}

// Count returns the number of values ever inserted, including those folded
// together during compression. It is not the current number of retained
// samples.
func (s *Summary[T]) Count() uint64 {
	return s.n
}

// Last returns the most recently inserted value, or false if Summary is
// empty. Absorb replaces this with the absorbed summary's Last.
func (s *Summary[T]) Last() (T, bool) {
	if s.lastIn == nil {
		var zero T
		return zero, false
	}
	return *s.lastIn, true
}

// Sum returns the running sum of every inserted value, or false if Summary
// is empty. Follows T's native overflow semantics; Summary performs no
// overflow checking.
func (s *Summary[T]) Sum() (T, bool) {
	if s.sum == nil {
		var zero T
		return zero, false
	}
	return *s.sum, true
}

// Samples returns the current retained sample entries, ordered
// non-decreasing in value. The returned slice aliases Summary's storage;
// do not mutate it.
func (s *Summary[T]) Samples() []Entry[T] {
	return s.samples
}

// Insert adds v to the stream: updates the running sum and last-seen value,
// then places v into rank order and runs a compression pass every
// insertThreshold inserts.
func (s *Summary[T]) Insert(v T) {
	if s.sum == nil {
		sum := v
		s.sum = &sum
	} else {
		sum := *s.sum + v
		s.sum = &sum
	}
	last := v
	s.lastIn = &last

	s.insertSample(v)
}

// insertSample locates v's rank position with a left-to-right scan over the
// retained samples, computes its δ from the running rank seen so far, and
// splices the new entry in. Absorb also calls this to fold in another
// summary's retained entries, skipping the sum/last updates Insert performs
// above.
func (s *Summary[T]) insertSample(v T) {
	count := len(s.samples)
	if count == 0 {
		s.samples = append(s.samples, Entry[T]{V: v, G: 1, Delta: 0})
		s.n++
		return
	}

	var r uint64
	idx := 0
	for i := 0; i < count; i++ {
		if s.samples[i].V < v {
			idx++
			r += s.samples[i].G
		} else {
			break
		}
	}

	var delta uint64
	if idx != 0 && idx != count {
		delta = s.allowance(float64(r)) - 1
	}

	s.samples = append(s.samples, Entry[T]{})
	copy(s.samples[idx+1:], s.samples[idx:])
	s.samples[idx] = Entry[T]{V: v, G: 1, Delta: delta}

	s.n++
	s.inserts = (s.inserts + 1) % s.insertThreshold
	if s.inserts == 0 {
		s.compress()
	}
}

// compress runs a left-to-right merge pass in place, coalescing adjacent
// entries whose combined weight still fits under the rank-error allowance
// at their rank. It is a no-op below three samples and runs automatically
// every insertThreshold inserts.
func (s *Summary[T]) compress() {
	if len(s.samples) < 3 {
		return
	}

	sMax := len(s.samples) - 1
	i := 0
	r := uint64(1)

	for {
		cur := s.samples[i]
		next := s.samples[i+1]

		if cur.G+next.G+next.Delta <= s.allowance(float64(r)) {
			s.samples[i] = Entry[T]{V: next.V, G: cur.G + next.G, Delta: next.Delta}
			s.samples = append(s.samples[:i+1], s.samples[i+2:]...)
			sMax--
		} else {
			i++
		}
		r++

		if i == sMax {
			break
		}
	}
}

// Quantile is the result of a successful Query: an approximate rank
// (cumulative g at the retained sample, not a dense array offset) paired
// with the value believed to sit at that rank.
type Quantile[T Number] struct {
	Rank  uint64
	Value T
}

// Query returns the ε-approximate value at rank phi (0 <= phi <= 1), or
// false if Summary has no samples. phi = 0 and phi = 1 always return the
// exact minimum and maximum, since endpoint entries carry δ = 0. phi outside
// [0, 1] is not validated and yields a defined but meaningless result.
func (s *Summary[T]) Query(phi float64) (Quantile[T], bool) {
	count := len(s.samples)
	if count == 0 {
		return Quantile[T]{}, false
	}

	var r uint64
	nphi := phi * float64(s.n)

	for i := 1; i < count; i++ {
		r += s.samples[i-1].G

		lhs := float64(r + s.samples[i].G + s.samples[i].Delta)
		rhs := nphi + float64(s.allowance(nphi))/2.0

		if lhs > rhs {
			return Quantile[T]{Rank: r, Value: s.samples[i-1].V}, true
		}
	}

	return Quantile[T]{Rank: uint64(count), Value: s.samples[count-1].V}, true
}

// Absorb merges other into s: last and sum are combined (absorb's sum adds
// onto s's, absent+absent stays absent), then every retained entry of
// other is reinserted into s through the same positioned-insertion routine
// Insert uses. Compression may fire during the reinsertion. other is left
// usable but its entries are not aliased by s afterwards.
//
// Because only other's retained representatives are reinserted, not its
// original stream, s.Count() grows by len(other.samples) worth of
// insertions, not by other.Count(). This understates the logical size of
// the merged stream, a known tradeoff of reinsertion-based merge.
func (s *Summary[T]) Absorb(other *Summary[T]) {
	s.lastIn = other.lastIn

	switch {
	case s.sum == nil && other.sum == nil:
		// stays absent
	case s.sum == nil:
		sum := *other.sum
		s.sum = &sum
	case other.sum == nil:
		// keep s.sum as-is
	default:
		sum := *s.sum + *other.sum
		s.sum = &sum
	}

	for _, e := range other.samples {
		s.insertSample(e.V)
	}
}
