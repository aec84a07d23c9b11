// Package concurrent supplements ckms.Summary, which stays lock-free for
// single-writer use, with a thin opt-in wrapper for callers that need
// concurrent mutation: a single mutex guarding the mutable state, held only
// across the call that touches it, never across the caller's own control
// flow.
package concurrent

import (
	"sync"

	"github.com/cmsd2/quantiles/ckms"
)

// Summary wraps a ckms.Summary[T] behind a mutex so Insert and Absorb can be
// called safely from multiple goroutines. Query and the aggregate readers
// take the same lock for read access, since ckms.Summary itself assumes
// exclusive access during any mutation.
type Summary[T ckms.Number] struct {
	mu    sync.Mutex
	inner *ckms.Summary[T]
}

// New returns a concurrency-safe Summary configured for error, with the
// same clamping rules as ckms.New.
func New[T ckms.Number](error float64) *Summary[T] {
	return &Summary[T]{inner: ckms.New[T](error)}
}

// Insert adds v to the underlying summary.
func (s *Summary[T]) Insert(v T) {
	s.mu.Lock()
	s.inner.Insert(v)
	s.mu.Unlock()
}

// Query returns the approximate value at rank phi; see ckms.Summary.Query.
func (s *Summary[T]) Query(phi float64) (ckms.Quantile[T], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Query(phi)
}

// Count returns the number of values ever inserted.
func (s *Summary[T]) Count() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Count()
}

// Last returns the most recently inserted value, if any.
func (s *Summary[T]) Last() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Last()
}

// Sum returns the running sum of every inserted value, if any.
func (s *Summary[T]) Sum() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Sum()
}

// Absorb merges other into s under s's lock. other is not locked; callers
// must not mutate other concurrently with this call.
func (s *Summary[T]) Absorb(other *ckms.Summary[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inner.Absorb(other)
}

// Snapshot returns a copy of the current retained samples, safe to read
// without holding s's lock afterwards.
func (s *Summary[T]) Snapshot() []ckms.Entry[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ckms.Entry[T], len(s.inner.Samples()))
	copy(out, s.inner.Samples())
	return out
}
