// Package ckms implements the Cormode-Korn-Muthukrishnan-Srivastava
// biased-rank quantile summary: a compressed, rank-ordered sample of a data
// stream that answers approximate quantile queries within a fixed error
// bound using O((1/ε) log²(εn)) memory.
//
// See "Effective Computation of Biased Quantiles over Data Streams"
// (Cormode, Korn, Muthukrishnan, Srivastava, 2005).
package ckms

import "golang.org/x/exp/constraints"

// Number is the capability bound required of a Summary's element type: it
// must be totally ordered and closed under addition. Every integer and
// floating-point primitive satisfies it.
type Number interface {
	constraints.Integer | constraints.Float
}

// Entry is a single retained sample (v, g, δ):
//
//	v is the sampled value.
//	g is the gap: how many stream elements this entry accounts for in the
//	  cumulative rank, counting from the previous retained entry.
//	delta is the rank-error allowance: an upper bound on how far the true
//	  rank of v can be from the rank implied by the running sum of g's.
type Entry[T Number] struct {
	V     T
	G     uint64
	Delta uint64
}
