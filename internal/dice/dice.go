// Package dice holds the random draws shared by the simulation packages.
// Every helper takes an explicit *rand.Rand; a nil source falls back to the global generator.
package dice

import "math/rand/v2"

// New returns a seeded source. A zero seed draws a random one.
func New(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// IntN returns a value in [0, n).
func IntN(r *rand.Rand, n int) int {
	if r == nil {
		return rand.IntN(n)
	}
	return r.IntN(n)
}

// Between returns a value in [lo, hi], both inclusive.
func Between(r *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + IntN(r, hi-lo+1)
}

// Float returns a value in [0, 1).
func Float(r *rand.Rand) float64 {
	if r == nil {
		return rand.Float64()
	}
	return r.Float64()
}

// Choice picks one element uniformly. It panics on an empty slice, like indexing would.
func Choice[T any](r *rand.Rand, items []T) T {
	return items[IntN(r, len(items))]
}

// Weighted picks an index with probability proportional to its weight.
// Non-positive weights are never chosen. It returns -1 when no weight is positive.
func Weighted(r *rand.Rand, weights []int) int {
	total := 0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total == 0 {
		return -1
	}
	roll := IntN(r, total)
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		if roll < w {
			return i
		}
		roll -= w
	}
	return len(weights) - 1
}

// WeightedFloat is Weighted for fractional weights.
func WeightedFloat(r *rand.Rand, weights []float64) int {
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total == 0 {
		return -1
	}
	roll := Float(r) * total
	last := -1
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		last = i
		if roll < w {
			return i
		}
		roll -= w
	}
	return last
}

// Sample draws k distinct elements without replacement.
func Sample[T any](r *rand.Rand, items []T, k int) []T {
	if k > len(items) {
		k = len(items)
	}
	pool := append([]T(nil), items...)
	for i := 0; i < k; i++ {
		j := i + IntN(r, len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k]
}
