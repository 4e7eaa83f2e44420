// Package generator produces the fixture corpus. Every random draw comes from
// a source derived from a context key, so a run is a pure function of its
// seed, start date, options and meta tables.
package generator

import (
	"crypto/sha256"
	"encoding/binary"
	"math"
	"math/rand/v2"
)

// Seeded returns a fresh source for key. Same key, same stream.
func Seeded(key string) *rand.Rand {
	sum := sha256.Sum256([]byte(key))
	return rand.New(rand.NewPCG(
		binary.BigEndian.Uint64(sum[0:8]),
		binary.BigEndian.Uint64(sum[8:16]),
	))
}

// Choice panics on an empty slice, like indexing would.
func Choice[T any](r *rand.Rand, xs []T) T {
	return xs[r.IntN(len(xs))]
}

// Sample returns k distinct elements of xs in draw order. xs is not modified.
func Sample[T any](r *rand.Rand, xs []T, k int) []T {
	if k > len(xs) {
		k = len(xs)
	}
	pool := append([]T(nil), xs...)
	for i := 0; i < k; i++ {
		j := i + r.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k]
}

// IntRange draws from [lo, hi] inclusive.
func IntRange(r *rand.Rand, lo, hi int) int {
	return lo + r.IntN(hi-lo+1)
}

func Uniform(r *rand.Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*r.Float64()
}

// Round rounds half away from zero to places decimals.
func Round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}
