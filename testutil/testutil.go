package testutil

import (
	"fmt"
	"math"
	"math/rand"
	"sync"

	"github.com/arnegrid/simidx/signature"
)

// RNG encapsulates a seeded random number generator. It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Uint64 returns a pseudo-random uint64.
func (r *RNG) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint64()
}

// Float64 returns a pseudo-random number in [0.0, 1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// RandomItemKey synthesizes a deterministic item key "{prefix}-{n}".
func RandomItemKey(prefix string, n int) string {
	return fmt.Sprintf("%s-%d", prefix, n)
}

// RandomSignature builds a Signature with bands bands, each populated with
// nnzPerBand distinct non-zero buckets drawn uniformly from
// [0, bucketSpace), with counts in [1, 4].
func (r *RNG) RandomSignature(bands, bucketSpace, nnzPerBand int) signature.Signature {
	r.mu.Lock()
	defer r.mu.Unlock()

	sig := signature.New(bands)
	for b := 0; b < bands; b++ {
		for len(sig.Bands[b]) < nnzPerBand {
			bucket := uint16(r.rand.Intn(bucketSpace))
			sig.Bands[b][bucket] = int64(1 + r.rand.Intn(4))
		}
	}
	return sig
}

// OverlapSignature derives a new Signature from base by keeping a
// keepFraction fraction of each band's non-zero buckets unchanged and
// replacing the rest with fresh random buckets from [0, bucketSpace). A
// keepFraction of 1.0 reproduces base exactly (same buckets and counts);
// 0.0 replaces every bucket.
func (r *RNG) OverlapSignature(base signature.Signature, bucketSpace int, keepFraction float64) signature.Signature {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := signature.New(len(base.Bands))
	for b, band := range base.Bands {
		for bucket, count := range band {
			if r.rand.Float64() < keepFraction {
				out.Bands[b][bucket] = count
			} else {
				newBucket := uint16(r.rand.Intn(bucketSpace))
				out.Bands[b][newBucket] = count
			}
		}
	}
	return out
}

// Zipf returns a Zipfian-distributed value in [0, n).
// Uses Zipf's law: P(k) ∝ 1/k^s where s is the skew parameter.
// s=1.0 gives standard Zipf, s=1.5 gives heavy-tail (80/20 rule) — a
// realistic model for how often a given (feature, bucket) pair recurs.
func (r *RNG) Zipf(n int, s float64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.zipfLocked(n, s)
}

// zipfLocked is the internal implementation (caller must hold lock).
func (r *RNG) zipfLocked(n int, s float64) int {
	if n <= 1 {
		return 0
	}

	var hns float64
	for i := 1; i <= n; i++ {
		hns += 1.0 / math.Pow(float64(i), s)
	}

	u := r.rand.Float64() * hns
	var cumulative float64
	for k := 1; k <= n; k++ {
		cumulative += 1.0 / math.Pow(float64(k), s)
		if u <= cumulative {
			return k - 1
		}
	}

	return n - 1
}

// ZipfBuckets generates n bucket assignments with Zipfian distribution:
// a small set of buckets absorbs most of the assignments, modeling the
// real-world skew of which buckets a popular feature value lands in.
func (r *RNG) ZipfBuckets(n, bucketCount int, s float64) []uint16 {
	r.mu.Lock()
	defer r.mu.Unlock()

	buckets := make([]uint16, n)
	for i := range n {
		buckets[i] = uint16(r.zipfLocked(bucketCount, s))
	}

	return buckets
}
