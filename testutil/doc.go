// Package testutil provides testing utilities shared across this module's
// packages.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating random, Zipf-skewed, and
// partially-overlapping Signatures, and for synthesizing item keys.
//
// # Random Signature Generation
//
//	rng := testutil.NewRNG(seed)
//	sig := rng.RandomSignature(bands, bucketSpace, nnzPerBand)
//
// # Zipf-Skewed Bucket Assignment
//
// Real (item, feature) popularity is rarely uniform: a small set of
// buckets absorbs most of the traffic. ZipfBuckets models that skew for
// Candidate Index load tests.
//
//	buckets := rng.ZipfBuckets(n, bucketCount, 1.5)
//
// # Overlap Construction
//
// OverlapSignature perturbs a fraction of a base Signature's non-zero
// buckets to build a candidate with a known, reproducible similarity score,
// for exercising the Similarity Kernel and threshold filtering.
package testutil
