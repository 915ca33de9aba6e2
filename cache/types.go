// Package cache provides a read-through byte cache for values the engine
// would otherwise re-fetch from the storage adapter within one process. The
// command Dispatcher caches Frequency Store signatures during CLASSIFY; it
// does not cache Candidate Index lookups.
package cache

import "context"

// CacheKey identifies one cached value. It must be stable across processes:
// (Scope, FeatureIndex, Item) addresses a Frequency Store entry;
// (Scope, FeatureIndex, Item) with Kind set to KindCandidateSet addresses a
// serialized candidate-query result instead.
type CacheKey struct {
	Kind         Kind
	Scope        string
	FeatureIndex string
	Item         string
}

// Kind separates the two key spaces a BlockCache may hold. The Dispatcher
// only uses KindFrequency.
type Kind uint8

const (
	// KindFrequency caches a Frequency Store Get result.
	KindFrequency Kind = iota
	// KindCandidateSet caches a Candidate Index Query result.
	KindCandidateSet
)

// BlockCache is a byte-oriented cache for immutable blocks. Returned slices
// must be treated as read-only.
type BlockCache interface {
	// Get returns a cached block. ok=false if missing.
	Get(ctx context.Context, key CacheKey) (b []byte, ok bool)
	// Set caches a block. Implementations may copy or retain; caller must
	// treat b as immutable.
	Set(ctx context.Context, key CacheKey, b []byte)
}
