// Package storage defines the Storage Adapter: a typed wrapper over the
// external key-value store capability set the core relies on — hash
// increment, hash scan, set add, set members, and absolute expiration.
package storage

import "context"

// Adapter is the capability set required from the host KV store. No other
// operations are used anywhere in this module. Implementations must return
// errors directly; callers wrap them in core.StorageError at the call site.
type Adapter interface {
	// HIncrBy increments a hash field by delta, creating the hash and field
	// on demand. Returns the field's new value.
	HIncrBy(ctx context.Context, key, field string, delta int64) (int64, error)

	// HGetAll returns every field/value pair stored in the hash at key. A
	// missing hash returns an empty, non-nil slice and no error.
	HGetAll(ctx context.Context, key string) ([]HashField, error)

	// SAdd adds members to the set at key, creating it on demand. Returns
	// the number of members newly added (i.e. not already present).
	SAdd(ctx context.Context, key string, members ...string) (int, error)

	// SMembers returns every member of the set at key. A missing set
	// returns an empty, non-nil slice and no error.
	SMembers(ctx context.Context, key string) ([]string, error)

	// ExpireAt sets the absolute expiration of key to epochSeconds.
	// Idempotent: setting it again simply overwrites the prior deadline.
	ExpireAt(ctx context.Context, key string, epochSeconds int64) error
}

// HashField is one field/value pair returned by HGetAll. Field holds the
// packed (band, bucket) bytes; Value holds the signed integer count, parsed
// from the decimal form the store's hash-increment primitive keeps.
type HashField struct {
	Field string
	Value int64
}
