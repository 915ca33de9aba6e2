// Package timewindow implements the Time-Windowed Set: a logical set whose
// membership is partitioned into per-TimeBucket storage keys and read back
// across a retention window.
package timewindow

import (
	"context"

	"github.com/arnegrid/simidx/core"
	"github.com/arnegrid/simidx/storage"
)

// KeyFunc maps a TimeBucket to the storage key holding that bucket's set.
type KeyFunc func(timeBucket int64) string

// Set is a Time-Windowed Set over a storage.Adapter.
type Set struct {
	adapter   storage.Adapter
	window    int64
	retention int64
	keyFunc   KeyFunc
}

// New builds a Set. window and retention come from the request
// Configuration; keyFunc determines the storage key for each TimeBucket.
func New(adapter storage.Adapter, window, retention int64, keyFunc KeyFunc) *Set {
	return &Set{adapter: adapter, window: window, retention: retention, keyFunc: keyFunc}
}

// Insert adds members at the TimeBucket derived from timestamp. If at least
// one member was newly added, the bucket's key is refreshed to expire at
// (tb + 1 + retention) * window, per invariant 4. Returns the number of
// newly added members.
func (s *Set) Insert(ctx context.Context, timestamp int64, members ...string) (int, error) {
	tb := floorDiv(timestamp, s.window)
	key := s.keyFunc(tb)

	added, err := s.adapter.SAdd(ctx, key, members...)
	if err != nil {
		return 0, &core.StorageError{Op: "sadd", Key: key, Err: err}
	}
	if added > 0 {
		deadline := (tb + 1 + s.retention) * s.window
		if err := s.adapter.ExpireAt(ctx, key, deadline); err != nil {
			return added, &core.StorageError{Op: "expireat", Key: key, Err: err}
		}
	}
	return added, nil
}

// Members returns every member observed within the retention window ending
// at the TimeBucket derived from timestamp, along with the number of
// distinct TimeBuckets in which each member was observed. Missing buckets
// contribute nothing.
func (s *Set) Members(ctx context.Context, timestamp int64) (map[string]int, error) {
	cur := floorDiv(timestamp, s.window)
	occurrences := make(map[string]int)

	for tb := cur - s.retention; tb <= cur; tb++ {
		key := s.keyFunc(tb)
		members, err := s.adapter.SMembers(ctx, key)
		if err != nil {
			return nil, &core.StorageError{Op: "smembers", Key: key, Err: err}
		}
		for _, m := range members {
			occurrences[m]++
		}
	}
	return occurrences, nil
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
