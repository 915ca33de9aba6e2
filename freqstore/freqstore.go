// Package freqstore implements the Frequency Store: the per-item,
// per-feature bucket-frequency histogram persisted as a hash, keyed and
// packed per the Key Codec.
package freqstore

import (
	"context"

	"github.com/arnegrid/simidx/bandkey"
	"github.com/arnegrid/simidx/core"
	"github.com/arnegrid/simidx/signature"
	"github.com/arnegrid/simidx/storage"
)

// Store is the Frequency Store over a storage.Adapter, parameterized by a
// request Configuration.
type Store struct {
	adapter storage.Adapter
	cfg     core.Config
}

// New builds a Store bound to cfg.
func New(adapter storage.Adapter, cfg core.Config) *Store {
	return &Store{adapter: adapter, cfg: cfg}
}

// Get fetches the stored signature for (featureIndex, item). Fields for
// bands outside [1, cfg.Bands] are silently ignored, so a Configuration
// with a smaller Bands than a previous RECORD degrades gracefully instead
// of erroring.
func (s *Store) Get(ctx context.Context, featureIndex, item string) (signature.Signature, error) {
	key := bandkey.FrequencyKey(s.cfg.Scope, featureIndex, item)
	fields, err := s.adapter.HGetAll(ctx, key)
	if err != nil {
		return signature.Signature{}, &core.StorageError{Op: "hgetall", Key: key, Err: err}
	}

	sig := signature.New(s.cfg.Bands)
	for _, f := range fields {
		band, bucket, err := bandkey.Unpack([]byte(f.Field))
		if err != nil {
			return signature.Signature{}, err
		}
		if int(band) < 1 || int(band) > s.cfg.Bands {
			continue
		}
		sig.Bands[band-1][bucket] = f.Value
	}
	return sig, nil
}

// Add accumulates sig into the stored signature for (featureIndex, item):
// every non-zero (band, bucket, count) is applied with hincrby, then the
// hash's expiration is refreshed to timestamp + retention*window.
func (s *Store) Add(ctx context.Context, featureIndex, item string, sig signature.Signature) error {
	key := bandkey.FrequencyKey(s.cfg.Scope, featureIndex, item)

	for _, entry := range sig.NonZeroBuckets() {
		field := string(bandkey.Pack(entry.Band, entry.Bucket))
		if _, err := s.adapter.HIncrBy(ctx, key, field, entry.Count); err != nil {
			return &core.StorageError{Op: "hincrby", Key: key, Err: err}
		}
	}

	deadline := s.cfg.Timestamp + s.cfg.Retention*s.cfg.Window
	if err := s.adapter.ExpireAt(ctx, key, deadline); err != nil {
		return &core.StorageError{Op: "expireat", Key: key, Err: err}
	}
	return nil
}
