package command

import (
	"context"

	"github.com/arnegrid/simidx/argdecode"
	"github.com/arnegrid/simidx/cache"
	"github.com/arnegrid/simidx/candidateindex"
	"github.com/arnegrid/simidx/core"
	"github.com/arnegrid/simidx/freqstore"
	"github.com/arnegrid/simidx/signature"
)

// recordRequest is one decoded RECORD request: key, feature_index,
// frequencies.
type recordRequest struct {
	key          string
	featureIndex string
	signature    signature.Signature
}

// executeRecord decodes the variadic RECORD tail and, for every request,
// updates the Frequency Store then inserts every non-zero bucket into the
// Candidate Index. Returns the number of requests processed.
func (d *Dispatcher) executeRecord(ctx context.Context, cfg core.Config, c *argdecode.Cursor) (int, error) {
	requests, err := argdecode.Variadic(c, func(c *argdecode.Cursor) (recordRequest, error) {
		key, err := argdecode.String(c)
		if err != nil {
			return recordRequest{}, err
		}
		featureIndex, err := argdecode.String(c)
		if err != nil {
			return recordRequest{}, err
		}
		sig, err := decodeFrequencies(c, cfg.Bands)
		if err != nil {
			return recordRequest{}, err
		}
		return recordRequest{key: key, featureIndex: featureIndex, signature: sig}, nil
	})
	if err != nil {
		return 0, err
	}

	freq := freqstore.New(d.adapter, cfg)
	idx := candidateindex.New(d.adapter, cfg)

	for _, req := range requests {
		if err := freq.Add(ctx, req.featureIndex, req.key, req.signature); err != nil {
			return 0, err
		}
		for _, entry := range req.signature.NonZeroBuckets() {
			if err := idx.Insert(ctx, req.featureIndex, entry.Band, entry.Bucket, cfg.Timestamp, req.key); err != nil {
				return 0, err
			}
		}
		invalidateCachedSignature(ctx, d.opts.cache, cfg.Scope, req.featureIndex, req.key)
	}

	return len(requests), nil
}

// invalidateCachedSignature drops any cached Frequency Store entry for
// (featureIndex, key) so a later CLASSIFY re-reads the value RECORD just
// wrote instead of serving a stale cached signature. A nil-byte entry fails
// getCachedSignature's unmarshal, forcing the next read to fall through to
// freq.Get and re-cache a fresh copy.
func invalidateCachedSignature(ctx context.Context, bc cache.BlockCache, scope, featureIndex, key string) {
	if bc == nil {
		return
	}
	bc.Set(ctx, cache.CacheKey{Kind: cache.KindFrequency, Scope: scope, FeatureIndex: featureIndex, Item: key}, nil)
}
