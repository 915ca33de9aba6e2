// Package candidateindex implements the Candidate Index: the inverted index
// from (feature-index, band, bucket) to the set of item keys observed in
// each time bucket, and the query path that tallies collision bands per
// candidate.
package candidateindex

import (
	"context"

	"github.com/arnegrid/simidx/bandkey"
	"github.com/arnegrid/simidx/core"
	"github.com/arnegrid/simidx/signature"
	"github.com/arnegrid/simidx/storage"
	"github.com/arnegrid/simidx/timewindow"
)

// Index is the Candidate Index over a storage.Adapter, parameterized by a
// request Configuration.
type Index struct {
	adapter storage.Adapter
	cfg     core.Config
}

// New builds an Index bound to cfg.
func New(adapter storage.Adapter, cfg core.Config) *Index {
	return &Index{adapter: adapter, cfg: cfg}
}

func (ix *Index) set(featureIndex string, band uint8, bucket uint16) *timewindow.Set {
	keyFunc := func(tb int64) string {
		return bandkey.CandidateKey(ix.cfg.Scope, featureIndex, band, bucket, tb)
	}
	return timewindow.New(ix.adapter, ix.cfg.Window, ix.cfg.Retention, keyFunc)
}

// Insert delegates to the Time-Windowed Set whose key function yields the
// candidate-set storage key for (featureIndex, band, bucket).
func (ix *Index) Insert(ctx context.Context, featureIndex string, band uint8, bucket uint16, timestamp int64, item string) error {
	_, err := ix.set(featureIndex, band, bucket).Insert(ctx, timestamp, item)
	return err
}

// Query reads, for every (band, bucket) present in sig, the current-window
// members of the corresponding candidate set, and accumulates per-candidate
// the set of bands in which it collided with the query. The returned map's
// values are collision_bands_count in [0, bands].
func (ix *Index) Query(ctx context.Context, featureIndex string, sig signature.Signature) (map[string]int, error) {
	seen := make(map[string]*bandSet)

	for bandIdx, band := range sig.Bands {
		bandNum := uint8(bandIdx + 1)
		for bucket := range band {
			members, err := ix.set(featureIndex, bandNum, bucket).Members(ctx, ix.cfg.Timestamp)
			if err != nil {
				return nil, err
			}
			for item := range members {
				bs, ok := seen[item]
				if !ok {
					bs = newBandSet()
					seen[item] = bs
				}
				bs.add(bandNum)
			}
		}
	}

	out := make(map[string]int, len(seen))
	for item, bs := range seen {
		out[item] = bs.count()
	}
	return out, nil
}
