// Package simidx implements a server-embedded similarity index: it records
// items described by multi-band MinHash signatures, indexes them for
// approximate nearest-neighbor recall by shared hash buckets, and scores
// candidates by a banded similarity metric.
//
// # Quick Start
//
//	// The store's clock must agree with the request timestamps below.
//	adapter := storage.NewMemoryAdapter(func() int64 { return 120 })
//	d := command.NewDispatcher(adapter, command.WithLogger(simidx.NewTextLogger(slog.LevelInfo)))
//
//	_, err := d.Execute(ctx, []string{
//	    "my-scope", "2", "60", "1", "120",
//	    "RECORD",
//	    "item-a", "feature-1", "1", "10", "1", "1", "20", "1",
//	})
//
//	result, err := d.Execute(ctx, []string{
//	    "my-scope", "2", "60", "1", "120",
//	    "CLASSIFY",
//	    "feature-1", "1", "1", "10", "1", "0",
//	})
//
// # Model
//
// The engine executes as a single atomic operation over a key-value store
// that supports hashes, sets, and TTL (see package storage). Two top-level
// commands drive it:
//
//   - RECORD accumulates a signature's bucket frequencies for an item under
//     a feature index, and inserts the item into the Candidate Index for
//     every non-zero bucket it recorded.
//   - CLASSIFY collects candidates across one or more feature-index queries,
//     filters them by a collision-count threshold (lenient or strict), and
//     scores survivors with the Similarity Kernel.
//
// This package holds the ambient concerns shared across the engine —
// structured logging (Logger) and metrics collection (MetricsCollector).
// The domain logic lives in the core, bandkey, signature, storage,
// timewindow, freqstore, candidateindex, argdecode, and command packages.
package simidx
