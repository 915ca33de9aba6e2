// Package snapshot implements offline export and import of a scope's
// Frequency Store: an operational backup/migration tool, not a change to
// the core's TTL-based lifecycle. A restored record re-enters the system
// through the same freqstore.Store.Add/candidateindex.Index.Insert path
// RECORD uses, so its TTL is recomputed fresh at restore time rather than
// carried over from the snapshot.
//
// The storage.Adapter has no key-scan primitive — only hincrby, hgetall,
// sadd, smembers, and expireat — so Exporter takes an explicit manifest of
// (feature_index, item) pairs to export rather than discovering them
// itself. Callers that want "every item ever recorded in scope s" must
// track that list themselves, e.g. by mirroring RECORD calls into an
// external catalog.
//
// Each exported blob is codec-encoded then compressed with either lz4
// (CompressionLZ4, the default, favoring speed) or gzip (CompressionGzip,
// favoring size); a one-byte header tags which, so Import needs no
// out-of-band hint about how a given blob was written.
package snapshot
