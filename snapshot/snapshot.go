package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/arnegrid/simidx/blobstore"
	"github.com/arnegrid/simidx/candidateindex"
	"github.com/arnegrid/simidx/codec"
	"github.com/arnegrid/simidx/core"
	"github.com/arnegrid/simidx/freqstore"
	"github.com/arnegrid/simidx/signature"
	"github.com/arnegrid/simidx/storage"
	"github.com/klauspost/compress/gzip"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the codec used to compress a snapshot blob's bytes.
type Compression uint8

const (
	// CompressionLZ4 favors export/import speed; the default.
	CompressionLZ4 Compression = iota
	// CompressionGzip favors smaller blobs at the cost of slower
	// compression, using klauspost/compress's gzip implementation.
	CompressionGzip
)

// Manifest names one Frequency Store entry to carry across a snapshot.
type Manifest struct {
	FeatureIndex string
	Item         string
}

// record is the codec-visible shape of one exported signature.
type record struct {
	FeatureIndex string           `json:"feature_index"`
	Item         string           `json:"item"`
	Bands        []signature.Band `json:"bands"`
}

// Exporter serializes Frequency Store entries to a blobstore.BlobStore.
type Exporter struct {
	freq        *freqstore.Store
	store       blobstore.BlobStore
	codec       codec.Codec
	compression Compression
}

// NewExporter builds an Exporter bound to cfg. A nil codec defaults to
// codec.Default; compression defaults to CompressionLZ4.
func NewExporter(adapter storage.Adapter, cfg core.Config, store blobstore.BlobStore, c codec.Codec, compression Compression) *Exporter {
	if c == nil {
		c = codec.Default
	}
	return &Exporter{freq: freqstore.New(adapter, cfg), store: store, codec: c, compression: compression}
}

// Export fetches every (feature_index, item) pair in items, skips those
// with nothing currently recorded (already expired or never written), and
// writes the rest as one codec-encoded blob named name, compressed with the
// Exporter's Compression and prefixed by its one-byte tag.
// Returns the number of records written.
func (e *Exporter) Export(ctx context.Context, name string, items []Manifest) (int, error) {
	records := make([]record, 0, len(items))
	for _, m := range items {
		sig, err := e.freq.Get(ctx, m.FeatureIndex, m.Item)
		if err != nil {
			return 0, err
		}
		if sig.Empty() {
			continue
		}
		records = append(records, record{FeatureIndex: m.FeatureIndex, Item: m.Item, Bands: sig.Bands})
	}

	raw, err := e.codec.Marshal(records)
	if err != nil {
		return 0, fmt.Errorf("marshal snapshot: %w", err)
	}

	compressed, err := compress(e.compression, raw)
	if err != nil {
		return 0, fmt.Errorf("compress snapshot: %w", err)
	}

	blob := append([]byte{byte(e.compression)}, compressed...)
	if err := e.store.Put(ctx, name, blob); err != nil {
		return 0, err
	}
	return len(records), nil
}

// Importer restores Frequency Store entries from a blobstore.BlobStore,
// re-inserting each through the same Add/Insert path RECORD uses so TTLs
// are recomputed fresh rather than carried over from the snapshot.
type Importer struct {
	freq  *freqstore.Store
	index *candidateindex.Index
	cfg   core.Config
	store blobstore.BlobStore
	codec codec.Codec
}

// NewImporter builds an Importer bound to cfg. A nil codec defaults to
// codec.Default.
func NewImporter(adapter storage.Adapter, cfg core.Config, store blobstore.BlobStore, c codec.Codec) *Importer {
	if c == nil {
		c = codec.Default
	}
	return &Importer{
		freq:  freqstore.New(adapter, cfg),
		index: candidateindex.New(adapter, cfg),
		cfg:   cfg,
		store: store,
		codec: c,
	}
}

// Import reads the blob named name, restores every record it contains, and
// returns the number of records restored.
func (im *Importer) Import(ctx context.Context, name string) (int, error) {
	blob, err := im.store.Open(ctx, name)
	if err != nil {
		return 0, err
	}
	defer blob.Close()

	stored, err := readBlob(ctx, blob)
	if err != nil {
		return 0, err
	}
	if len(stored) == 0 {
		return 0, fmt.Errorf("decompress snapshot: empty blob")
	}

	raw, err := decompress(Compression(stored[0]), stored[1:])
	if err != nil {
		return 0, fmt.Errorf("decompress snapshot: %w", err)
	}

	var records []record
	if err := im.codec.Unmarshal(raw, &records); err != nil {
		return 0, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	for _, r := range records {
		sig := signature.Signature{Bands: r.Bands}
		if err := im.freq.Add(ctx, r.FeatureIndex, r.Item, sig); err != nil {
			return 0, err
		}
		for _, entry := range sig.NonZeroBuckets() {
			if err := im.index.Insert(ctx, r.FeatureIndex, entry.Band, entry.Bucket, im.cfg.Timestamp, r.Item); err != nil {
				return 0, err
			}
		}
	}
	return len(records), nil
}

func readBlob(ctx context.Context, b blobstore.Blob) ([]byte, error) {
	r, err := b.ReadRange(ctx, 0, b.Size())
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

func compress(c Compression, data []byte) ([]byte, error) {
	var buf bytes.Buffer
	var w io.WriteCloser
	switch c {
	case CompressionGzip:
		w = gzip.NewWriter(&buf)
	default:
		w = lz4.NewWriter(&buf)
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompress(c Compression, data []byte) ([]byte, error) {
	switch c {
	case CompressionGzip:
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return io.ReadAll(r)
	default:
		return io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
	}
}
