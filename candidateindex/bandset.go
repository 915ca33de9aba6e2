package candidateindex

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// bandSet is a small bitset of width bands, tracking which bands a
// candidate collided with the query in. A set this narrow (at most 255
// bits) stays within Roaring's single-container fast path.
type bandSet struct {
	rb *roaring.Bitmap
}

func newBandSet() *bandSet {
	return &bandSet{rb: roaring.New()}
}

func (b *bandSet) add(band uint8) {
	b.rb.Add(uint32(band))
}

func (b *bandSet) count() int {
	return int(b.rb.GetCardinality())
}
