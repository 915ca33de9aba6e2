package command

import (
	"github.com/arnegrid/simidx/codec"
)

// wireItem is the JSON-visible shape of one surviving candidate: its item
// key and one score per query, each a float in [0,1], or -1 for the
// sentinel "no meaningful comparison" case.
type wireItem struct {
	Item   string    `json:"item"`
	Scores []float64 `json:"scores"`
}

// EncodeClassifyResult renders a CLASSIFY Result through c (codec.Default if
// c is nil) as a list of {"item": ..., "scores": [...]} objects, one per
// surviving candidate, in the same order Result.Items is already sorted
// (ascending by ItemKey). Sentinel scores render as -1.
func EncodeClassifyResult(c codec.Codec, result Result) ([]byte, error) {
	if c == nil {
		c = codec.Default
	}

	items := make([]wireItem, len(result.Items))
	for i, it := range result.Items {
		scores := make([]float64, len(it.Scores))
		for j, s := range it.Scores {
			if s.Sentinel {
				scores[j] = -1
			} else {
				scores[j] = s.Value
			}
		}
		items[i] = wireItem{Item: it.ItemKey, Scores: scores}
	}

	return c.Marshal(items)
}
