package signature

// Score is the result of a Similarity Kernel comparison. Sentinel marks "no
// meaningful comparison was possible" (one or both signatures were empty);
// Value is only meaningful when Sentinel is false. Keeping this as an
// explicit tagged variant internally defers the wire convention (-1) to the
// encoding boundary.
type Score struct {
	Value    float64
	Sentinel bool
}

// SentinelScore is the shared "no comparison" score.
var SentinelScore = Score{Sentinel: true}

// Kernel scores two signatures band-by-band and averages the per-band
// similarities. Both signatures must have the same number of bands; callers
// are expected to have already special-cased emptiness before calling this
// (Kernel does not consult Signature.Empty itself).
func Kernel(a, b Signature) Score {
	bands := len(a.Bands)
	if len(b.Bands) < bands {
		bands = len(b.Bands)
	}
	if bands == 0 {
		return SentinelScore
	}

	var sum float64
	for i := 0; i < bands; i++ {
		sum += bandSimilarity(a.Bands[i], b.Bands[i])
	}
	return Score{Value: sum / float64(bands)}
}

// bandSimilarity computes 1 - d/2 where d is the Manhattan distance between
// the L1-normalized histograms of a and b. A band whose total count is zero
// is treated as having maximal distance (2), giving similarity 0, which
// avoids a division by zero while still penalizing a "no signal" band.
func bandSimilarity(a, b Band) float64 {
	totalA := bandTotal(a)
	totalB := bandTotal(b)
	if totalA == 0 || totalB == 0 {
		return 0
	}

	keys := make(map[uint16]struct{}, len(a)+len(b))
	for k := range a {
		keys[k] = struct{}{}
	}
	for k := range b {
		keys[k] = struct{}{}
	}

	var distance float64
	for k := range keys {
		p := float64(a[k]) / float64(totalA)
		q := float64(b[k]) / float64(totalB)
		distance += absFloat(p - q)
	}

	return 1 - distance/2
}

func bandTotal(b Band) int64 {
	var total int64
	for _, count := range b {
		total += count
	}
	return total
}

func absFloat(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
