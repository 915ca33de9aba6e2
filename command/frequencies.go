package command

import (
	"github.com/arnegrid/simidx/argdecode"
	"github.com/arnegrid/simidx/signature"
)

// decodeFrequencies decodes the shared frequencies grammar: for each band in
// order 1..bands, a count n_b followed by n_b (bucket, count) pairs. The
// band count is fixed at bands; it is not repeated per request.
func decodeFrequencies(c *argdecode.Cursor, bands int) (signature.Signature, error) {
	sig := signature.New(bands)
	for i := 0; i < bands; i++ {
		n, err := argdecode.Int(c)
		if err != nil {
			return signature.Signature{}, err
		}
		for j := 0; j < n; j++ {
			bucket, err := argdecode.Uint16(c)
			if err != nil {
				return signature.Signature{}, err
			}
			count, err := argdecode.Int64(c)
			if err != nil {
				return signature.Signature{}, err
			}
			sig.Bands[i][bucket] = count
		}
	}
	return sig, nil
}
