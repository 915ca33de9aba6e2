// Package bandkey implements the Key Codec: packing (band, bucket) pairs
// into fixed-width byte strings and formatting the storage keys used by the
// Frequency Store and Candidate Index.
package bandkey

import (
	"strconv"
	"strings"

	"github.com/arnegrid/simidx/core"
)

// Pack encodes (band, bucket) as a 3-byte big-endian field: band:u8,
// bucket:u16. Deterministic; used both as a hash subkey and as a component
// of candidate set-key prefixes.
func Pack(band uint8, bucket uint16) []byte {
	return []byte{band, byte(bucket >> 8), byte(bucket)}
}

// Unpack is the inverse of Pack. It fails with a KeyFormatError if field is
// not exactly 3 bytes long.
func Unpack(field []byte) (band uint8, bucket uint16, err error) {
	if len(field) != 3 {
		return 0, 0, &core.KeyFormatError{Field: string(field), Len: len(field)}
	}
	return field[0], uint16(field[1])<<8 | uint16(field[2]), nil
}

// FrequencyKey builds the storage key for a Frequency Store hash:
// "{scope}:f:{feature_index}:{item_key}".
func FrequencyKey(scope, featureIndex, itemKey string) string {
	var b strings.Builder
	b.WriteString(scope)
	b.WriteString(":f:")
	b.WriteString(featureIndex)
	b.WriteByte(':')
	b.WriteString(itemKey)
	return b.String()
}

// CandidatePrefix builds the storage key prefix for a candidate set:
// "{scope}:{feature_index}:{pack(band,bucket)}:". The caller appends the
// decimal TimeBucket to complete the key. The packed bytes are written
// verbatim (not hex-encoded); callers must treat the resulting key as
// opaque bytes, not as human-readable text.
func CandidatePrefix(scope, featureIndex string, band uint8, bucket uint16) string {
	var b strings.Builder
	b.WriteString(scope)
	b.WriteByte(':')
	b.WriteString(featureIndex)
	b.WriteByte(':')
	b.Write(Pack(band, bucket))
	b.WriteByte(':')
	return b.String()
}

// CandidateKey builds the full candidate set key for a given TimeBucket.
func CandidateKey(scope, featureIndex string, band uint8, bucket uint16, timeBucket int64) string {
	return CandidatePrefix(scope, featureIndex, band, bucket) + strconv.FormatInt(timeBucket, 10)
}
