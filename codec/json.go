package codec

import (
	"encoding/json"
)

// JSON is the standard-library JSON codec, used at the CLASSIFY wire-out
// boundary to render Score values (see signature.Score) and by the snapshot
// exporter to serialize Frequency Store hashes for backup.
type JSON struct{}

// Marshal encodes the value to JSON.
func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes the JSON data into v.
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns the unique name of the codec ("json").
func (JSON) Name() string { return "json" }

// Default is the default codec used by the library.
//
// NOTE: snapshot blobs record only their compression scheme, not the codec
// that encoded them; an Importer must be given the same codec the Exporter
// used.
var Default Codec = JSON{}
