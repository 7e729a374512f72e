package domain

// RawElement is one undecoded element of a bulk export array.
// The ingestor guarantees it is syntactically valid JSON, nothing more.
type RawElement []byte

// RawPermit is one upstream permit record after decoding: upstream field
// name to string value. Absent keys are absent; the feed has no typed fields.
// It exists only while a single record is being processed.
type RawPermit map[string]string

// Clone returns a shallow copy of the record.
func (r RawPermit) Clone() RawPermit {
	out := make(RawPermit, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
