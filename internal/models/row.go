package models

// MetadataOriginalType is the metadata key every adapter stamps on each
// row with its own format tag. Engine-supplied metadata may overlay any
// other key but never this one.
const MetadataOriginalType = "originalType"

// ParsedRow is the normalized row produced by every format adapter,
// regardless of the engine that decoded it.
type ParsedRow struct {
	// Index is 0-based and strictly increasing within one stream.
	Index int64 `json:"index"`
	// Data holds the ordered field values, still as raw text.
	Data []string `json:"data"`
	// Raw is the original line reconstructed by joining Data with the
	// effective delimiter. Best effort only: if the engine already
	// normalized escaping, Raw is not byte-identical to the source.
	Raw string `json:"raw"`
	// Metadata carries at least MetadataOriginalType plus whatever
	// per-row metadata the engine supplied.
	Metadata map[string]any `json:"metadata"`
}
