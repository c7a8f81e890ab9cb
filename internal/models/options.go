// Package models defines the data structures exchanged between format
// adapters, format engines, and downstream consumers: parse options,
// normalized rows, detection and validation results, and run statistics.
package models

// Default values applied when an option field is left at its zero value.
const (
	DefaultEncoding  = "utf8"
	DefaultChunkSize = 8192
	DefaultQuote     = '"'
)

// ParseOptions configures a single parse invocation. A ParseOptions value
// is treated as immutable once a parse has started; supplying options on a
// call replaces the adapter's constructor defaults wholesale for that call
// (field-by-field fallback for zero values, no deep merge).
//
// Unknown configuration keys from outer layers are dropped before they
// reach this struct, never rejected.
type ParseOptions struct {
	// Delimiter separates fields. Zero means "use the format's default".
	Delimiter rune
	// Quote is the field quoting character. Zero means '"'.
	Quote rune
	// HasHeader indicates the first row is a header and should not be
	// emitted as data.
	HasHeader bool
	// MaxRows caps the number of rows produced. Zero means unlimited.
	MaxRows int
	// Encoding names the text encoding of the source ("utf8", "latin1",
	// "windows-1252", "utf16le", "utf16be"). Empty means "utf8".
	Encoding string
	// ChunkSize is the streaming read-buffer size in bytes.
	ChunkSize int
}

// NewParseOptions returns options populated with the universal defaults:
// header row expected, UTF-8 text, 8 KiB read buffer. The delimiter is
// left unset so each format can apply its own default.
func NewParseOptions() ParseOptions {
	return ParseOptions{
		Quote:     DefaultQuote,
		HasHeader: true,
		Encoding:  DefaultEncoding,
		ChunkSize: DefaultChunkSize,
	}
}

// WithDefaults fills zero-valued fields from defaults and returns the
// resolved copy. HasHeader and MaxRows are taken verbatim from o: false
// and zero are meaningful settings for those fields.
func (o ParseOptions) WithDefaults(defaults ParseOptions) ParseOptions {
	out := o
	if out.Delimiter == 0 {
		out.Delimiter = defaults.Delimiter
	}
	if out.Quote == 0 {
		out.Quote = defaults.Quote
		if out.Quote == 0 {
			out.Quote = DefaultQuote
		}
	}
	if out.Encoding == "" {
		out.Encoding = defaults.Encoding
		if out.Encoding == "" {
			out.Encoding = DefaultEncoding
		}
	}
	if out.ChunkSize <= 0 {
		out.ChunkSize = defaults.ChunkSize
		if out.ChunkSize <= 0 {
			out.ChunkSize = DefaultChunkSize
		}
	}
	return out
}
