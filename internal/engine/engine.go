// Package engine defines the narrow contracts a format engine and its
// detector must satisfy to be driven by a format adapter. Engines own
// their tokenization, options, and error vocabulary; adapters consume
// them only through these interfaces.
package engine

import (
	"io"

	"tabstream/internal/models"
)

// Row is an engine's native row record. Fields carries the ordered
// field values when the engine exposes them; when Fields is nil the
// adapter treats Raw as a single-field row. Meta is optional per-row
// metadata the adapter overlays onto the normalized row.
type Row struct {
	Fields []string
	Raw    string
	Meta   map[string]any
}

// RowReader produces native rows one at a time. Read returns io.EOF
// after the final row. Close releases any resources held by the reader;
// it does not close the underlying source.
type RowReader interface {
	Read() (Row, error)
	Close() error
}

// Engine opens a row reader over r using the resolved options. One
// engine instance must not serve two concurrent Open calls; the adapter
// enforces this by building a fresh instance per overridden-options
// parse call.
type Engine interface {
	Open(r io.Reader, opts models.ParseOptions) (RowReader, error)
}

// Signals is the raw outcome of a detector inspecting a byte sample.
// The adapter normalizes it into a models.FormatDetectionResult.
type Signals struct {
	// Delimiter is 0 when the detector could not determine one.
	Delimiter rune
	Quote     rune
	HasHeader bool
	Encoding  string
	// Confidence is meaningful only when Scored is true; the adapter
	// substitutes a conservative fallback otherwise.
	Confidence float64
	Scored     bool
	// EstimatedRows and EstimatedColumns stay 0 when a bounded sample
	// cannot support an estimate.
	EstimatedRows    int
	EstimatedColumns int
	// Extra holds any additional format-specific signals.
	Extra map[string]any
}

// Detector analyzes a bounded byte sample. An error return means the
// sample could not be scored at all (empty, binary, undecodable); the
// adapter converts it into a confidence-0 result, never a panic.
type Detector interface {
	DetectSample(sample []byte) (Signals, error)
}

// Aborter is an optional engine capability. Abort is an advisory
// request checked between rows; the engine decides how quickly to honor
// it, and a bounded number of rows may still be produced afterwards.
type Aborter interface {
	Abort()
}

// StatsSource is an optional engine capability exposing native
// counters. Adapters substitute zero values for engines without it.
type StatsSource interface {
	BytesProcessed() int64
	RowsProcessed() int64
	RowErrors() []models.RowError
}
