// Package dsv implements the delimiter-separated-values format engine
// and detector. The engine tokenizes on encoding/csv with a
// configurable delimiter; the detector scores a bounded byte sample for
// delimiter, quoting, header presence, and encoding signals.
package dsv

import (
	"bufio"
	"encoding/csv"
	"errors"
	"io"
	"sync"
	"sync/atomic"

	"tabstream/internal/engine"
	"tabstream/internal/models"
	"tabstream/internal/parsererror"
)

// DefaultDelimiter is used when neither the caller nor the detector
// supplies one.
const DefaultDelimiter = ','

// Engine is the DSV tokenizer. It keeps native counters for bytes,
// rows, and row-level decode errors, and honors advisory aborts between
// rows.
//
// One Engine instance must not serve two concurrent Open calls: the
// csv readers it hands out share its counters and abort flag, and the
// adapter builds a dedicated instance per overridden-options call.
type Engine struct {
	aborted atomic.Bool
	bytes   atomic.Int64
	rows    atomic.Int64

	mu   sync.Mutex
	errs []models.RowError
}

// NewEngine returns a DSV engine with zeroed counters.
func NewEngine() *Engine {
	return &Engine{}
}

// Open prepares a row reader over r. The reader decodes the configured
// text encoding, buffers reads at ChunkSize, and splits records on the
// configured delimiter. Quoting always follows RFC 4180 double-quote
// rules; a non-default Quote option is accepted but does not change the
// tokenizer.
func (e *Engine) Open(r io.Reader, opts models.ParseOptions) (engine.RowReader, error) {
	decoded, err := decodeReader(r, opts.Encoding)
	if err != nil {
		return nil, err
	}

	delim := opts.Delimiter
	if delim == 0 {
		delim = DefaultDelimiter
	}
	chunk := opts.ChunkSize
	if chunk <= 0 {
		chunk = models.DefaultChunkSize
	}

	counted := &countingReader{r: decoded, n: &e.bytes}
	cr := csv.NewReader(bufio.NewReaderSize(counted, chunk))
	cr.Comma = delim
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	return &rowReader{eng: e, cr: cr, skipHeader: opts.HasHeader}, nil
}

// Abort requests a cooperative stop. Row readers check the flag between
// rows, so a bounded number of rows may still be produced afterwards.
func (e *Engine) Abort() {
	e.aborted.Store(true)
}

// BytesProcessed returns the number of decoded bytes consumed so far.
func (e *Engine) BytesProcessed() int64 {
	return e.bytes.Load()
}

// RowsProcessed returns the number of data rows produced so far.
func (e *Engine) RowsProcessed() int64 {
	return e.rows.Load()
}

// RowErrors returns a copy of the row-level decode errors recorded so far.
func (e *Engine) RowErrors() []models.RowError {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.RowError, len(e.errs))
	copy(out, e.errs)
	return out
}

func (e *Engine) recordError(err error) {
	re := models.RowError{
		Message: err.Error(),
		Code:    parsererror.CodeRowDecode,
	}
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		re.Row = int64(pe.Line)
		re.Column = pe.Column
	}
	e.mu.Lock()
	e.errs = append(e.errs, re)
	e.mu.Unlock()
}

// countingReader adds every byte it passes through to the engine's
// byte counter.
type countingReader struct {
	r io.Reader
	n *atomic.Int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		c.n.Add(int64(n))
	}
	return n, err
}

// rowReader produces native rows from one csv reader. It is not safe
// for concurrent use.
type rowReader struct {
	eng        *Engine
	cr         *csv.Reader
	skipHeader bool
	headerDone bool
	header     []string
}

// Read returns the next native row, io.EOF at the end of input or
// after an abort, or the raw decode error otherwise. Decode errors are
// also recorded in the engine's counters before being returned.
func (r *rowReader) Read() (engine.Row, error) {
	if r.eng.aborted.Load() {
		return engine.Row{}, io.EOF
	}

	if r.skipHeader && !r.headerDone {
		r.headerDone = true
		hdr, err := r.cr.Read()
		if err == io.EOF {
			return engine.Row{}, io.EOF
		}
		if err != nil {
			r.eng.recordError(err)
			return engine.Row{}, err
		}
		r.header = hdr
	}

	rec, err := r.cr.Read()
	if err == io.EOF {
		return engine.Row{}, io.EOF
	}
	if err != nil {
		r.eng.recordError(err)
		return engine.Row{}, err
	}
	r.eng.rows.Add(1)

	// FieldPos gives the physical line the record starts on, so quoted
	// multiline fields do not shift later line numbers.
	line, _ := r.cr.FieldPos(0)

	return engine.Row{
		Fields: rec,
		Meta:   map[string]any{"sourceLine": int64(line)},
	}, nil
}

// Close releases the reader. The underlying source is owned and closed
// by the caller.
func (r *rowReader) Close() error {
	return nil
}

// Header returns the header record consumed by this reader, or nil when
// the options declared no header row or no row has been read yet.
func (r *rowReader) Header() []string {
	return r.header
}
