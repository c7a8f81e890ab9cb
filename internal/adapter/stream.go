package adapter

import (
	"io"
	"strings"

	"tabstream/internal/engine"
	"tabstream/internal/models"
	"tabstream/internal/parsererror"
)

// RowStream is the lazy row sequence returned by Parse. Iteration
// follows the sql.Rows idiom:
//
//	stream, err := a.Parse(path, nil)
//	if err != nil { ... }
//	defer stream.Close()
//	for stream.Next() {
//	    row := stream.Row()
//	    ...
//	}
//	if err := stream.Err(); err != nil { ... }
//
// The stream is pull-driven: each Next call asks the engine for exactly
// one more row, so files of any size are safe to iterate. A stream is
// finite and not restartable; abandon it and call Parse again to start
// over. Not safe for concurrent use.
type RowStream struct {
	adapter *FormatAdapter
	eng     engine.Engine
	reader  engine.RowReader
	src     io.Closer
	delim   rune
	maxRows int
	index   int64
	cur     models.ParsedRow
	err     error
	done    bool
}

// Next advances to the next row. It returns false at the end of input,
// after MaxRows rows, after an abort request, or on failure; check Err
// afterwards to distinguish failure from completion.
func (s *RowStream) Next() bool {
	if s.done {
		return false
	}
	if s.adapter.aborted.Load() {
		s.finish()
		return false
	}
	if s.maxRows > 0 && s.index >= int64(s.maxRows) {
		s.finish()
		return false
	}

	row, err := s.reader.Read()
	if err == io.EOF {
		s.finish()
		return false
	}
	if err != nil {
		s.err = parsererror.NewParseError(s.adapter.format, err)
		s.finish()
		return false
	}

	fields := row.Fields
	if fields == nil {
		fields = []string{row.Raw}
	}

	metadata := map[string]any{
		models.MetadataOriginalType: s.adapter.format,
	}
	for k, v := range row.Meta {
		if k == models.MetadataOriginalType {
			continue
		}
		metadata[k] = v
	}

	s.cur = models.ParsedRow{
		Index:    s.index,
		Data:     fields,
		Raw:      strings.Join(fields, string(s.delim)),
		Metadata: metadata,
	}
	s.index++
	return true
}

// Row returns the row produced by the last successful Next call.
func (s *RowStream) Row() models.ParsedRow {
	return s.cur
}

// Err returns the classified error that terminated the stream, or nil
// after normal completion.
func (s *RowStream) Err() error {
	return s.err
}

// Stats reads through the engine that served this stream. For streams
// opened with explicit options this is the dedicated per-call engine,
// so the counters reflect this run even though the adapter's shared
// engine never saw it. Valid after Close.
func (s *RowStream) Stats() models.ParserStats {
	return s.adapter.statsFrom(s.eng)
}

// Close releases the engine reader and the underlying source. Safe to
// call more than once.
func (s *RowStream) Close() error {
	s.finish()
	return nil
}

func (s *RowStream) finish() {
	if s.done {
		return
	}
	s.done = true
	_ = s.reader.Close()
	_ = s.src.Close()
}
