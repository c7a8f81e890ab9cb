package adapter

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabstream/internal/engine"
	"tabstream/internal/logging"
	"tabstream/internal/models"
	"tabstream/internal/parsererror"
)

// stubDetector returns a fixed signal set regardless of the sample.
type stubDetector struct {
	sig engine.Signals
	err error
}

func (d *stubDetector) DetectSample([]byte) (engine.Signals, error) {
	return d.sig, d.err
}

// stubEngine replays scripted rows; failAt >= 0 injects an error at
// that position.
type stubEngine struct {
	rows   []engine.Row
	failAt int
}

func (e *stubEngine) Open(_ io.Reader, _ models.ParseOptions) (engine.RowReader, error) {
	return &stubReader{eng: e}, nil
}

type stubReader struct {
	eng *stubEngine
	pos int
}

func (r *stubReader) Read() (engine.Row, error) {
	if r.eng.failAt >= 0 && r.pos == r.eng.failAt {
		return engine.Row{}, errors.New("scripted engine failure")
	}
	if r.pos >= len(r.eng.rows) {
		return engine.Row{}, io.EOF
	}
	row := r.eng.rows[r.pos]
	r.pos++
	return row, nil
}

func (r *stubReader) Close() error { return nil }

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func stubAdapter(det engine.Detector, eng *stubEngine) *FormatAdapter {
	return New(Config{
		Format:     "stub",
		Extensions: []string{"stub"},
		Engine:     eng,
		Detector:   det,
		Defaults:   models.NewParseOptions(),
		Logger:     &logging.MockLogger{},
	})
}

func scriptedRows(n int) []engine.Row {
	rows := make([]engine.Row, n)
	for i := range rows {
		rows[i] = engine.Row{Fields: []string{fmt.Sprintf("v%d", i), "x"}}
	}
	return rows
}

func TestParse_RowNormalization(t *testing.T) {
	eng := &stubEngine{
		rows: []engine.Row{
			{Fields: []string{"a", "b"}, Meta: map[string]any{"sourceLine": int64(2), "originalType": "spoofed"}},
			{Fields: []string{"c", "d"}},
		},
		failAt: -1,
	}
	a := stubAdapter(&stubDetector{}, eng)
	path := writeFile(t, "in.stub", "irrelevant")

	stream, err := a.Parse(path, nil)
	require.NoError(t, err)
	defer func() {
		_ = stream.Close()
	}()

	require.True(t, stream.Next())
	row := stream.Row()
	assert.Equal(t, int64(0), row.Index)
	assert.Equal(t, []string{"a", "b"}, row.Data)
	assert.Equal(t, "a,b", row.Raw)
	assert.Equal(t, "stub", row.Metadata[models.MetadataOriginalType],
		"the adapter always owns originalType")
	assert.Equal(t, int64(2), row.Metadata["sourceLine"], "engine metadata overlays the rest")

	require.True(t, stream.Next())
	assert.Equal(t, int64(1), stream.Row().Index)

	assert.False(t, stream.Next())
	assert.NoError(t, stream.Err())
}

func TestParse_FieldlessRowBecomesSingleField(t *testing.T) {
	eng := &stubEngine{
		rows:   []engine.Row{{Raw: "opaque native line"}},
		failAt: -1,
	}
	a := stubAdapter(&stubDetector{}, eng)
	path := writeFile(t, "in.stub", "x")

	stream, err := a.Parse(path, nil)
	require.NoError(t, err)
	defer func() {
		_ = stream.Close()
	}()

	require.True(t, stream.Next())
	assert.Equal(t, []string{"opaque native line"}, stream.Row().Data)
}

func TestParse_RepeatedCallsYieldIdenticalIndexing(t *testing.T) {
	eng := &stubEngine{rows: scriptedRows(5), failAt: -1}
	a := stubAdapter(&stubDetector{}, eng)
	path := writeFile(t, "in.stub", "x")

	collect := func() []int64 {
		stream, err := a.Parse(path, nil)
		require.NoError(t, err)
		defer func() {
			_ = stream.Close()
		}()
		var indices []int64
		for stream.Next() {
			indices = append(indices, stream.Row().Index)
		}
		require.NoError(t, stream.Err())
		return indices
	}

	first := collect()
	second := collect()
	assert.Equal(t, []int64{0, 1, 2, 3, 4}, first)
	assert.Equal(t, first, second)
}

func TestParse_MaxRows(t *testing.T) {
	eng := &stubEngine{rows: scriptedRows(10), failAt: -1}
	a := stubAdapter(&stubDetector{}, eng)
	path := writeFile(t, "in.stub", "x")

	opts := models.NewParseOptions()
	opts.MaxRows = 3

	stream, err := a.Parse(path, &opts)
	require.NoError(t, err)
	defer func() {
		_ = stream.Close()
	}()

	var indices []int64
	for stream.Next() {
		indices = append(indices, stream.Row().Index)
	}
	require.NoError(t, stream.Err())
	assert.Equal(t, []int64{0, 1, 2}, indices)
}

func TestParse_EngineFailureIsClassified(t *testing.T) {
	eng := &stubEngine{rows: scriptedRows(5), failAt: 2}
	a := stubAdapter(&stubDetector{}, eng)
	path := writeFile(t, "in.stub", "x")

	stream, err := a.Parse(path, nil)
	require.NoError(t, err)
	defer func() {
		_ = stream.Close()
	}()

	var rows int
	for stream.Next() {
		rows++
	}
	assert.Equal(t, 2, rows)

	err = stream.Err()
	require.Error(t, err)

	var pe *parsererror.ParseError
	require.ErrorAs(t, err, &pe, "engine failures must never surface raw")
	assert.Equal(t, parsererror.CodeParsingError, pe.Code)
	assert.Equal(t, parsererror.SeverityHigh, pe.Severity)
	assert.Equal(t, parsererror.CategoryParsing, pe.Category)
	assert.Contains(t, err.Error(), "scripted engine failure",
		"the original engine message is preserved")
}

func TestParse_MissingFile(t *testing.T) {
	a := stubAdapter(&stubDetector{}, &stubEngine{failAt: -1})

	_, err := a.Parse(filepath.Join(t.TempDir(), "nope.stub"), nil)
	require.Error(t, err)

	var pe *parsererror.ParseError
	assert.ErrorAs(t, err, &pe)
}

func TestAbort_TerminatesStreamEarly(t *testing.T) {
	eng := &stubEngine{rows: scriptedRows(5000), failAt: -1}
	a := stubAdapter(&stubDetector{}, eng)
	path := writeFile(t, "in.stub", "x")

	stream, err := a.Parse(path, nil)
	require.NoError(t, err)
	defer func() {
		_ = stream.Close()
	}()

	var rows int
	for stream.Next() {
		rows++
		if rows == 10 {
			a.Abort()
		}
	}
	require.NoError(t, stream.Err())
	assert.Less(t, rows, 5000, "abort must stop the stream well before the end")
	assert.GreaterOrEqual(t, rows, 10)
}

func TestAbort_SafeBeforeAndAfterParse(t *testing.T) {
	a := stubAdapter(&stubDetector{}, &stubEngine{failAt: -1})
	a.Abort()
	a.Abort()
}

func TestDetect_UsesDetectorSignals(t *testing.T) {
	det := &stubDetector{sig: engine.Signals{
		Delimiter:  ',',
		Quote:      '"',
		HasHeader:  true,
		Encoding:   "utf8",
		Confidence: 0.92,
		Scored:     true,
	}}
	a := stubAdapter(det, &stubEngine{failAt: -1})
	path := writeFile(t, "in.stub", "name,age\nalice,30\n")

	res := a.Detect(path)
	assert.Equal(t, "stub", res.Format)
	assert.Equal(t, 0.92, res.Confidence)
	assert.Equal(t, ",", res.Metadata["delimiter"])
	assert.Equal(t, true, res.Metadata["hasHeader"])
	assert.Equal(t, "utf8", res.Encoding)
	assert.Equal(t, 0, res.EstimatedRows)
	assert.Equal(t, 0, res.EstimatedColumns)
	require.NotNil(t, res.SuggestedOptions)
	assert.Equal(t, ',', int32(res.SuggestedOptions.Delimiter))
	assert.True(t, res.SuggestedOptions.HasHeader)
}

func TestDetect_FallbackConfidenceWhenUnscored(t *testing.T) {
	det := &stubDetector{sig: engine.Signals{Delimiter: ','}}
	a := stubAdapter(det, &stubEngine{failAt: -1})
	path := writeFile(t, "in.stub", "a,b\n")

	res := a.Detect(path)
	assert.Equal(t, fallbackConfidence, res.Confidence)
}

func TestDetect_NeverFails(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		a := stubAdapter(&stubDetector{}, &stubEngine{failAt: -1})
		res := a.Detect(filepath.Join(t.TempDir(), "missing.stub"))
		assert.Equal(t, 0.0, res.Confidence)
		assert.NotEmpty(t, res.Metadata["error"])
	})

	t.Run("detector error", func(t *testing.T) {
		det := &stubDetector{err: errors.New("sample contains binary content")}
		a := stubAdapter(det, &stubEngine{failAt: -1})
		path := writeFile(t, "in.stub", "\x00\x01")

		res := a.Detect(path)
		assert.Equal(t, 0.0, res.Confidence)
		assert.Contains(t, res.Metadata["error"], "binary")
	})

	t.Run("detector panic", func(t *testing.T) {
		a := stubAdapter(&panicDetector{}, &stubEngine{failAt: -1})
		path := writeFile(t, "in.stub", "a,b\n")

		res := a.Detect(path)
		assert.Equal(t, 0.0, res.Confidence)
		assert.NotEmpty(t, res.Metadata["error"])
	})
}

type panicDetector struct{}

func (p *panicDetector) DetectSample([]byte) (engine.Signals, error) {
	panic("detector exploded")
}

func validateWithConfidence(t *testing.T, confidence float64) models.ValidationResult {
	t.Helper()
	det := &stubDetector{sig: engine.Signals{
		Delimiter:  ',',
		Confidence: confidence,
		Scored:     true,
	}}
	a := stubAdapter(det, &stubEngine{failAt: -1})
	path := writeFile(t, "in.stub", "a,b\n")
	return a.Validate(path)
}

func TestValidate_Thresholds(t *testing.T) {
	cases := []struct {
		confidence   float64
		valid        bool
		canProceed   bool
		moderateWarn bool
		genericHints bool
	}{
		{0.95, true, true, false, false},
		{0.85, true, true, true, false},
		{0.75, true, true, false, true},
		{0.60, false, true, false, true},
		{0.50, false, false, false, true},
		{0.30, false, false, false, true},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("confidence=%.2f", tc.confidence), func(t *testing.T) {
			res := validateWithConfidence(t, tc.confidence)

			assert.Equal(t, tc.valid, res.Valid)
			assert.Equal(t, tc.canProceed, res.CanProceed)

			hasModerate := false
			for _, w := range res.Warnings {
				if strings.Contains(w, "parsing issues") {
					hasModerate = true
				}
			}
			assert.Equal(t, tc.moderateWarn, hasModerate)

			hasHint := false
			for _, f := range res.SuggestedFixes {
				if f == HintExplicitDelimiter {
					hasHint = true
				}
			}
			assert.Equal(t, tc.genericHints, hasHint)
		})
	}
}

func TestValidate_UnknownDelimiter(t *testing.T) {
	det := &stubDetector{sig: engine.Signals{
		Confidence: 0.3,
		Scored:     true,
		Extra:      map[string]any{"delimiterUnknown": true},
	}}
	a := stubAdapter(det, &stubEngine{failAt: -1})
	path := writeFile(t, "in.stub", "oneword\n")

	res := a.Validate(path)
	assert.False(t, res.Valid)
	assert.False(t, res.CanProceed)

	found := false
	for _, w := range res.Warnings {
		if strings.Contains(w, "delimiter") {
			found = true
		}
	}
	assert.True(t, found, "unknown delimiter needs a dedicated warning")
	assert.Contains(t, res.SuggestedFixes, HintSetDelimiter)
}

func TestValidate_DetectionFailure(t *testing.T) {
	a := stubAdapter(&stubDetector{err: errors.New("empty sample")}, &stubEngine{failAt: -1})
	path := writeFile(t, "in.stub", "")

	res := a.Validate(path)
	assert.False(t, res.Valid)
	assert.False(t, res.CanProceed)
	require.NotEmpty(t, res.Errors)
	assert.Contains(t, res.Errors[0], "empty sample")
}

func TestStats_ZeroDefaultsWithoutCapability(t *testing.T) {
	a := stubAdapter(&stubDetector{}, &stubEngine{failAt: -1})

	stats := a.Stats()
	assert.Equal(t, "stub", stats.Format)
	assert.Equal(t, int64(0), stats.BytesProcessed)
	assert.Equal(t, int64(0), stats.RowsProcessed)
	assert.NotNil(t, stats.Errors)
	assert.Empty(t, stats.Errors)
	assert.False(t, stats.StartTime.IsZero())
	assert.False(t, stats.EndTime.Before(stats.StartTime))
}

func TestMetadataAccessorsArePureAndStable(t *testing.T) {
	a := stubAdapter(&stubDetector{}, &stubEngine{failAt: -1})

	assert.Equal(t, "stub", a.FormatName())
	assert.Equal(t, a.FormatName(), a.FormatName())

	exts := a.SupportedExtensions()
	require.Equal(t, []string{"stub"}, exts)
	exts[0] = "mutated"
	assert.Equal(t, []string{"stub"}, a.SupportedExtensions(),
		"callers must not be able to mutate the adapter's extension list")
}
