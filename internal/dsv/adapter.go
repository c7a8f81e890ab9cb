package dsv

import (
	"tabstream/internal/adapter"
	"tabstream/internal/engine"
	"tabstream/internal/logging"
	"tabstream/internal/models"
)

// NewAdapter builds the adapter for plain comma-separated files.
func NewAdapter(logger logging.Logger) *adapter.FormatAdapter {
	defaults := models.NewParseOptions()
	defaults.Delimiter = DefaultDelimiter
	return NewDialectAdapter("csv", []string{"csv"}, defaults, logger)
}

// NewDialectAdapter builds an adapter for a named DSV dialect (tsv,
// semicolon, pipe, ...) sharing the same engine and detection logic but
// with dialect-specific defaults. Each adapter owns its engine and
// detector instances exclusively.
func NewDialectAdapter(format string, extensions []string, defaults models.ParseOptions, logger logging.Logger) *adapter.FormatAdapter {
	return adapter.New(adapter.Config{
		Format:     format,
		Extensions: extensions,
		Engine:     NewEngine(),
		NewEngine:  func() engine.Engine { return NewEngine() },
		Detector:   &dialectDetector{inner: NewDetector(), delimiter: defaults.Delimiter},
		Defaults:   defaults,
		Logger:     logger,
	})
}

// dialectDetector scopes the shared DSV detector to one dialect: when
// the sample clearly uses a different delimiter than the dialect's
// default, the score is halved so the registry's auto-detection ranks
// the matching dialect first.
type dialectDetector struct {
	inner     *Detector
	delimiter rune
}

func (d *dialectDetector) DetectSample(sample []byte) (engine.Signals, error) {
	sig, err := d.inner.DetectSample(sample)
	if err != nil {
		return sig, err
	}
	if d.delimiter != 0 && sig.Delimiter != 0 && sig.Delimiter != d.delimiter {
		sig.Confidence *= 0.5
		sig.Extra["delimiterMismatch"] = true
	}
	return sig, nil
}
