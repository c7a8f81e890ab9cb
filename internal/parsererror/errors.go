// Package parsererror defines the stable error vocabulary shared by all
// format adapters. Engine failures never leave an adapter raw; they are
// wrapped into one of these types so callers can classify failures
// without knowing which engine produced them.
package parsererror

import (
	"fmt"
	"strings"
)

// Severity classifies how serious a wrapped failure is.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// Category names the subsystem a failure belongs to.
type Category string

const (
	CategoryParsing    Category = "PARSING"
	CategoryIO         Category = "IO"
	CategoryValidation Category = "VALIDATION"
	CategoryConfig     Category = "CONFIGURATION"
)

// Stable error codes surfaced to callers and in row error records.
const (
	CodeParsingError      = "PARSING_ERROR"
	CodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	CodeRowDecode         = "ROW_DECODE"
)

// ParseError wraps an engine failure raised from the streaming path.
// The original engine message is preserved for diagnostics; Code,
// Severity, and Category are fixed so callers see one classified error
// per failed attempt.
type ParseError struct {
	Format   string
	Code     string
	Severity Severity
	Category Category
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s [%s/%s/%s]: %v",
		e.Format, e.Code, e.Severity, e.Category, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError wraps err as the standard streaming-path failure:
// code PARSING_ERROR, severity HIGH, category PARSING.
func NewParseError(format string, err error) *ParseError {
	return &ParseError{
		Format:   format,
		Code:     CodeParsingError,
		Severity: SeverityHigh,
		Category: CategoryParsing,
		Err:      err,
	}
}

// UnsupportedFormatError is raised by the registry when no adapter
// matches the requested format tag. Adapters never raise it themselves.
type UnsupportedFormatError struct {
	Format    string
	Supported []string
}

func (e *UnsupportedFormatError) Error() string {
	if len(e.Supported) == 0 {
		return fmt.Sprintf("%s: unsupported format %q", CodeUnsupportedFormat, e.Format)
	}
	return fmt.Sprintf("%s: unsupported format %q (supported: %s)",
		CodeUnsupportedFormat, e.Format, strings.Join(e.Supported, ", "))
}

// InvalidFormatError reports that a source does not conform to the
// format an engine expected. It feeds validation results, not panics.
type InvalidFormatError struct {
	FilePath       string
	ExpectedFormat string
	Msg            string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s",
		e.FilePath, e.Msg, e.ExpectedFormat)
}
