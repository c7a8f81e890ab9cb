// Package tabstream is the public library surface. It re-exports the
// adapter contract and data model, and provides convenience
// constructors for the common cases, so consumers never import the
// internal packages directly.
package tabstream

import (
	"tabstream/internal/adapter"
	"tabstream/internal/factory"
	"tabstream/internal/models"
)

// Re-exported contract and data model.
type (
	Adapter               = adapter.Adapter
	RowStream             = adapter.RowStream
	ParseOptions          = models.ParseOptions
	ParsedRow             = models.ParsedRow
	FormatDetectionResult = models.FormatDetectionResult
	ValidationResult      = models.ValidationResult
	ParserStats           = models.ParserStats
	RowError              = models.RowError
	Registry              = factory.Factory
	Profile               = factory.Profile
)

// NewParseOptions returns options populated with the universal
// defaults.
func NewParseOptions() ParseOptions {
	return models.NewParseOptions()
}

// NewRegistry returns a format registry seeded with the built-in
// dialects.
func NewRegistry() *Registry {
	return factory.New(nil)
}

// Open resolves an adapter for the named format from a fresh registry.
// For repeated use, construct one Registry and resolve from it instead.
func Open(format string) (Adapter, error) {
	return factory.New(nil).Get(format)
}

// DetectFile auto-detects the best-scoring format for path and returns
// the matching adapter with its detection result.
func DetectFile(path string) (Adapter, FormatDetectionResult, error) {
	return factory.New(nil).DetectBest(path)
}
