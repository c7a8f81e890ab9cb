// Package factory is the format registry. It maps format tags to
// adapter constructors, resolves auto-detection across every registered
// format, and loads additional DSV dialect profiles from YAML.
package factory

import (
	"fmt"
	"sort"
	"sync"

	"tabstream/internal/adapter"
	"tabstream/internal/dsv"
	"tabstream/internal/logging"
	"tabstream/internal/models"
	"tabstream/internal/parsererror"
)

// Factory builds adapters for registered formats. Safe for concurrent
// use once construction and profile loading are done.
type Factory struct {
	log logging.Logger

	mu       sync.RWMutex
	profiles map[string]Profile
}

// New returns a factory seeded with the built-in DSV dialects.
func New(logger logging.Logger) *Factory {
	if logger == nil {
		logger = logging.GetLogger()
	}
	f := &Factory{
		log:      logger.WithField(logging.FieldComponent, "factory"),
		profiles: make(map[string]Profile),
	}
	for _, p := range builtinProfiles() {
		// Built-ins are static and validated by their tests.
		_ = f.Register(p)
	}
	return f
}

// Register adds or replaces a format profile.
func (f *Factory) Register(p Profile) error {
	if err := p.validate(); err != nil {
		return err
	}
	f.mu.Lock()
	f.profiles[p.Name] = p
	f.mu.Unlock()
	f.log.Debug("Registered format profile",
		logging.Field{Key: logging.FieldFormat, Value: p.Name})
	return nil
}

// Get constructs the adapter for the given format tag. Unknown tags
// fail with *parsererror.UnsupportedFormatError; the adapter itself
// never raises that condition.
func (f *Factory) Get(format string) (adapter.Adapter, error) {
	f.mu.RLock()
	p, ok := f.profiles[format]
	f.mu.RUnlock()
	if !ok {
		return nil, &parsererror.UnsupportedFormatError{
			Format:    format,
			Supported: f.Formats(),
		}
	}
	return dsv.NewDialectAdapter(p.Name, p.Extensions, p.options(), f.log), nil
}

// Formats returns the registered format tags, sorted.
func (f *Factory) Formats() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]string, 0, len(f.profiles))
	for name := range f.profiles {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// DetectBest runs detection for every registered format against path
// and returns the adapter with the highest confidence alongside its
// detection result. When no format scores above zero it fails with
// *parsererror.UnsupportedFormatError.
func (f *Factory) DetectBest(path string) (adapter.Adapter, models.FormatDetectionResult, error) {
	var (
		best       adapter.Adapter
		bestResult models.FormatDetectionResult
	)

	for _, name := range f.Formats() {
		a, err := f.Get(name)
		if err != nil {
			return nil, models.FormatDetectionResult{}, err
		}
		res := a.Detect(path)
		f.log.Debug("Scored format candidate",
			logging.Field{Key: logging.FieldFormat, Value: name},
			logging.Field{Key: logging.FieldConfidence, Value: res.Confidence})
		if best == nil || res.Confidence > bestResult.Confidence {
			best = a
			bestResult = res
		}
	}

	if best == nil || bestResult.Confidence == 0 {
		return nil, models.FormatDetectionResult{}, &parsererror.UnsupportedFormatError{
			Format:    fmt.Sprintf("auto-detect:%s", path),
			Supported: f.Formats(),
		}
	}
	return best, bestResult, nil
}
