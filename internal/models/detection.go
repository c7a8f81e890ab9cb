package models

// FormatDetectionResult is the normalized outcome of sampling a source
// and asking one format's detector to score it.
//
// A Confidence of 0 means detection failed (Metadata["error"] carries the
// failure message); it does not mean "definitely not this format".
type FormatDetectionResult struct {
	// Format is the tag of the format that produced this result.
	Format string `json:"format"`
	// Confidence is a heuristic score in [0,1], not a probability.
	Confidence float64 `json:"confidence"`
	// Metadata holds format-specific signals: delimiter, quote,
	// hasHeader, and "error" when detection failed.
	Metadata map[string]any `json:"metadata"`
	// Encoding is the detected or assumed text encoding.
	Encoding string `json:"encoding"`
	// EstimatedRows and EstimatedColumns are 0 whenever the detector
	// cannot derive them from a bounded sample alone.
	EstimatedRows    int `json:"estimatedRows"`
	EstimatedColumns int `json:"estimatedColumns"`
	// SuggestedOptions are the options the adapter recommends for a
	// full parse of this source. Nil when detection failed.
	SuggestedOptions *ParseOptions `json:"suggestedOptions,omitempty"`
}

// ValidationResult is the pre-flight gate outcome. Valid and CanProceed
// are independent: CanProceed without Valid is degraded mode, where
// processing is allowed despite unresolved concerns.
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
	// CanProceed reports whether a parse attempt is worthwhile even if
	// the file did not validate cleanly.
	CanProceed bool `json:"canProceed"`
	// SuggestedFixes are actionable hints naming the flags a
	// surrounding tool should expose (delimiter, quote, encoding).
	SuggestedFixes []string `json:"suggestedFixes"`
}
