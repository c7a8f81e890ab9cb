package logging

// Standardized field names for structured logging. Using the same keys
// everywhere keeps log output filterable across adapters and commands.
const (
	FieldFile       = "file_path"
	FieldFormat     = "format"
	FieldDelimiter  = "delimiter"
	FieldEncoding   = "encoding"
	FieldConfidence = "confidence"
	FieldRows       = "rows"
	FieldBytes      = "bytes"
	FieldComponent  = "component"
	FieldOperation  = "operation"
	FieldError      = "error"
	FieldDuration   = "duration_ms"
	FieldOutputFile = "output_file"
)
