// Package validation provides the input checks commands run before
// handing a path to an adapter.
package validation

import (
	"fmt"
	"os"
)

// IsValidInputPath checks that path exists and names a regular file.
func IsValidInputPath(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("path does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("error checking path %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("path is a directory, expected a file: %s", path)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("path %s is not a regular file", path)
	}
	return nil
}

// IsValidReportFormat checks that format names a supported run-report
// rendering.
func IsValidReportFormat(format string) error {
	switch format {
	case "json", "csv":
		return nil
	default:
		return fmt.Errorf("unsupported report format: %s. Supported formats are 'json', 'csv'", format)
	}
}
