package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidInputPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n"), 0600))

	assert.NoError(t, IsValidInputPath(path))

	err := IsValidInputPath(filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")

	err = IsValidInputPath(dir)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "directory")
}

func TestIsValidReportFormat(t *testing.T) {
	assert.NoError(t, IsValidReportFormat("json"))
	assert.NoError(t, IsValidReportFormat("csv"))

	err := IsValidReportFormat("xml")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported report format")

	assert.Error(t, IsValidReportFormat(""))
}
