// Package fileutils provides the source I/O used by format adapters:
// existence checks, bounded sample reads for detection, and transparent
// decompression of lz4-compressed sources.
package fileutils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pierrec/lz4/v4"
)

// FileExists checks if a file exists and is not a directory.
func FileExists(filePath string) bool {
	info, err := os.Stat(filePath)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsCompressed reports whether path names an lz4-compressed source.
func IsCompressed(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".lz4")
}

// sourceReader pairs a decoding reader with the file it wraps so both
// are released by a single Close.
type sourceReader struct {
	io.Reader
	file *os.File
}

func (s *sourceReader) Close() error {
	return s.file.Close()
}

// OpenSource opens path for streaming. Sources ending in .lz4 are
// decompressed transparently; everything else is read as-is. The
// returned ReadCloser owns the underlying file handle.
func OpenSource(path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening source file: %w", err)
	}
	if IsCompressed(path) {
		return &sourceReader{Reader: lz4.NewReader(file), file: file}, nil
	}
	return file, nil
}

// ReadSample reads at most maxBytes from the start of path. The file
// handle is released before returning on every path, including errors.
// Compressed sources are sampled after decompression so detectors see
// the logical content.
func ReadSample(path string, maxBytes int) ([]byte, error) {
	if maxBytes <= 0 {
		return nil, fmt.Errorf("sample size must be positive, got %d", maxBytes)
	}

	src, err := OpenSource(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = src.Close()
	}()

	buf := make([]byte, maxBytes)
	n, err := io.ReadFull(src, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("error sampling source file: %w", err)
	}
	return buf[:n], nil
}
