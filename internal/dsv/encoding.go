package dsv

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// decodeReader wraps r so the tokenizer always sees UTF-8, regardless
// of the declared source encoding.
func decodeReader(r io.Reader, encodingName string) (io.Reader, error) {
	switch normalizeEncoding(encodingName) {
	case "", "utf8":
		return r, nil
	case "latin1":
		return charmap.ISO8859_1.NewDecoder().Reader(r), nil
	case "windows1252":
		return charmap.Windows1252.NewDecoder().Reader(r), nil
	case "utf16le":
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder().Reader(r), nil
	case "utf16be":
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder().Reader(r), nil
	default:
		return nil, fmt.Errorf("unsupported encoding: %s", encodingName)
	}
}

// normalizeEncoding folds the accepted aliases onto canonical names.
func normalizeEncoding(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.ReplaceAll(n, "-", "")
	n = strings.ReplaceAll(n, "_", "")
	switch n {
	case "iso88591":
		return "latin1"
	case "cp1252":
		return "windows1252"
	case "utf16":
		return "utf16le"
	}
	return n
}
