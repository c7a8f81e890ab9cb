package dsv

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"

	"tabstream/internal/engine"
)

// maxSampleLines caps how many complete lines the detector analyzes.
const maxSampleLines = 50

// candidateDelimiters is the order in which delimiters are tried; the
// order also breaks ties between equally consistent candidates.
var candidateDelimiters = []rune{',', '\t', ';', '|'}

// Detector analyzes a bounded sample of a DSV source. It is stateless
// and safe for concurrent use.
type Detector struct{}

// NewDetector returns a DSV detector.
func NewDetector() *Detector {
	return &Detector{}
}

// DetectSample scores sample as delimiter-separated text. The error
// return means the sample cannot be scored at all (empty or binary);
// the adapter converts that into a confidence-0 result.
func (d *Detector) DetectSample(sample []byte) (engine.Signals, error) {
	if len(sample) == 0 {
		return engine.Signals{}, errors.New("empty sample")
	}

	text, detectedEncoding, err := sampleText(sample)
	if err != nil {
		return engine.Signals{}, err
	}

	lines := sampleLines(text)
	if len(lines) == 0 {
		return engine.Signals{}, errors.New("sample contains no text lines")
	}

	sig := engine.Signals{
		Encoding: detectedEncoding,
		Scored:   true,
		Extra: map[string]any{
			"sampleLines": len(lines),
		},
	}

	delim, consistency := bestDelimiter(lines)
	if delim == 0 {
		// No candidate splits the sample; the file may still be a
		// single-column DSV, so this is low confidence, not failure.
		sig.Confidence = 0.3
		sig.Extra["delimiterUnknown"] = true
		return sig, nil
	}

	sig.Delimiter = delim
	sig.Confidence = 0.55 + 0.4*consistency
	if strings.ContainsRune(text, '"') {
		sig.Quote = '"'
	}
	sig.HasHeader = looksLikeHeader(lines[0], delim)
	return sig, nil
}

// sampleText rejects binary content and transcodes UTF-16 samples so
// line analysis always runs over UTF-8 text.
func sampleText(sample []byte) (string, string, error) {
	if len(sample) >= 2 {
		var enc unicode.Endianness
		var name string
		switch {
		case sample[0] == 0xFF && sample[1] == 0xFE:
			enc, name = unicode.LittleEndian, "utf16le"
		case sample[0] == 0xFE && sample[1] == 0xFF:
			enc, name = unicode.BigEndian, "utf16be"
		}
		if name != "" {
			decoded, err := unicode.UTF16(enc, unicode.UseBOM).NewDecoder().Bytes(sample)
			if err != nil {
				return "", "", errors.New("sample has a UTF-16 byte order mark but is not valid UTF-16")
			}
			return string(decoded), name, nil
		}
	}

	if bytes.IndexByte(sample, 0) >= 0 {
		return "", "", errors.New("sample contains binary content")
	}

	// Control bytes mean the same thing in every accepted single-byte
	// encoding, so the density check runs on the raw sample before any
	// encoding decision.
	control := 0
	for _, b := range sample {
		if b < 0x20 && b != '\n' && b != '\r' && b != '\t' {
			control++
		}
	}
	if control*10 > len(sample)*3 {
		return "", "", errors.New("sample contains binary content")
	}

	if !utf8.Valid(sample) {
		// High bytes without valid UTF-8 sequencing: assume a legacy
		// single-byte encoding rather than rejecting the sample.
		return string(sample), "latin1", nil
	}

	return string(sample), "utf8", nil
}

// sampleLines splits text into complete lines. The final fragment is
// dropped when the sample was cut mid-line, unless it is all we have.
func sampleLines(text string) []string {
	raw := strings.Split(text, "\n")
	truncated := !strings.HasSuffix(text, "\n")
	if n := len(raw); raw[n-1] == "" {
		raw = raw[:n-1]
	} else if truncated && n > 1 {
		raw = raw[:n-1]
	}

	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimSuffix(l, "\r")
		if l != "" {
			lines = append(lines, l)
		}
		if len(lines) == maxSampleLines {
			break
		}
	}
	return lines
}

// bestDelimiter picks the candidate whose per-line occurrence count is
// most consistent across the sample. Occurrences inside double quotes
// are ignored. A zero rune return means no candidate appears at all.
func bestDelimiter(lines []string) (rune, float64) {
	var best rune
	bestScore := -1.0
	bestCount := 0

	for _, cand := range candidateDelimiters {
		first := countUnquoted(lines[0], cand)
		if first == 0 {
			continue
		}
		matching := 0
		for _, l := range lines {
			if countUnquoted(l, cand) == first {
				matching++
			}
		}
		consistency := float64(matching) / float64(len(lines))
		if consistency > bestScore || (consistency == bestScore && first > bestCount) {
			best = cand
			bestScore = consistency
			bestCount = first
		}
	}

	if best == 0 {
		return 0, 0
	}
	return best, bestScore
}

// countUnquoted counts occurrences of delim outside double-quoted
// regions.
func countUnquoted(line string, delim rune) int {
	count := 0
	inQuotes := false
	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == delim && !inQuotes:
			count++
		}
	}
	return count
}

// looksLikeHeader applies the classic heuristic: a header row has no
// purely numeric fields.
func looksLikeHeader(line string, delim rune) bool {
	fields := splitLine(line, delim)
	if len(fields) == 0 {
		return false
	}
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if _, err := strconv.ParseFloat(f, 64); err == nil {
			return false
		}
	}
	return true
}

func splitLine(line string, delim rune) []string {
	r := csv.NewReader(strings.NewReader(line))
	r.Comma = delim
	r.LazyQuotes = true
	fields, err := r.Read()
	if err != nil {
		return strings.Split(line, string(delim))
	}
	return fields
}
