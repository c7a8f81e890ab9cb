package dsv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectSample_CommaWithHeader(t *testing.T) {
	sample := []byte("name,age,city\nalice,30,zurich\nbob,25,bern\n")

	sig, err := NewDetector().DetectSample(sample)
	require.NoError(t, err)

	assert.True(t, sig.Scored)
	assert.GreaterOrEqual(t, sig.Confidence, 0.9, "a well-formed comma file with header should score high")
	assert.Equal(t, ',', int32(sig.Delimiter))
	assert.True(t, sig.HasHeader)
	assert.Equal(t, "utf8", sig.Encoding)
}

func TestDetectSample_TabDelimited(t *testing.T) {
	sample := []byte("id\tvalue\n1\tfoo\n2\tbar\n")

	sig, err := NewDetector().DetectSample(sample)
	require.NoError(t, err)

	assert.Equal(t, '\t', int32(sig.Delimiter))
	assert.True(t, sig.HasHeader)
}

func TestDetectSample_NoHeader(t *testing.T) {
	sample := []byte("1,2,3\n4,5,6\n")

	sig, err := NewDetector().DetectSample(sample)
	require.NoError(t, err)

	assert.Equal(t, ',', int32(sig.Delimiter))
	assert.False(t, sig.HasHeader, "an all-numeric first row is not a header")
}

func TestDetectSample_InconsistentColumns(t *testing.T) {
	sample := []byte("a,b\nc,d,e\nf,g\ng,h\n")

	sig, err := NewDetector().DetectSample(sample)
	require.NoError(t, err)

	assert.Equal(t, ',', int32(sig.Delimiter))
	assert.Less(t, sig.Confidence, 0.9, "ragged rows should lower the score")
	assert.Greater(t, sig.Confidence, 0.5)
}

func TestDetectSample_QuotedDelimiters(t *testing.T) {
	sample := []byte("name,quote\nalice,\"hello, world\"\nbob,\"a, b, c\"\n")

	sig, err := NewDetector().DetectSample(sample)
	require.NoError(t, err)

	assert.Equal(t, ',', int32(sig.Delimiter), "delimiters inside quotes must not count")
	assert.GreaterOrEqual(t, sig.Confidence, 0.9)
	assert.Equal(t, '"', int32(sig.Quote))
}

func TestDetectSample_NoDelimiter(t *testing.T) {
	sample := []byte("justoneword\nanotherword\n")

	sig, err := NewDetector().DetectSample(sample)
	require.NoError(t, err)

	assert.Equal(t, int32(0), int32(sig.Delimiter))
	assert.Equal(t, 0.3, sig.Confidence)
	assert.Equal(t, true, sig.Extra["delimiterUnknown"])
}

func TestDetectSample_Empty(t *testing.T) {
	_, err := NewDetector().DetectSample(nil)
	assert.Error(t, err)

	_, err = NewDetector().DetectSample([]byte{})
	assert.Error(t, err)
}

func TestDetectSample_Binary(t *testing.T) {
	sample := []byte{0x00, 0x01, 0x02, 'a', 'b', 0x00, 0xFF}

	_, err := NewDetector().DetectSample(sample)
	assert.Error(t, err)
}

func TestDetectSample_BinaryWithoutNULBytes(t *testing.T) {
	// Dense control characters and high bytes, but no NUL: still binary,
	// not a latin1 text file.
	var sample []byte
	for i := 0; i < 20; i++ {
		sample = append(sample, 0x01, 0x02, 0x8F, 0x9A, 'a', 'b')
	}

	_, err := NewDetector().DetectSample(sample)
	assert.Error(t, err)
}

func TestDetectSample_UTF16LE(t *testing.T) {
	// "a,b\n1,2\n" with a little-endian BOM.
	text := "a,b\n1,2\n"
	sample := []byte{0xFF, 0xFE}
	for _, r := range text {
		sample = append(sample, byte(r), 0x00)
	}

	sig, err := NewDetector().DetectSample(sample)
	require.NoError(t, err)

	assert.Equal(t, "utf16le", sig.Encoding)
	assert.Equal(t, ',', int32(sig.Delimiter))
}

func TestDetectSample_Latin1Fallback(t *testing.T) {
	sample := []byte("caf\xe9,z\xfcrich\nx,y\n")

	sig, err := NewDetector().DetectSample(sample)
	require.NoError(t, err)

	assert.Equal(t, "latin1", sig.Encoding)
	assert.Equal(t, ',', int32(sig.Delimiter))
}

func TestDetectSample_TruncatedLastLineDropped(t *testing.T) {
	// The sample window cut the file mid-line; the fragment must not
	// drag the consistency score down.
	sample := []byte("a,b,c\nd,e,f\ng,h")

	sig, err := NewDetector().DetectSample(sample)
	require.NoError(t, err)

	assert.Equal(t, ',', int32(sig.Delimiter))
	assert.GreaterOrEqual(t, sig.Confidence, 0.9)
}
