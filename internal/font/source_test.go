package font

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	var b Bitmap
	b[0] = true
	b[8] = true
	b[67] = true
	b[bits-1] = true

	encoded := Encode(b)
	// 135 bits pack into 17 bytes
	assert.Len(t, encoded, 24)

	decoded, err := Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, b, decoded)
}

func TestEncodeMSBFirst(t *testing.T) {
	var b Bitmap
	b[0] = true
	b[9] = true

	// bit 0 -> 0x80 of byte 0, bit 9 -> 0x40 of byte 1
	assert.True(t, strings.HasPrefix(Encode(b), "gEA"))
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode("not base64!")
	assert.Error(t, err)

	_, err = Decode("AAAA")
	assert.Error(t, err, "three bytes cannot hold a glyph")
}

func TestParseArtRejectsBadShapes(t *testing.T) {
	_, err := ParseArt([]string{"#"})
	assert.Error(t, err)

	rows := make([]string, Height)
	for i := range rows {
		rows[i] = "........."
	}
	rows[3] = "...x....."
	_, err = ParseArt(rows)
	assert.Error(t, err)

	rows[3] = "...#"
	_, err = ParseArt(rows)
	assert.Error(t, err)
}

func TestLoadTable(t *testing.T) {
	art := "# comment\n\n@0041 A\n" + strings.Repeat("#........\n", Height)

	table, err := LoadTable(art)
	require.NoError(t, err)
	require.Contains(t, table, 'A')

	b, err := Decode(table['A'])
	require.NoError(t, err)
	for y := 0; y < Height; y++ {
		assert.True(t, b.At(0, y))
		assert.False(t, b.At(1, y))
	}
}

func TestLoadTableTruncated(t *testing.T) {
	_, err := LoadTable("@0041 A\n#........\n")
	assert.Error(t, err)
}

func TestLoadTableBadHeader(t *testing.T) {
	_, err := LoadTable("0041 A\n")
	assert.Error(t, err)

	_, err = LoadTable("@zz A\n")
	assert.Error(t, err)
}

func TestDefaultCoversCountdownText(t *testing.T) {
	src := Default()

	for _, r := range "0123456789 :.-'/!?ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz" {
		_, err := src.Lookup(r)
		assert.NoError(t, err, "missing glyph for %q", r)
	}
}

func TestDefaultSpaceIsBlank(t *testing.T) {
	b, err := Default().Lookup(' ')
	require.NoError(t, err)
	assert.Equal(t, Bitmap{}, b)
}

func TestLookupUnknownCharacter(t *testing.T) {
	_, err := Default().Lookup('€')
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownCharacter)
}

func TestLookupIsStable(t *testing.T) {
	src := Default()

	first, err := src.Lookup('8')
	require.NoError(t, err)
	second, err := src.Lookup('8')
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.NotEqual(t, Bitmap{}, first)
}

func TestNewSourceSmallCache(t *testing.T) {
	table, err := LoadTable(glyphArt)
	require.NoError(t, err)

	src, err := NewSource(table, 2)
	require.NoError(t, err)

	for _, r := range "ABCDEF" {
		_, err := src.Lookup(r)
		require.NoError(t, err)
	}
	b, err := src.Lookup('A')
	require.NoError(t, err)
	assert.NotEqual(t, Bitmap{}, b)
}
