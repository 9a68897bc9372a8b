package font

import (
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// ErrUnknownCharacter is returned when a rune has no glyph.
var ErrUnknownCharacter = errors.New("unknown character")

// DefaultCacheSize bounds the number of decoded glyphs kept in memory.
const DefaultCacheSize = 128

//go:embed glyphs.txt
var glyphArt string

// Source maps runes to bitmaps. Glyphs are held encoded and decoded on
// first use.
type Source struct {
	encoded map[rune]string
	cache   *lru.Cache[rune, Bitmap]
}

// NewSource creates a source over an encoded glyph table.
func NewSource(encoded map[rune]string, cacheSize int) (*Source, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[rune, Bitmap](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create glyph cache: %w", err)
	}
	return &Source{encoded: encoded, cache: cache}, nil
}

var (
	defaultOnce   sync.Once
	defaultSource *Source
)

// Default returns the source built from the embedded glyph table.
// It panics if the embedded table is malformed.
func Default() *Source {
	defaultOnce.Do(func() {
		table, err := LoadTable(glyphArt)
		if err != nil {
			panic(fmt.Sprintf("font: embedded glyph table: %v", err))
		}
		defaultSource, err = NewSource(table, DefaultCacheSize)
		if err != nil {
			panic(fmt.Sprintf("font: %v", err))
		}
	})
	return defaultSource
}

// LoadTable parses glyph art into the encoded table. A glyph starts with a
// line "@XXXX label" naming its hex code point, followed by Height rows.
// Blank lines and lines starting with "#" outside a glyph are ignored.
func LoadTable(art string) (map[rune]string, error) {
	table := make(map[rune]string)
	lines := strings.Split(strings.ReplaceAll(art, "\r\n", "\n"), "\n")

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !strings.HasPrefix(line, "@") {
			return nil, fmt.Errorf("line %d: expected glyph header, got %q", i+1, line)
		}

		code, _, _ := strings.Cut(line[1:], " ")
		cp, err := strconv.ParseUint(code, 16, 32)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad code point %q: %w", i+1, code, err)
		}
		if i+Height >= len(lines) {
			return nil, fmt.Errorf("line %d: glyph %q is truncated", i+1, code)
		}

		rows := make([]string, Height)
		for y := range rows {
			rows[y] = strings.TrimSpace(lines[i+1+y])
		}
		bitmap, err := ParseArt(rows)
		if err != nil {
			return nil, fmt.Errorf("glyph U+%04X: %w", cp, err)
		}
		table[rune(cp)] = Encode(bitmap)
		i += Height
	}
	return table, nil
}

// Lookup returns the bitmap for r, or ErrUnknownCharacter.
func (s *Source) Lookup(r rune) (Bitmap, error) {
	if b, ok := s.cache.Get(r); ok {
		return b, nil
	}
	encoded, ok := s.encoded[r]
	if !ok {
		return Bitmap{}, fmt.Errorf("%w: %q", ErrUnknownCharacter, r)
	}
	b, err := Decode(encoded)
	if err != nil {
		return Bitmap{}, fmt.Errorf("glyph %q: %w", r, err)
	}
	s.cache.Add(r, b)
	return b, nil
}

