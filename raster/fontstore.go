package raster

import (
	"fmt"

	"golang.org/x/image/font/sfnt"

	"github.com/gogpu/textatlas"
)

// FontStore maps font IDs to parsed fonts. IDs are content hashes
// (textatlas.FontID over the raw font bytes), so the raster and shaping
// sides of a pipeline agree on identifiers without coordination.
//
// FontStore is not safe for concurrent use.
type FontStore struct {
	fonts map[uint64]*sfnt.Font
}

// NewFontStore creates an empty font store.
func NewFontStore() *FontStore {
	return &FontStore{fonts: make(map[uint64]*sfnt.Font)}
}

// Add parses data as a TrueType or OpenType font and registers it,
// returning its font ID. Adding the same data twice yields the same ID
// and keeps a single entry.
func (s *FontStore) Add(data []byte) (uint64, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return 0, fmt.Errorf("raster: parse font: %w", err)
	}
	id := textatlas.FontID(data)
	s.fonts[id] = f
	return id, nil
}

// Font returns the parsed font for id.
func (s *FontStore) Font(id uint64) (*sfnt.Font, bool) {
	f, ok := s.fonts[id]
	return f, ok
}

// GlyphIndex returns the glyph index for r in the given font. Runes the
// font does not cover map to glyph 0 (.notdef) without error.
func (s *FontStore) GlyphIndex(id uint64, r rune) (uint32, error) {
	f, ok := s.fonts[id]
	if !ok {
		return 0, fmt.Errorf("raster: font %#x: %w", id, ErrUnknownFont)
	}
	idx, err := f.GlyphIndex(nil, r)
	if err != nil {
		return 0, fmt.Errorf("raster: glyph index for %q: %w", r, err)
	}
	return uint32(idx), nil
}

// Len returns the number of registered fonts.
func (s *FontStore) Len() int { return len(s.fonts) }
