package shape

import (
	"bytes"
	"fmt"

	"github.com/go-text/typesetting/font"
	"golang.org/x/image/font/sfnt"

	"github.com/gogpu/textatlas"
)

// Face is a font parsed and ready for shaping.
//
// The raw bytes are parsed once into two forms: the go-text Font the
// HarfBuzz shaper consumes, and an sfnt.Font for metrics queries. Both
// are read-only after parsing, so a Face may be shared freely.
//
// Face.ID returns textatlas.FontID of the source bytes, the same hash
// the raster font store derives, so a font loaded on both sides from
// the same bytes agrees on its identifier.
type Face struct {
	id   uint64
	font *font.Font
	sfnt *sfnt.Font
}

// ParseFace parses TTF/OTF font data.
func ParseFace(data []byte) (*Face, error) {
	gtFace, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("shape: parse font: %w", err)
	}
	sf, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("shape: parse font: %w", err)
	}
	return &Face{
		id:   textatlas.FontID(data),
		font: gtFace.Font,
		sfnt: sf,
	}, nil
}

// ID returns the face identifier (textatlas.FontID of the font data).
func (f *Face) ID() uint64 { return f.id }
