package textatlas

import "hash/fnv"

// GlyphKey is the identity of one cacheable glyph bitmap. Two requests
// with identical keys resolve to the same atlas slot.
//
// GlyphKey is comparable and usable as a map key. All fields are
// quantized so that float jitter in the caller never splits identities.
type GlyphKey struct {
	// Font identifies the font, as produced by FontID.
	Font uint64

	// GID is the glyph index within the font.
	GID uint32

	// Size is the quantized size in 26.6 fixed point (see QuantizeSize).
	Size uint16

	// SubX and SubY are quantized sub-pixel offset buckets (see Quantize).
	SubX uint8
	SubY uint8

	// Flags carries style synthesis and hinting bits.
	Flags StyleFlags
}

// StyleFlags carries per-key style bits that change the rasterized image.
type StyleFlags uint8

const (
	// FlagSyntheticBold thickens strokes during rasterization.
	FlagSyntheticBold StyleFlags = 1 << iota

	// FlagSyntheticItalic applies a shear during rasterization.
	FlagSyntheticItalic

	// FlagHinted enables grid-fitting in the rasterizer.
	FlagHinted
)

// Bold reports whether synthetic bold is set.
func (f StyleFlags) Bold() bool { return f&FlagSyntheticBold != 0 }

// Italic reports whether synthetic italic is set.
func (f StyleFlags) Italic() bool { return f&FlagSyntheticItalic != 0 }

// Hinted reports whether hinting is requested.
func (f StyleFlags) Hinted() bool { return f&FlagHinted != 0 }

// FontID computes the identifier for raw font data (TTF/OTF bytes).
// Both the raster font store and the shaping face registry derive their
// identifiers from this hash, so a font loaded on each side from the
// same bytes gets the same ID.
func FontID(data []byte) uint64 {
	h := fnv.New64a()
	_, _ = h.Write(data) // fnv.Write never returns an error
	return h.Sum64()
}

// QuantizeSize converts a size in pixels to the 26.6 fixed-point value
// stored in GlyphKey.Size. Sizes are clamped to [0, 1023.98]; the bit
// pattern is directly usable as a fixed.Int26_6 ppem value.
func QuantizeSize(size float64) uint16 {
	if size < 0 {
		size = 0
	}
	const maxSize = 0xFFFF
	q := int(size*64 + 0.5)
	if q > maxSize {
		q = maxSize
	}
	return uint16(q)
}

// SizeValue converts a quantized GlyphKey.Size back to pixels.
func SizeValue(q uint16) float64 {
	return float64(q) / 64
}

// SubpixelMode is the number of sub-pixel position buckets per axis.
// More buckets improve positioning quality at small sizes but multiply
// the number of distinct cache entries per glyph.
type SubpixelMode int

const (
	// SubpixelNone disables sub-pixel positioning; glyphs snap to whole
	// pixels. One cache entry per glyph.
	SubpixelNone SubpixelMode = 0

	// Subpixel2 uses 2 positions (0.0, 0.5).
	Subpixel2 SubpixelMode = 2

	// Subpixel4 uses 4 positions (0.0, 0.25, 0.5, 0.75).
	// Good balance of quality and cache size.
	Subpixel4 SubpixelMode = 4
)

// String returns the string representation of the subpixel mode.
func (m SubpixelMode) String() string {
	switch m {
	case SubpixelNone:
		return "SubpixelNone"
	case Subpixel2:
		return "Subpixel2"
	case Subpixel4:
		return "Subpixel4"
	default:
		return "SubpixelUnknown"
	}
}

// IsEnabled reports whether sub-pixel positioning is enabled.
func (m SubpixelMode) IsEnabled() bool {
	return m > 0
}

// Divisions returns the number of sub-pixel divisions.
// Returns 1 for SubpixelNone.
func (m SubpixelMode) Divisions() int {
	if m <= 0 {
		return 1
	}
	return int(m)
}

// Quantize converts a fractional position to an integer position and a
// sub-pixel bucket.
//
// For example, with Subpixel4:
//   - pos=10.0 returns (10, 0)
//   - pos=10.25 returns (10, 1)
//   - pos=10.5 returns (10, 2)
//   - pos=10.99 returns (10, 3)
func Quantize(pos float64, mode SubpixelMode) (intPos int, subPos uint8) {
	if !mode.IsEnabled() {
		// Round to nearest whole pixel.
		if pos < 0 {
			return int(pos - 0.5), 0
		}
		return int(pos + 0.5), 0
	}

	// Floor (integer part <= pos, correct for negatives).
	intPart := int(pos)
	if pos < 0 && pos != float64(intPart) {
		intPart--
	}

	frac := pos - float64(intPart)

	divisions := mode.Divisions()
	subPosInt := int(frac * float64(divisions))

	// Clamp to [0, divisions-1].
	if subPosInt >= divisions {
		subPosInt = divisions - 1
	}
	if subPosInt < 0 {
		subPosInt = 0
	}

	return intPart, uint8(subPosInt)
}

// SubpixelOffset returns the fractional rendering offset for a bucket.
// For Subpixel4: 0 -> 0.0, 1 -> 0.25, 2 -> 0.5, 3 -> 0.75.
func SubpixelOffset(subPos uint8, mode SubpixelMode) float64 {
	if !mode.IsEnabled() {
		return 0
	}
	return float64(subPos) / float64(mode.Divisions())
}
