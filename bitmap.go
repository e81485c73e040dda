package textatlas

// Bitmap is a rasterized glyph image in 8-bit coverage format.
// A zero-size Bitmap is valid and marks a glyph with no visible pixels
// (whitespace, zero-width joiners).
type Bitmap struct {
	// Width and Height are the pixel dimensions.
	Width, Height int

	// Left and Top position the bitmap's top-left corner relative to the
	// glyph origin (the pen position on the baseline, Y growing down).
	// Top is typically negative: glyphs extend above the baseline.
	Left, Top int

	// Pix holds row-major coverage values, Stride bytes per row.
	Pix []byte

	// Stride is the byte distance between vertically adjacent pixels.
	Stride int
}

// Empty reports whether the bitmap has no pixels.
func (b Bitmap) Empty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// Rasterizer turns a GlyphKey into a coverage bitmap. The atlas calls it
// on every cache miss. Implementations that cannot produce a bitmap for
// a key (missing outline, unknown font) return an error; the atlas wraps
// it so callers can match ErrGlyphNotRenderable.
//
// The raster package provides the sfnt-backed implementation; tests use
// deterministic doubles.
type Rasterizer interface {
	Rasterize(key GlyphKey) (Bitmap, error)
}
