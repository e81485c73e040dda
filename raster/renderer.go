package raster

import (
	"fmt"
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/gogpu/textatlas"
)

// italicSkew is the shear factor for synthetic italics, tan(12deg).
const italicSkew = 0.2126

// Renderer rasterizes glyph outlines into coverage bitmaps. It
// implements textatlas.Rasterizer on top of a FontStore.
//
// Renderer reuses internal sfnt and vector state across calls and is
// not safe for concurrent use.
type Renderer struct {
	store *FontStore
	subX  textatlas.SubpixelMode
	subY  textatlas.SubpixelMode

	buf sfnt.Buffer
	vec vector.Rasterizer
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithSubpixel sets the sub-pixel bucket counts the renderer assumes
// when mapping a key's SubX/SubY indices back to fractional offsets.
// They must match the modes the atlas configuration quantizes with.
func WithSubpixel(x, y textatlas.SubpixelMode) Option {
	return func(r *Renderer) {
		r.subX = x
		r.subY = y
	}
}

// NewRenderer creates a renderer over store. The default sub-pixel
// modes match textatlas.DefaultConfig.
func NewRenderer(store *FontStore, opts ...Option) *Renderer {
	r := &Renderer{
		store: store,
		subX:  textatlas.Subpixel4,
		subY:  textatlas.SubpixelNone,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rasterize loads the outline for key and scan-converts it at the
// key's fractional offset. Glyphs with no drawable contours (spaces)
// return an empty bitmap and no error.
func (r *Renderer) Rasterize(key textatlas.GlyphKey) (textatlas.Bitmap, error) {
	fnt, ok := r.store.Font(key.Font)
	if !ok {
		return textatlas.Bitmap{}, fmt.Errorf("raster: font %#x: %w", key.Font, ErrUnknownFont)
	}

	ppem := fixed.Int26_6(key.Size)
	segments, err := fnt.LoadGlyph(&r.buf, sfnt.GlyphIndex(key.GID), ppem, nil)
	if err != nil {
		return textatlas.Bitmap{}, fmt.Errorf("raster: load glyph %d: %w", key.GID, err)
	}
	if !drawable(segments) {
		return textatlas.Bitmap{}, nil
	}

	bounds := segments.Bounds()
	skew := 0.0
	if key.Flags.Italic() {
		skew = italicSkew
		bounds = skewBounds(bounds, skew)
	}
	extra := 0
	if key.Flags.Bold() {
		extra = 1 + int(textatlas.SizeValue(key.Size))/24
		bounds.Max.X += fixed.Int26_6(extra << 6)
	}

	fract := fixed.Point26_6{
		X: fixed.Int26_6(textatlas.SubpixelOffset(key.SubX, r.subX) * 64),
		Y: fixed.Int26_6(textatlas.SubpixelOffset(key.SubY, r.subY) * 64),
	}

	size, norm, origin := maskBounds(bounds, fract)
	if size.X <= 0 || size.Y <= 0 {
		return textatlas.Bitmap{}, nil
	}

	r.vec.Reset(size.X, size.Y)
	r.vec.DrawOp = draw.Src
	r.trace(segments, norm, skew)

	mask := image.NewAlpha(image.Rect(0, 0, size.X, size.Y))
	r.vec.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	if extra > 0 {
		embolden(mask.Pix, mask.Stride, extra)
	}

	return textatlas.Bitmap{
		Width:  size.X,
		Height: size.Y,
		Left:   origin.X,
		Top:    origin.Y,
		Pix:    mask.Pix,
		Stride: mask.Stride,
	}, nil
}

// trace replays the outline into the vector rasterizer. The vector
// rasterizer wants coordinates in the positive quadrant, so every point
// carries the normalization offset; the skew shears against the raw,
// unnormalized y.
func (r *Renderer) trace(segments sfnt.Segments, norm fixed.Point26_6, skew float64) {
	at := func(pt fixed.Point26_6) (float32, float32) {
		x := float64(pt.X+norm.X) / 64
		y := float64(pt.Y+norm.Y) / 64
		if skew != 0 {
			x -= float64(pt.Y) / 64 * skew
		}
		return float32(x), float32(y)
	}

	for _, seg := range segments {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			x, y := at(seg.Args[0])
			r.vec.MoveTo(x, y)
		case sfnt.SegmentOpLineTo:
			x, y := at(seg.Args[0])
			r.vec.LineTo(x, y)
		case sfnt.SegmentOpQuadTo:
			cx, cy := at(seg.Args[0])
			x, y := at(seg.Args[1])
			r.vec.QuadTo(cx, cy, x, y)
		case sfnt.SegmentOpCubeTo:
			c1x, c1y := at(seg.Args[0])
			c2x, c2y := at(seg.Args[1])
			x, y := at(seg.Args[2])
			r.vec.CubeTo(c1x, c1y, c2x, c2y, x, y)
		}
	}
}

// drawable reports whether the outline contains anything beyond bare
// moves. Space glyphs come back as empty or move-only segment lists.
func drawable(segments sfnt.Segments) bool {
	for _, seg := range segments {
		if seg.Op != sfnt.SegmentOpMoveTo {
			return true
		}
	}
	return false
}

// maskBounds derives the integer mask size, the offset that normalizes
// outline points into the positive quadrant, and the mask origin (the
// bearing, in pixels, of the mask's top-left corner from the pen
// position; y grows down, so the top bearing is typically negative).
func maskBounds(bounds fixed.Rectangle26_6, fract fixed.Point26_6) (image.Point, fixed.Point26_6, image.Point) {
	floorMinX := floor26_6(bounds.Min.X)
	floorMinY := floor26_6(bounds.Min.Y)
	origin := image.Pt(int(floorMinX>>6), int(floorMinY>>6))

	norm := fixed.Point26_6{
		X: -floorMinX + fract.X,
		Y: -floorMinY + fract.Y,
	}
	w := (bounds.Max.X + norm.X).Ceil()
	h := (bounds.Max.Y + norm.Y).Ceil()
	return image.Pt(w, h), norm, origin
}

func floor26_6(v fixed.Int26_6) fixed.Int26_6 { return v &^ 63 }

// skewBounds widens bounds to cover the sheared outline. Shearing moves
// each point by -y*skew, so the extremes come from the y extremes,
// rounded away from zero to never undercut the outline.
func skewBounds(b fixed.Rectangle26_6, skew float64) fixed.Rectangle26_6 {
	shiftMin := scaleAwayFromZero(b.Min.Y, skew)
	shiftMax := scaleAwayFromZero(b.Max.Y, skew)
	b.Min.X -= shiftMax
	b.Max.X -= shiftMin
	return b
}

func scaleAwayFromZero(v fixed.Int26_6, f float64) fixed.Int26_6 {
	x := float64(v) * f
	if x >= 0 {
		return fixed.Int26_6(math.Ceil(x))
	}
	return fixed.Int26_6(math.Floor(x))
}

// embolden widens coverage to the right by extra pixels per row,
// keeping the max of the trailing window. Cheap synthetic bold; a real
// bold face is always better.
func embolden(pix []byte, stride, extra int) {
	for row := 0; row+stride <= len(pix); row += stride {
		line := pix[row : row+stride]
		for x := len(line) - 1; x > 0; x-- {
			v := line[x]
			for k := 1; k <= extra && x-k >= 0; k++ {
				if line[x-k] > v {
					v = line[x-k]
				}
			}
			line[x] = v
		}
	}
}
