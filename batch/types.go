package batch

import (
	"github.com/gogpu/textatlas"
)

// Point is a position in pixels, y growing down.
type Point struct {
	X, Y float64
}

// RGBA is a straight-alpha color with components in [0, 1].
type RGBA struct {
	R, G, B, A float64
}

// Premultiplied returns the color as premultiplied float32 components,
// the form instance buffers carry.
func (c RGBA) Premultiplied() [4]float32 {
	return [4]float32{
		float32(c.R * c.A),
		float32(c.G * c.A),
		float32(c.B * c.A),
		float32(c.A),
	}
}

// Style carries the raster-affecting parts of a text style. Shaping
// parameters (face, size, direction) live on the shape side.
type Style struct {
	// Color is applied to every quad built under this style.
	Color RGBA

	// Flags selects synthetic style bits (bold, italic, hinting),
	// baked into the glyph keys so each variant gets its own slot.
	Flags textatlas.StyleFlags
}

// Instance is one glyph quad: a screen rectangle sampling a slot of
// one atlas page.
type Instance struct {
	// X0, Y0, X1, Y1 is the destination rectangle in pixels.
	X0, Y0, X1, Y1 float32

	// UV is the slot rectangle in normalized page coordinates.
	UV textatlas.UVRect

	// Color is the premultiplied quad color.
	Color [4]float32

	// Key identifies the glyph the quad samples.
	Key textatlas.GlyphKey

	// Serial is the slot assignment the UV was taken from. When the
	// atlas reports a different serial for Key, the instance is stale.
	Serial uint64

	// Pen position after quantization and the glyph's position in the
	// source text, kept so Rebuild can re-place the quad and attribute
	// failures.
	penX, penY int
	run, index int
}

// RenderBatch is the draw unit: every instance samples the same atlas
// page. Batches in a set are non-empty.
type RenderBatch struct {
	// Page is the atlas page index all instances reference.
	Page int

	// Instances in build order.
	Instances []Instance
}

// Warning records one glyph the atlas could not serve. The quad is
// omitted; rendering proceeds without it.
type Warning struct {
	// Run and Index locate the glyph in the source ShapedText.
	Run, Index int

	// Key is the atlas key that failed to resolve.
	Key textatlas.GlyphKey

	// Err is the per-glyph cause (capacity, not renderable, ...).
	Err error
}

// BatchSet is the build result: one batch per atlas page touched, plus
// the warnings collected along the way.
type BatchSet struct {
	// Batches in first-touch page order.
	Batches []RenderBatch

	// Warnings for glyphs that produced no instance.
	Warnings []Warning

	// generation and evictions snapshot the atlas state the set was
	// built (or last rebuilt) against.
	generation uint64
	evictions  uint64
}

// Generation returns the atlas generation the set was built against.
func (s *BatchSet) Generation() uint64 { return s.generation }

// batchFor returns the batch for page, creating it on first touch.
// Page counts are small (MaxPages, typically 4), so a linear scan
// beats map bookkeeping.
func (s *BatchSet) batchFor(page int) *RenderBatch {
	for i := range s.Batches {
		if s.Batches[i].Page == page {
			return &s.Batches[i]
		}
	}
	s.Batches = append(s.Batches, RenderBatch{Page: page})
	return &s.Batches[len(s.Batches)-1]
}

// InstanceCount returns the total number of quads across all batches.
func (s *BatchSet) InstanceCount() int {
	n := 0
	for i := range s.Batches {
		n += len(s.Batches[i].Instances)
	}
	return n
}

// Stale reports whether any instance references an atlas slot that has
// been evicted or reassigned since the set was built.
//
// Fast path: if the atlas eviction counter is unchanged, nothing the
// set references can have moved and no scan happens. Otherwise each
// instance's recorded serial is compared against the atlas, so
// evictions of unrelated glyphs never mark a set stale; a clean scan
// re-baselines the snapshot to keep later calls cheap.
func (s *BatchSet) Stale(a *textatlas.Atlas) bool {
	ev := a.Evictions()
	if ev == s.evictions {
		return false
	}
	for i := range s.Batches {
		b := &s.Batches[i]
		for j := range b.Instances {
			in := &b.Instances[j]
			if !a.SlotValid(in.Key, in.Serial) {
				return true
			}
		}
	}
	s.evictions = ev
	return false
}
