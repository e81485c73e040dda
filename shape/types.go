package shape

// Direction specifies text direction.
type Direction int

const (
	// DirectionLTR is left-to-right text (English, French, etc.)
	DirectionLTR Direction = iota
	// DirectionRTL is right-to-left text (Arabic, Hebrew)
	DirectionRTL
	// DirectionTTB is top-to-bottom text (traditional Chinese, Japanese)
	DirectionTTB
	// DirectionBTT is bottom-to-top text (rare)
	DirectionBTT
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionLTR:
		return "LTR"
	case DirectionRTL:
		return "RTL"
	case DirectionTTB:
		return "TTB"
	case DirectionBTT:
		return "BTT"
	default:
		return "Unknown"
	}
}

// IsHorizontal reports whether the direction flows along the x axis.
func (d Direction) IsHorizontal() bool {
	return d == DirectionLTR || d == DirectionRTL
}

// IsVertical reports whether the direction flows along the y axis.
func (d Direction) IsVertical() bool {
	return d == DirectionTTB || d == DirectionBTT
}

// Glyph is one positioned glyph within a run. Positions and advances
// are in pixels, relative to the run's pen start, y growing downward.
type Glyph struct {
	// GID is the glyph index within the run's font.
	GID uint32

	// Cluster is the byte index in the source text of the first rune
	// that produced this glyph. Several glyphs may share a cluster
	// (ligature components), and a cluster may span several bytes.
	Cluster int

	// X and Y are the glyph placement including shaping offsets.
	X, Y float64

	// XAdvance and YAdvance are the pen movement after this glyph.
	// Horizontal runs use XAdvance, vertical runs YAdvance.
	XAdvance float64
	YAdvance float64
}

// Run is one directionally uniform stretch of shaped text.
//
// Runs are immutable once produced. The ResultCache shares them by
// reference; callers must not modify the Glyphs slice.
type Run struct {
	// Glyphs in visual order.
	Glyphs []Glyph

	// Advance is the total pen movement of the run, in pixels.
	Advance float64

	// Ascent and Descent are the font's vertical extents at the run
	// size, both as positive distances from the baseline.
	Ascent  float64
	Descent float64

	// Direction the run was shaped in.
	Direction Direction

	// Font identifies the face, as produced by textatlas.FontID.
	Font uint64

	// Size is the pixel size the run was shaped at.
	Size float64

	// Start and End delimit the run's byte range in the source text.
	Start, End int
}

// ShapedText is the complete shaping result for one Source.
//
// Immutable once produced; shared by reference between the ResultCache
// and batch builders.
type ShapedText struct {
	// Runs in logical order.
	Runs []Run

	// Width is the summed advance of all runs.
	Width float64

	// Ascent and Descent are the maxima over all runs, positive.
	Ascent  float64
	Descent float64
}

// Height returns the vertical extent of the text (ascent + descent).
func (t *ShapedText) Height() float64 {
	return t.Ascent + t.Descent
}

// GlyphCount returns the total number of glyphs across all runs.
func (t *ShapedText) GlyphCount() int {
	n := 0
	for i := range t.Runs {
		n += len(t.Runs[i].Glyphs)
	}
	return n
}

// RunInput is one segment handed to a Shaper.
type RunInput struct {
	// Text is the run's slice of the source string.
	Text string

	// Start is the byte offset of Text within the source string.
	// Glyph clusters are reported relative to the source, not the run.
	Start int

	// Face is the font to shape with.
	Face *Face

	// Size is the pixel size to shape at.
	Size float64

	// Direction to shape in.
	Direction Direction
}

// Shaper shapes one directionally uniform run.
//
// Implementations must be deterministic: identical inputs produce
// identical runs, because results are cached by input identity.
type Shaper interface {
	ShapeRun(in RunInput) (Run, error)
}

// Style carries the shaping-relevant parts of a text style. Synthesis
// bits (bold, italic) live on the rasterization side and do not affect
// shaping.
type Style struct {
	// Face is the font to shape with.
	Face *Face

	// Size is the pixel size.
	Size float64

	// Direction is the base paragraph direction for the bidirectional
	// algorithm. DirectionLTR for most text; DirectionRTL for
	// paragraphs that should default to right-to-left.
	Direction Direction

	// Features is an opaque fingerprint of OpenType feature settings.
	// It participates in cache identity so that engines honoring
	// features get distinct cache entries per setting.
	Features uint64
}

// Source is one shaping request: what to shape and under which style.
type Source struct {
	// Text is the source string.
	Text string

	// MaxWidth is the layout width constraint in pixels, 0 for
	// unconstrained. Engine ignores it (line breaking is the host's
	// job) but it participates in cache identity.
	MaxWidth float64

	// Style is the shaping style.
	Style Style
}
