package shape

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Metrics holds vertical font metrics scaled to a pixel size.
type Metrics struct {
	// Ascent is the distance from the baseline to the top of the font
	// (positive).
	Ascent float64

	// Descent is the distance from the baseline to the bottom of the
	// font (positive, below the baseline).
	Descent float64

	// LineGap is the recommended extra gap between lines.
	LineGap float64
}

// LineHeight returns the recommended baseline-to-baseline distance.
func (m Metrics) LineHeight() float64 {
	return m.Ascent + m.Descent + m.LineGap
}

// Metrics returns the face's vertical metrics at the given pixel size.
// A malformed metrics table yields zero metrics rather than an error;
// shaping output stays usable, just without vertical extents.
func (f *Face) Metrics(size float64) Metrics {
	var buf sfnt.Buffer
	m, err := f.sfnt.Metrics(&buf, fixed.Int26_6(size*64), font.HintingNone)
	if err != nil {
		return Metrics{}
	}
	asc := fixedToFloat(m.Ascent)
	desc := fixedToFloat(m.Descent)
	gap := fixedToFloat(m.Height) - asc - desc
	if gap < 0 {
		gap = 0
	}
	return Metrics{Ascent: asc, Descent: desc, LineGap: gap}
}
