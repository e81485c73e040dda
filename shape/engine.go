package shape

import (
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
)

// Engine shapes runs with the HarfBuzz port from go-text/typesetting.
// It supports the full OpenType feature set: ligatures, kerning pairs,
// contextual alternates, right-to-left text, and complex scripts.
//
// Engine is safe for concurrent use. HarfbuzzShaper instances have
// internal mutable state and are pooled via sync.Pool; a lightweight
// font.Face is created per call around the shared read-only font.
type Engine struct {
	pool sync.Pool
}

// NewEngine creates a shaping engine.
func NewEngine() *Engine {
	return &Engine{
		pool: sync.Pool{
			New: func() any {
				return &shaping.HarfbuzzShaper{}
			},
		},
	}
}

// ShapeRun implements Shaper.
//
// The run's ascent and descent come from the face metrics at the input
// size. The width constraint of the enclosing Source is ignored: line
// breaking is delegated to the host.
func (e *Engine) ShapeRun(in RunInput) (Run, error) {
	if in.Face == nil {
		return Run{}, ErrNilFace
	}

	run := Run{
		Direction: in.Direction,
		Font:      in.Face.ID(),
		Size:      in.Size,
		Start:     in.Start,
		End:       in.Start + len(in.Text),
	}
	m := in.Face.Metrics(in.Size)
	run.Ascent = m.Ascent
	run.Descent = m.Descent
	if in.Text == "" {
		return run, nil
	}

	runes := []rune(in.Text)
	dir := mapDirection(in.Direction)

	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: dir,
		// font.Face is not safe for concurrent use; each call wraps
		// the shared read-only *font.Font in a fresh one.
		Face:     font.NewFace(in.Face.font),
		Size:     floatToFixed(in.Size),
		Script:   detectScript(runes),
		Language: language.NewLanguage("en"),
	}

	hb := e.pool.Get().(*shaping.HarfbuzzShaper)
	out := hb.Shape(input)
	e.pool.Put(hb)

	run.Glyphs, run.Advance = convertGlyphs(out.Glyphs, dir, in.Text, runes, in.Start)
	return run, nil
}

// mapDirection converts a Direction to go-text's di.Direction.
func mapDirection(d Direction) di.Direction {
	switch d {
	case DirectionRTL:
		return di.DirectionRTL
	case DirectionTTB:
		return di.DirectionTTB
	case DirectionBTT:
		return di.DirectionBTT
	default:
		return di.DirectionLTR
	}
}

// detectScript inspects the runes and returns the script of the first
// non-space character. Mixed-script runs of equal direction shape under
// the first script; hosts needing exact per-script shaping should split
// runs beforehand.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

// floatToFixed converts a float64 pixel size to 26.6 fixed point.
func floatToFixed(size float64) fixed.Int26_6 {
	return fixed.Int26_6(size * 64)
}

// fixedToFloat converts a 26.6 fixed-point value to float64.
func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64.0
}

// convertGlyphs converts go-text output glyphs to Glyphs, accumulating
// the pen position, and returns the total advance. Cluster indices are
// rebased from rune offsets within the run to byte offsets within the
// source string (runStart + byte offset of the rune).
func convertGlyphs(glyphs []shaping.Glyph, dir di.Direction, text string, runes []rune, runStart int) ([]Glyph, float64) {
	if len(glyphs) == 0 {
		return nil, 0
	}

	byteOffsets := computeByteOffsets(text, runes)
	result := make([]Glyph, len(glyphs))

	var x, y float64
	for i, g := range glyphs {
		xOff := fixedToFloat(g.XOffset)
		yOff := fixedToFloat(g.YOffset)

		cluster := g.TextIndex()
		if cluster < 0 {
			cluster = 0
		}
		if cluster > len(runes) {
			cluster = len(runes)
		}

		result[i] = Glyph{
			GID:     uint32(g.GlyphID),
			Cluster: runStart + byteOffsets[cluster],
			X:       x + xOff,
			Y:       y + yOff,
		}

		adv := fixedToFloat(g.Advance)
		if dir.IsVertical() {
			result[i].YAdvance = adv
			y += adv
		} else {
			result[i].XAdvance = adv
			x += adv
		}
	}

	if dir.IsVertical() {
		return result, y
	}
	return result, x
}
