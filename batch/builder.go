package batch

import (
	"errors"

	"github.com/gogpu/textatlas"
	"github.com/gogpu/textatlas/shape"
)

// Builder resolves shaped text against one atlas. The atlas's
// sub-pixel configuration decides how pen positions quantize into
// glyph keys, so one builder serves exactly one atlas.
type Builder struct {
	atlas *textatlas.Atlas
	subX  textatlas.SubpixelMode
	subY  textatlas.SubpixelMode
}

// NewBuilder creates a builder over atlas.
func NewBuilder(atlas *textatlas.Atlas) (*Builder, error) {
	if atlas == nil {
		return nil, ErrNilAtlas
	}
	cfg := atlas.Config()
	return &Builder{
		atlas: atlas,
		subX:  cfg.SubpixelX,
		subY:  cfg.SubpixelY,
	}, nil
}

// Atlas returns the atlas the builder resolves against.
func (b *Builder) Atlas() *textatlas.Atlas { return b.atlas }

// NewSet returns an empty set ready for BuildInto. The eviction
// snapshot is taken now, before any resolving: inserts during the
// build may themselves evict, and the first Stale call after a build
// under pressure must scan rather than trust the fast path.
func (b *Builder) NewSet() *BatchSet {
	return &BatchSet{
		generation: b.atlas.Generation(),
		evictions:  b.atlas.Evictions(),
	}
}

// Build resolves every glyph of text and groups the resulting quads by
// atlas page. origin is the baseline pen start of the first run; runs
// are placed in logical order, each advancing the pen by its advance.
//
// Per-glyph failures (capacity, not renderable) skip the glyph and
// record a Warning; only a closed atlas aborts the build. A nil or
// empty text yields an empty, valid set.
func (b *Builder) Build(text *shape.ShapedText, origin Point, style Style) (*BatchSet, error) {
	set := b.NewSet()
	if err := b.BuildInto(set, text, origin, style); err != nil {
		return nil, err
	}
	return set, nil
}

// BuildInto appends text's quads to an existing set, merging into the
// set's per-page batches. Hosts drawing several texts in one pass
// accumulate them this way and draw the combined set. Warnings keep
// Run and Index relative to the text that produced them.
func (b *Builder) BuildInto(set *BatchSet, text *shape.ShapedText, origin Point, style Style) error {
	if text == nil {
		set.generation = b.atlas.Generation()
		return nil
	}

	color := style.Color.Premultiplied()

	var runOffset float64
	for ri := range text.Runs {
		run := &text.Runs[ri]
		size := textatlas.QuantizeSize(run.Size)

		for gi := range run.Glyphs {
			g := &run.Glyphs[gi]

			var penX, penY float64
			if run.Direction.IsVertical() {
				penX = origin.X + g.X
				penY = origin.Y + runOffset + g.Y
			} else {
				penX = origin.X + runOffset + g.X
				penY = origin.Y + g.Y
			}

			intX, subX := textatlas.Quantize(penX, b.subX)
			intY, subY := textatlas.Quantize(penY, b.subY)

			key := textatlas.GlyphKey{
				Font:  run.Font,
				GID:   g.GID,
				Size:  size,
				SubX:  subX,
				SubY:  subY,
				Flags: style.Flags,
			}

			loc, err := b.atlas.Resolve(key)
			if err != nil {
				if errors.Is(err, textatlas.ErrAtlasClosed) {
					return err
				}
				set.Warnings = append(set.Warnings, Warning{Run: ri, Index: gi, Key: key, Err: err})
				continue
			}
			if loc.Empty() {
				// Whitespace advances the pen but draws nothing.
				continue
			}

			dst := set.batchFor(loc.Page)
			dst.Instances = append(dst.Instances, makeInstance(intX, intY, loc, color, key, ri, gi))
		}

		runOffset += run.Advance
	}

	set.generation = b.atlas.Generation()
	return nil
}

// Rebuild re-resolves exactly the instances whose slots were evicted
// or reassigned, leaving fresh instances untouched, then regroups
// batches by page (a re-resolved glyph may land elsewhere). Glyphs
// that now fail to resolve are dropped with a Warning.
func (b *Builder) Rebuild(set *BatchSet) error {
	evictions := b.atlas.Evictions()

	regrouped := BatchSet{}
	for i := range set.Batches {
		src := &set.Batches[i]
		for j := range src.Instances {
			in := src.Instances[j]
			page := src.Page

			if !b.atlas.SlotValid(in.Key, in.Serial) {
				loc, err := b.atlas.Resolve(in.Key)
				if err != nil {
					if errors.Is(err, textatlas.ErrAtlasClosed) {
						return err
					}
					set.Warnings = append(set.Warnings, Warning{Run: in.run, Index: in.index, Key: in.Key, Err: err})
					continue
				}
				if loc.Empty() {
					continue
				}
				in = makeInstance(in.penX, in.penY, loc, in.Color, in.Key, in.run, in.index)
				page = loc.Page
			}

			dst := regrouped.batchFor(page)
			dst.Instances = append(dst.Instances, in)
		}
	}

	set.Batches = regrouped.Batches
	set.evictions = evictions
	set.generation = b.atlas.Generation()
	return nil
}

// makeInstance places a quad: the destination rectangle is the
// quantized pen position displaced by the bitmap bearing, at the
// bitmap's size.
func makeInstance(penX, penY int, loc textatlas.Location, color [4]float32, key textatlas.GlyphKey, run, index int) Instance {
	x0 := float32(penX + loc.Left)
	y0 := float32(penY + loc.Top)
	return Instance{
		X0:     x0,
		Y0:     y0,
		X1:     x0 + float32(loc.Rect.Dx()),
		Y1:     y0 + float32(loc.Rect.Dy()),
		UV:     loc.UV,
		Color:  color,
		Key:    key,
		Serial: loc.Serial,
		penX:   penX,
		penY:   penY,
		run:    run,
		index:  index,
	}
}
