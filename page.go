package textatlas

import "image"

// maxDirtyRects bounds the per-page dirty list. Past the limit the
// rectangles collapse into their union so the number of texture writes
// per frame stays bounded.
const maxDirtyRects = 8

// page is one fixed-size packing space: an 8-bit coverage buffer, its
// packer state, and the dirty rectangles written since the last flush.
// Pages are never resized or merged, only added.
type page struct {
	index  int
	size   int
	pix    []byte // size*size bytes, one coverage byte per pixel
	packer *shelfPacker
	dirty  []image.Rectangle
}

func newPage(index, size, padding int) *page {
	return &page{
		index:  index,
		size:   size,
		pix:    make([]byte, size*size),
		packer: newShelfPacker(size, size, padding),
	}
}

// write copies bitmap pixels into rect and accumulates dirty state.
// rect must lie within the page and match the bitmap dimensions.
func (p *page) write(rect image.Rectangle, bm Bitmap) {
	if !rect.In(image.Rect(0, 0, p.size, p.size)) {
		panic("textatlas: write outside page bounds")
	}
	if rect.Dx() != bm.Width || rect.Dy() != bm.Height {
		panic("textatlas: write rect does not match bitmap size")
	}

	for y := 0; y < bm.Height; y++ {
		dstOff := (rect.Min.Y+y)*p.size + rect.Min.X
		srcOff := y * bm.Stride
		copy(p.pix[dstOff:dstOff+bm.Width], bm.Pix[srcOff:srcOff+bm.Width])
	}

	p.addDirty(rect)
}

// addDirty merges r into the dirty list. Overlapping and edge-adjacent
// rectangles fold together; the list never exceeds maxDirtyRects.
func (p *page) addDirty(r image.Rectangle) {
	for i := range p.dirty {
		if p.dirty[i].Inset(-1).Overlaps(r) {
			p.dirty[i] = p.dirty[i].Union(r)
			return
		}
	}

	p.dirty = append(p.dirty, r)
	if len(p.dirty) > maxDirtyRects {
		u := p.dirty[0]
		for _, d := range p.dirty[1:] {
			u = u.Union(d)
		}
		p.dirty = append(p.dirty[:0], u)
	}
}

// dirtyRects returns a copy of the accumulated dirty rectangles.
func (p *page) dirtyRects() []image.Rectangle {
	if len(p.dirty) == 0 {
		return nil
	}
	out := make([]image.Rectangle, len(p.dirty))
	copy(out, p.dirty)
	return out
}

// flush clears the dirty state after an upload.
func (p *page) flush() {
	p.dirty = p.dirty[:0]
}
