package textatlas

import "image"

// shelfPacker implements shelf-based rectangle packing for one page,
// with a free list fed by eviction.
//
// The algorithm organizes rectangles in horizontal "shelves". Each shelf
// has a fixed height (determined by the tallest item placed so far). New
// items are placed left-to-right on the current shelf until no space
// remains, then a new shelf is started below. Rectangles freed by
// eviction go on the free list and are reused best-fit before any new
// shelf space is consumed; a reused rectangle is consumed whole as the
// new slot's footprint, so area accounting stays exact and nothing is
// ever compacted in place.
type shelfPacker struct {
	width   int
	height  int
	padding int
	shelves []shelf

	// free holds footprints returned by eviction, in release order.
	free []image.Rectangle

	// usedArea is the sum of reserved footprint areas.
	usedArea int
}

// shelf represents a horizontal strip in the page.
type shelf struct {
	y      int // Y position of shelf top
	height int // Height of the shelf (tallest item so far)
	x      int // Current X position (next free slot)
}

func newShelfPacker(width, height, padding int) *shelfPacker {
	return &shelfPacker{
		width:   width,
		height:  height,
		padding: padding,
		shelves: make([]shelf, 0, 16),
	}
}

// allocate finds space for a w x h rectangle. It returns the slot
// rectangle and the reserved footprint containing it. The footprint is
// what release takes back on eviction; for shelf placements the two are
// identical, for free-list reuse the footprint is the whole recycled
// rectangle.
func (p *shelfPacker) allocate(w, h int) (rect, footprint image.Rectangle, ok bool) {
	if w <= 0 || h <= 0 {
		return image.Rectangle{}, image.Rectangle{}, false
	}

	// Best-fit from the free list first: smallest footprint that holds
	// the request, earliest release wins ties. Reusing freed space keeps
	// fragmentation down on long-lived pages.
	best := -1
	bestArea := 0
	for i, fr := range p.free {
		if fr.Dx() < w || fr.Dy() < h {
			continue
		}
		area := fr.Dx() * fr.Dy()
		if best < 0 || area < bestArea {
			best = i
			bestArea = area
		}
	}
	if best >= 0 {
		fr := p.free[best]
		p.free = append(p.free[:best], p.free[best+1:]...)
		p.usedArea += fr.Dx() * fr.Dy()
		rect = image.Rect(fr.Min.X, fr.Min.Y, fr.Min.X+w, fr.Min.Y+h)
		return rect, fr, true
	}

	paddedW := w + p.padding
	paddedH := h + p.padding

	// Try to find an existing shelf with enough space and height.
	for i := range p.shelves {
		s := &p.shelves[i]

		if s.x+paddedW > p.width {
			continue
		}

		if h > s.height {
			// Item is taller than the shelf. The last shelf may grow
			// downward if room remains below it.
			if i == len(p.shelves)-1 {
				newBottom := s.y + paddedH
				if newBottom <= p.height {
					s.height = h
					rect = image.Rect(s.x, s.y, s.x+w, s.y+h)
					s.x += paddedW
					p.usedArea += w * h
					return rect, rect, true
				}
			}
			continue
		}

		rect = image.Rect(s.x, s.y, s.x+w, s.y+h)
		s.x += paddedW
		p.usedArea += w * h
		return rect, rect, true
	}

	// No existing shelf works; open a new one below the last.
	newY := 0
	if len(p.shelves) > 0 {
		last := p.shelves[len(p.shelves)-1]
		newY = last.y + last.height + p.padding
	}

	if newY+paddedH > p.height {
		return image.Rectangle{}, image.Rectangle{}, false
	}

	p.shelves = append(p.shelves, shelf{
		y:      newY,
		height: h,
		x:      paddedW,
	})
	p.usedArea += w * h
	rect = image.Rect(0, newY, w, newY+h)
	return rect, rect, true
}

// release returns a slot footprint to the free list.
func (p *shelfPacker) release(footprint image.Rectangle) {
	p.free = append(p.free, footprint)
	p.usedArea -= footprint.Dx() * footprint.Dy()
}

// canEverFit reports whether a w x h rectangle could fit on an empty
// page of this geometry. Items that fail this check are permanently
// unpackable and eviction cannot help them.
func (p *shelfPacker) canEverFit(w, h int) bool {
	return w > 0 && h > 0 && w+p.padding <= p.width && h+p.padding <= p.height
}

// canFit reports whether a w x h rectangle could be placed right now,
// without allocating.
func (p *shelfPacker) canFit(w, h int) bool {
	if !p.canEverFit(w, h) {
		return false
	}

	for _, fr := range p.free {
		if fr.Dx() >= w && fr.Dy() >= h {
			return true
		}
	}

	paddedW := w + p.padding
	paddedH := h + p.padding

	for i := range p.shelves {
		s := &p.shelves[i]
		if s.x+paddedW > p.width {
			continue
		}
		if h <= s.height {
			return true
		}
		if i == len(p.shelves)-1 && s.y+paddedH <= p.height {
			return true
		}
	}

	newY := 0
	if len(p.shelves) > 0 {
		last := p.shelves[len(p.shelves)-1]
		newY = last.y + last.height + p.padding
	}
	return newY+paddedH <= p.height
}

// utilization returns the fraction of page area reserved (0.0 to 1.0).
func (p *shelfPacker) utilization() float64 {
	total := p.width * p.height
	if total <= 0 {
		return 0
	}
	return float64(p.usedArea) / float64(total)
}

// freeCount returns the number of rectangles waiting for reuse.
func (p *shelfPacker) freeCount() int {
	return len(p.free)
}
