package slab

import (
	"github.com/gogpu/textatlas"
	"github.com/gogpu/textatlas/batch"
	"github.com/gogpu/textatlas/shape"
)

// Style is the complete appearance of a text box: the shaping side
// (face, size, direction, features) and the raster side (color,
// synthesis flags).
type Style struct {
	Face      *shape.Face
	Size      float64
	Direction shape.Direction
	Features  uint64
	Color     batch.RGBA
	Flags     textatlas.StyleFlags
}

func (s Style) shaping() shape.Style {
	return shape.Style{Face: s.Face, Size: s.Size, Direction: s.Direction, Features: s.Features}
}

func (s Style) raster() batch.Style {
	return batch.Style{Color: s.Color, Flags: s.Flags}
}

// StyleHandle refers to a style registered with a Manager. The zero
// handle is the default style the Manager was created with.
type StyleHandle struct {
	index   int
	version uint64
}

// DefaultStyle is the handle of the style passed to New.
var DefaultStyle = StyleHandle{}

type styleEntry struct {
	style    Style
	version  uint64
	occupied bool
	next     int
}

// AddStyle registers a style and returns its handle.
func (m *Manager) AddStyle(s Style) StyleHandle {
	if m.freeStyle >= 0 {
		i := m.freeStyle
		e := &m.styles[i]
		m.freeStyle = e.next
		e.style = s
		e.occupied = true
		e.next = -1
		return StyleHandle{index: i, version: e.version}
	}
	m.styles = append(m.styles, styleEntry{style: s, occupied: true, next: -1})
	return StyleHandle{index: len(m.styles) - 1}
}

// Style returns the style behind h. It panics if h refers to a removed
// style.
func (m *Manager) Style(h StyleHandle) Style {
	return m.styleAt(h).style
}

// SetStyle replaces the style behind h. Boxes using it pick up the new
// appearance on the next PrepareAll.
func (m *Manager) SetStyle(h StyleHandle, s Style) {
	m.styleAt(h).style = s
	m.textChanged = true
}

// RemoveStyle unregisters a style and recycles its slot. Boxes still
// referring to it fall back to the default style. The default style
// cannot be removed.
func (m *Manager) RemoveStyle(h StyleHandle) {
	if h.index == 0 {
		panic("slab: cannot remove the default style")
	}
	e := m.styleAt(h)
	e.occupied = false
	e.version++
	e.style = Style{}
	e.next = m.freeStyle
	m.freeStyle = h.index
	m.textChanged = true
}

func (m *Manager) styleAt(h StyleHandle) *styleEntry {
	if h.index < 0 || h.index >= len(m.styles) {
		panic("slab: invalid style handle")
	}
	e := &m.styles[h.index]
	if !e.occupied || e.version != h.version {
		panic("slab: use of removed style")
	}
	return e
}

// styleOrDefault resolves a box's style, falling back to the default
// style when the stored handle went stale.
func (m *Manager) styleOrDefault(h StyleHandle) Style {
	if h.index >= 0 && h.index < len(m.styles) {
		e := &m.styles[h.index]
		if e.occupied && e.version == h.version {
			return e.style
		}
	}
	return m.styles[0].style
}
