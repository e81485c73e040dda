package slab

import (
	"fmt"
	"sort"

	"github.com/gogpu/textatlas/batch"
	"github.com/gogpu/textatlas/shape"
)

// BoxHandle refers to a text box owned by a Manager.
type BoxHandle struct {
	index   int
	version uint64
}

type textBox struct {
	text      string
	x, y      float64
	depth     float64
	maxWidth  float64
	style     StyleHandle
	lastFrame uint64
	hidden    bool
	canHide   bool
}

type boxEntry struct {
	box      textBox
	version  uint64
	occupied bool
	next     int
}

// Manager owns a collection of text boxes and batches the visible ones
// for rendering. It is not safe for concurrent use.
type Manager struct {
	config Config

	styles    []styleEntry
	freeStyle int

	entries []boxEntry
	freeBox int
	count   int

	// frame counts AdvanceFrame calls; frameBased turns on with the
	// first call and makes unrefreshed boxes invisible.
	frame      uint64
	frameBased bool

	// textChanged forces a full shape-and-batch pass in PrepareAll.
	textChanged bool

	cached *batch.BatchSet
}

// New returns a Manager whose default style is defaultStyle.
func New(defaultStyle Style, opts ...Option) (*Manager, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return NewWithConfig(defaultStyle, cfg)
}

// NewWithConfig returns a Manager using the given configuration.
func NewWithConfig(defaultStyle Style, cfg Config) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m := &Manager{
		config:    cfg,
		freeStyle: -1,
		freeBox:   -1,
	}
	m.styles = append(m.styles, styleEntry{style: defaultStyle, occupied: true, next: -1})
	return m, nil
}

// Len returns the number of live text boxes.
func (m *Manager) Len() int {
	return m.count
}

// Frame returns the current frame number.
func (m *Manager) Frame() uint64 {
	return m.frame
}

// Add creates a text box with its top-left corner at (x, y) and
// returns its handle. The box is visible until hidden, dropped, or
// aged out.
func (m *Manager) Add(text string, x, y float64, style StyleHandle) BoxHandle {
	m.styleAt(style)
	box := textBox{text: text, x: x, y: y, style: style, lastFrame: m.frame}
	m.textChanged = true
	m.count++
	if m.freeBox >= 0 {
		i := m.freeBox
		e := &m.entries[i]
		m.freeBox = e.next
		e.box = box
		e.occupied = true
		e.next = -1
		return BoxHandle{index: i, version: e.version}
	}
	m.entries = append(m.entries, boxEntry{box: box, occupied: true, next: -1})
	return BoxHandle{index: len(m.entries) - 1}
}

// Remove drops a box immediately and recycles its slot.
func (m *Manager) Remove(h BoxHandle) {
	m.boxAt(h)
	e := &m.entries[h.index]
	e.occupied = false
	e.version++
	e.box = textBox{}
	e.next = m.freeBox
	m.freeBox = h.index
	m.count--
	m.textChanged = true
}

// Text returns the box's text.
func (m *Manager) Text(h BoxHandle) string {
	return m.boxAt(h).text
}

// SetText replaces the box's text.
func (m *Manager) SetText(h BoxHandle, text string) {
	b := m.boxAt(h)
	if b.text == text {
		return
	}
	b.text = text
	m.textChanged = true
}

// Pos returns the box's top-left corner.
func (m *Manager) Pos(h BoxHandle) (x, y float64) {
	b := m.boxAt(h)
	return b.x, b.y
}

// SetPos moves the box's top-left corner.
func (m *Manager) SetPos(h BoxHandle, x, y float64) {
	b := m.boxAt(h)
	if b.x == x && b.y == y {
		return
	}
	b.x, b.y = x, y
	m.textChanged = true
}

// Depth returns the box's draw depth.
func (m *Manager) Depth(h BoxHandle) float64 {
	return m.boxAt(h).depth
}

// SetDepth changes the box's draw depth. Deeper boxes batch first, so
// boxes with smaller depth draw on top.
func (m *Manager) SetDepth(h BoxHandle, depth float64) {
	b := m.boxAt(h)
	if b.depth == depth {
		return
	}
	b.depth = depth
	m.textChanged = true
}

// MaxWidth returns the box's wrap width. 0 means unbounded.
func (m *Manager) MaxWidth(h BoxHandle) float64 {
	return m.boxAt(h).maxWidth
}

// SetMaxWidth changes the box's wrap width.
func (m *Manager) SetMaxWidth(h BoxHandle, w float64) {
	b := m.boxAt(h)
	if b.maxWidth == w {
		return
	}
	b.maxWidth = w
	m.textChanged = true
}

// BoxStyle returns the handle of the box's style.
func (m *Manager) BoxStyle(h BoxHandle) StyleHandle {
	return m.boxAt(h).style
}

// SetBoxStyle assigns a different style to the box.
func (m *Manager) SetBoxStyle(h BoxHandle, style StyleHandle) {
	m.styleAt(style)
	b := m.boxAt(h)
	if b.style == style {
		return
	}
	b.style = style
	m.textChanged = true
}

// Hidden reports whether the box was explicitly hidden.
func (m *Manager) Hidden(h BoxHandle) bool {
	return m.boxAt(h).hidden
}

// SetHidden hides or shows the box regardless of frame tracking.
func (m *Manager) SetHidden(h BoxHandle, hidden bool) {
	b := m.boxAt(h)
	if b.hidden == hidden {
		return
	}
	b.hidden = hidden
	m.textChanged = true
}

// SetCanHide marks the box as allowed to age out quietly. Boxes that
// cannot hide are removed by RemoveOld instead.
func (m *Manager) SetCanHide(h BoxHandle, canHide bool) {
	m.boxAt(h).canHide = canHide
}

// Visible reports whether the box would be batched by PrepareAll.
func (m *Manager) Visible(h BoxHandle) bool {
	return m.visible(m.boxAt(h))
}

func (m *Manager) visible(b *textBox) bool {
	if b.hidden {
		return false
	}
	if m.frameBased && b.lastFrame != m.frame {
		return false
	}
	return true
}

// AdvanceFrame starts a new frame. From the first call on, boxes must
// be refreshed every frame to stay visible.
func (m *Manager) AdvanceFrame() {
	m.frame++
	m.frameBased = true
}

// Refresh marks the box as used in the current frame.
func (m *Manager) Refresh(h BoxHandle) {
	b := m.boxAt(h)
	if m.frameBased && b.lastFrame+1 < m.frame {
		// The box skipped at least one frame and is reappearing.
		m.textChanged = true
	}
	b.lastFrame = m.frame
}

// RemoveOld drops boxes that went unrefreshed for more than MaxBoxAge
// frames and are not allowed to hide. It returns the number of boxes
// removed. Before the first AdvanceFrame it does nothing.
func (m *Manager) RemoveOld() int {
	if !m.frameBased {
		return 0
	}
	removed := 0
	for i := range m.entries {
		e := &m.entries[i]
		if !e.occupied || e.box.canHide {
			continue
		}
		if m.frame-e.box.lastFrame > uint64(m.config.MaxBoxAge) {
			e.occupied = false
			e.version++
			e.box = textBox{}
			e.next = m.freeBox
			m.freeBox = i
			m.count--
			removed++
		}
	}
	return removed
}

// PrepareAll shapes every visible box through res and builds one
// combined batch set with bld, deepest boxes first. The set is cached:
// frames where no box, style, or visibility changed return the cached
// set, rebuilding its instances only when the atlas evicted slots they
// reference.
func (m *Manager) PrepareAll(res *shape.ResultCache, bld *batch.Builder) (*batch.BatchSet, error) {
	if res == nil {
		panic("slab: nil result cache")
	}
	if bld == nil {
		panic("slab: nil builder")
	}

	// A box last refreshed exactly one frame ago just went hidden;
	// the cached set still carries its quads.
	if !m.textChanged && m.frameBased {
		for i := range m.entries {
			e := &m.entries[i]
			if e.occupied && !e.box.hidden && e.box.lastFrame == m.frame-1 {
				m.textChanged = true
				break
			}
		}
	}

	if !m.textChanged && m.cached != nil {
		if len(m.cached.Warnings) > 0 {
			// Skipped glyphs may fit after eviction; try a full build.
		} else if m.cached.Stale(bld.Atlas()) {
			if err := bld.Rebuild(m.cached); err != nil {
				return nil, fmt.Errorf("slab: rebuild: %w", err)
			}
			return m.cached, nil
		} else {
			return m.cached, nil
		}
	}

	set := bld.NewSet()
	for _, i := range m.visibleByDepth() {
		box := &m.entries[i].box
		style := m.styleOrDefault(box.style)
		text, err := res.Shape(shape.Source{
			Text:     box.text,
			MaxWidth: box.maxWidth,
			Style:    style.shaping(),
		})
		if err != nil {
			return nil, fmt.Errorf("slab: box %d: %w", i, err)
		}
		origin := batch.Point{X: box.x, Y: box.y + text.Ascent}
		if err := bld.BuildInto(set, text, origin, style.raster()); err != nil {
			return nil, fmt.Errorf("slab: box %d: %w", i, err)
		}
	}

	m.cached = set
	m.textChanged = false
	return set, nil
}

// visibleByDepth returns the indices of visible boxes, deepest first.
// Equal depths keep insertion order.
func (m *Manager) visibleByDepth() []int {
	idx := make([]int, 0, m.count)
	for i := range m.entries {
		e := &m.entries[i]
		if e.occupied && m.visible(&e.box) {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return m.entries[idx[a]].box.depth > m.entries[idx[b]].box.depth
	})
	return idx
}

func (m *Manager) boxAt(h BoxHandle) *textBox {
	if h.index < 0 || h.index >= len(m.entries) {
		panic("slab: invalid box handle")
	}
	e := &m.entries[h.index]
	if !e.occupied || e.version != h.version {
		panic("slab: use of removed text box")
	}
	return &e.box
}
