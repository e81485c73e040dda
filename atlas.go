package textatlas

import (
	"image"
	"sort"
)

// UVRect holds normalized texture coordinates for a packed glyph.
type UVRect struct {
	U0, V0, U1, V1 float32
}

// Location is the value snapshot a Resolve call hands back: where in
// the atlas a glyph's bitmap lives. Locations are plain values; they
// stay meaningful until the slot they point at is evicted, which a
// consumer detects by comparing Serial (see Atlas.SlotValid).
type Location struct {
	// Page is the page index, or -1 for an empty glyph that consumed
	// no atlas space.
	Page int

	// Rect is the pixel rectangle within the page.
	Rect image.Rectangle

	// UV is Rect in normalized texture coordinates.
	UV UVRect

	// Left and Top are the bitmap bearing relative to the pen origin,
	// carried from the rasterized bitmap so batch builders can place
	// quads without a second rasterizer round trip.
	Left, Top int

	// Serial identifies this slot assignment. A freed rectangle reused
	// for another key gets a new serial, so equal serials mean the
	// location still points at the same glyph's pixels.
	Serial uint64
}

// Empty reports whether the location refers to a glyph with no pixels.
func (l Location) Empty() bool { return l.Page < 0 }

// slot is one arena entry: a packed rectangle owned by exactly one
// glyph key. Slots escape only by value-copy into Location.
type slot struct {
	key       GlyphKey
	page      int
	rect      image.Rectangle
	footprint image.Rectangle
	left, top int
	lastUsed  uint64 // generation at last touch
	serial    uint64
	seq       uint64 // insertion sequence, the deterministic tie-break
	pinned    bool
	live      bool
}

// Atlas is the glyph atlas cache: the single owner of all pages, slots
// and the generation counter. It resolves glyph keys to packed
// rectangles, rasterizing and evicting as needed.
//
// Atlas is not safe for concurrent use. All mutation happens
// synchronously on the thread building render batches for a frame; a
// host wanting parallel batch building must serialize access.
type Atlas struct {
	config Config
	rast   Rasterizer

	pages     []*page
	slots     []slot
	freeSlots []int
	lookup    map[GlyphKey]int

	// generation is the logical clock: bumped once per eviction pass
	// and once per EndFrame, never per glyph.
	generation uint64
	nextSerial uint64
	nextSeq    uint64
	closed     bool

	// Plain counters; the atlas is single-threaded by contract, so
	// Stats snapshots need no atomics.
	hits             uint64
	misses           uint64
	evicted          uint64
	evictionPasses   uint64
	rasterFailures   uint64
	capacityFailures uint64
}

// New creates an atlas with default configuration, modified by opts.
// The rasterizer is required; it is invoked on every cache miss.
func New(rast Rasterizer, opts ...Option) (*Atlas, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return NewWithConfig(rast, config)
}

// NewWithConfig creates an atlas with an explicit configuration.
func NewWithConfig(rast Rasterizer, config Config) (*Atlas, error) {
	if rast == nil {
		return nil, ErrNilRasterizer
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Atlas{
		config: config,
		rast:   rast,
		pages:  make([]*page, 0, config.MaxPages),
		lookup: make(map[GlyphKey]int),
	}, nil
}

// Resolve looks up or inserts the glyph for key.
//
// On a hit the slot's recency is bumped to the current generation and
// the cached location returned. On a miss the rasterizer runs and the
// bitmap is packed, evicting least-recently-used slots if no page has
// room. Failures are per-glyph and non-fatal: ErrGlyphNotRenderable
// when the rasterizer rejects the key, ErrAtlasCapacity when no
// eviction can free enough space (all slots pinned, or the glyph is
// larger than a page).
func (a *Atlas) Resolve(key GlyphKey) (Location, error) {
	if a.closed {
		return Location{}, ErrAtlasClosed
	}

	if idx, ok := a.lookup[key]; ok {
		s := &a.slots[idx]
		s.lastUsed = a.generation
		a.hits++
		return a.location(s), nil
	}
	a.misses++

	bm, err := a.rast.Rasterize(key)
	if err != nil {
		a.rasterFailures++
		return Location{}, &RenderableError{Key: key, Cause: err}
	}
	if bm.Empty() {
		// Whitespace and other invisible glyphs resolve successfully
		// without consuming atlas space.
		return Location{Page: -1}, nil
	}

	return a.insert(key, bm)
}

// ResolveAll resolves a batch of keys. The returned errors slice is nil
// when every key succeeded; otherwise it parallels keys with nil
// entries for successes.
func (a *Atlas) ResolveAll(keys []GlyphKey) ([]Location, []error) {
	locs := make([]Location, len(keys))
	var errs []error
	for i, key := range keys {
		loc, err := a.Resolve(key)
		locs[i] = loc
		if err != nil {
			if errs == nil {
				errs = make([]error, len(keys))
			}
			errs[i] = err
		}
	}
	return locs, errs
}

// insert packs a rasterized bitmap, evicting until it lands or no
// further victims exist.
func (a *Atlas) insert(key GlyphKey, bm Bitmap) (Location, error) {
	w, h := bm.Width, bm.Height

	if w+a.config.Padding > a.config.PageSize || h+a.config.Padding > a.config.PageSize {
		// Larger than any page: permanently unpackable, eviction
		// cannot help.
		a.capacityFailures++
		Logger().Warn("textatlas: glyph exceeds page capacity",
			"gid", key.GID, "width", w, "height", h, "page_size", a.config.PageSize)
		return Location{}, &CapacityError{Key: key, Width: w, Height: h, Pinned: a.pinnedCount()}
	}

	for {
		if loc, ok := a.tryPlace(key, bm); ok {
			return loc, nil
		}
		// Freed area may be non-contiguous, so a successful pass does
		// not guarantee the retry lands; each pass evicts at least one
		// slot, so the loop terminates.
		if !a.evictFor(w * h) {
			a.capacityFailures++
			Logger().Warn("textatlas: atlas capacity exceeded",
				"gid", key.GID, "width", w, "height", h, "pinned", a.pinnedCount())
			return Location{}, &CapacityError{Key: key, Width: w, Height: h, Pinned: a.pinnedCount()}
		}
	}
}

// tryPlace attempts allocation on every existing page, then on a fresh
// page if the limit allows.
func (a *Atlas) tryPlace(key GlyphKey, bm Bitmap) (Location, bool) {
	for _, pg := range a.pages {
		if rect, fp, ok := pg.packer.allocate(bm.Width, bm.Height); ok {
			return a.commit(key, pg, rect, fp, bm), true
		}
	}

	if len(a.pages) < a.config.MaxPages {
		pg := newPage(len(a.pages), a.config.PageSize, a.config.Padding)
		a.pages = append(a.pages, pg)
		Logger().Debug("textatlas: created page", "index", pg.index, "size", pg.size)
		if rect, fp, ok := pg.packer.allocate(bm.Width, bm.Height); ok {
			return a.commit(key, pg, rect, fp, bm), true
		}
	}

	return Location{}, false
}

// commit writes pixels, registers the slot and returns its location.
func (a *Atlas) commit(key GlyphKey, pg *page, rect, footprint image.Rectangle, bm Bitmap) Location {
	if _, dup := a.lookup[key]; dup {
		panic("textatlas: duplicate slot for glyph key")
	}

	pg.write(rect, bm)

	idx := a.allocSlot()
	a.nextSerial++
	a.nextSeq++
	a.slots[idx] = slot{
		key:       key,
		page:      pg.index,
		rect:      rect,
		footprint: footprint,
		left:      bm.Left,
		top:       bm.Top,
		lastUsed:  a.generation,
		serial:    a.nextSerial,
		seq:       a.nextSeq,
		live:      true,
	}
	a.lookup[key] = idx

	return a.location(&a.slots[idx])
}

// allocSlot returns a free arena index, growing the arena if needed.
func (a *Atlas) allocSlot() int {
	if n := len(a.freeSlots); n > 0 {
		idx := a.freeSlots[n-1]
		a.freeSlots = a.freeSlots[:n-1]
		return idx
	}
	a.slots = append(a.slots, slot{})
	return len(a.slots) - 1
}

// evictFor selects victims in (lastUsed, seq) order until their
// accumulated footprint area reaches minArea, then evicts them all and
// bumps the generation once. Pinned slots are never selected. If the
// area cannot be reached the pass evicts nothing and reports false.
func (a *Atlas) evictFor(minArea int) bool {
	cands := make([]int, 0, len(a.slots))
	for i := range a.slots {
		s := &a.slots[i]
		if !s.live || s.pinned {
			continue
		}
		if a.config.PinPolicy != nil && a.config.PinPolicy(s.key) {
			continue
		}
		cands = append(cands, i)
	}

	sort.Slice(cands, func(x, y int) bool {
		sx, sy := &a.slots[cands[x]], &a.slots[cands[y]]
		if sx.lastUsed != sy.lastUsed {
			return sx.lastUsed < sy.lastUsed
		}
		return sx.seq < sy.seq
	})

	freed := 0
	n := 0
	for _, i := range cands {
		if freed >= minArea {
			break
		}
		fp := a.slots[i].footprint
		freed += fp.Dx() * fp.Dy()
		n++
	}
	if freed < minArea {
		return false
	}

	for _, i := range cands[:n] {
		a.evictSlot(i)
	}
	a.generation++
	a.evictionPasses++
	Logger().Debug("textatlas: eviction pass",
		"victims", n, "freed_area", freed, "generation", a.generation)
	return true
}

// evictSlot removes one slot: the key mapping disappears, the footprint
// returns to its page's free list, and the arena entry is recycled. The
// pixels are not touched; they are only overwritten once the allocator
// hands the rectangle out again.
func (a *Atlas) evictSlot(i int) {
	s := &a.slots[i]
	delete(a.lookup, s.key)
	a.pages[s.page].packer.release(s.footprint)
	s.live = false
	s.pinned = false
	a.freeSlots = append(a.freeSlots, i)
	a.evicted++
}

func (a *Atlas) location(s *slot) Location {
	ps := float32(a.config.PageSize)
	return Location{
		Page: s.page,
		Rect: s.rect,
		UV: UVRect{
			U0: float32(s.rect.Min.X) / ps,
			V0: float32(s.rect.Min.Y) / ps,
			U1: float32(s.rect.Max.X) / ps,
			V1: float32(s.rect.Max.Y) / ps,
		},
		Left:   s.left,
		Top:    s.top,
		Serial: s.serial,
	}
}

// Pin marks the slot for key as non-evictable. Returns false if the key
// is not resident. Pinning is advisory metadata: it steers victim
// selection and nothing else.
func (a *Atlas) Pin(key GlyphKey) bool {
	idx, ok := a.lookup[key]
	if !ok {
		return false
	}
	a.slots[idx].pinned = true
	return true
}

// Unpin clears the pin on key's slot. Returns false if the key is not
// resident.
func (a *Atlas) Unpin(key GlyphKey) bool {
	idx, ok := a.lookup[key]
	if !ok {
		return false
	}
	a.slots[idx].pinned = false
	return true
}

// UnpinAll clears every explicit pin.
func (a *Atlas) UnpinAll() {
	for i := range a.slots {
		if a.slots[i].live {
			a.slots[i].pinned = false
		}
	}
}

// EndFrame advances the generation counter, closing the current
// cache-maintenance window. Call it once per frame after batches are
// built; recency then distinguishes this frame's glyphs from the next's.
func (a *Atlas) EndFrame() {
	if a.closed {
		return
	}
	a.generation++
}

// Generation returns the current generation counter.
func (a *Atlas) Generation() uint64 { return a.generation }

// Len returns the number of live slots.
func (a *Atlas) Len() int { return len(a.lookup) }

// Pages returns the number of allocated pages.
func (a *Atlas) Pages() int { return len(a.pages) }

// Evictions returns the total number of slots evicted since creation.
// Batch consumers use it as a fast-path staleness check: if the count
// is unchanged since a batch was built, no slot the batch references
// can have been reassigned.
func (a *Atlas) Evictions() uint64 { return a.evicted }

// SlotValid reports whether key is resident with the given serial, i.e.
// whether a Location captured earlier still points at the same pixels.
func (a *Atlas) SlotValid(key GlyphKey, serial uint64) bool {
	idx, ok := a.lookup[key]
	if !ok {
		return false
	}
	return a.slots[idx].serial == serial
}

// Config returns a copy of the atlas configuration.
func (a *Atlas) Config() Config { return a.config }

// Close releases the page buffers. Resolve on a closed atlas returns
// ErrAtlasClosed. Close is idempotent.
func (a *Atlas) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	a.pages = nil
	a.slots = nil
	a.freeSlots = nil
	a.lookup = nil
	return nil
}

func (a *Atlas) pinnedCount() int {
	n := 0
	for i := range a.slots {
		if a.slots[i].live && a.slots[i].pinned {
			n++
		}
	}
	return n
}

// Stats is a point-in-time snapshot of cache counters.
type Stats struct {
	// Hits and Misses count Resolve outcomes.
	Hits   uint64
	Misses uint64

	// Evictions is the number of slots evicted; EvictionPasses the
	// number of eviction passes that evicted them.
	Evictions      uint64
	EvictionPasses uint64

	// RasterFailures counts glyphs the rasterizer rejected.
	RasterFailures uint64

	// CapacityFailures counts glyphs that could not be packed.
	CapacityFailures uint64

	// Live is the number of resident slots, Pinned how many of them
	// are pinned.
	Live   int
	Pinned int

	// Pages is the number of allocated pages.
	Pages int

	// Generation is the current logical clock value.
	Generation uint64

	// Utilization is the reserved fraction of all allocated page area,
	// 0.0 to 1.0.
	Utilization float64
}

// Stats returns a snapshot of cache statistics.
func (a *Atlas) Stats() Stats {
	used := 0
	for _, pg := range a.pages {
		used += pg.packer.usedArea
	}
	total := len(a.pages) * a.config.PageSize * a.config.PageSize
	util := 0.0
	if total > 0 {
		util = float64(used) / float64(total)
	}
	return Stats{
		Hits:             a.hits,
		Misses:           a.misses,
		Evictions:        a.evicted,
		EvictionPasses:   a.evictionPasses,
		RasterFailures:   a.rasterFailures,
		CapacityFailures: a.capacityFailures,
		Live:             len(a.lookup),
		Pinned:           a.pinnedCount(),
		Pages:            len(a.pages),
		Generation:       a.generation,
		Utilization:      util,
	}
}
