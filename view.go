package textatlas

import "image"

// AtlasView is the read-only surface the upload layer consumes: page
// pixels plus the dirty rectangles accumulated since the last flush.
// The renderer never mutates cache state through it; Flush only clears
// upload bookkeeping, which the renderer owns.
//
// A view shares the atlas's single-threaded contract and becomes
// invalid once the atlas is closed.
type AtlasView struct {
	a *Atlas
}

// View returns the read-only view of the atlas.
func (a *Atlas) View() *AtlasView {
	return &AtlasView{a: a}
}

// Pages returns the number of allocated pages.
func (v *AtlasView) Pages() int {
	return len(v.a.pages)
}

// PageSize returns the page edge length in pixels.
func (v *AtlasView) PageSize() int {
	return v.a.config.PageSize
}

// Pix returns the coverage buffer of a page: PageSize*PageSize bytes,
// one byte per pixel, row-major. Callers must treat it as read-only.
func (v *AtlasView) Pix(page int) []byte {
	return v.a.pages[v.pageAt(page)].pix
}

// Stride returns the byte distance between rows of a page buffer.
func (v *AtlasView) Stride(page int) int {
	return v.a.pages[v.pageAt(page)].size
}

// DirtyRects returns the regions of a page written since its last
// flush. An empty result means the GPU copy of the page is current.
func (v *AtlasView) DirtyRects(page int) []image.Rectangle {
	return v.a.pages[v.pageAt(page)].dirtyRects()
}

// Flush marks a page's dirty regions as uploaded. Call it only after
// the corresponding texture writes have been issued; the atlas never
// overwrites an evicted rectangle's pixels until the allocator hands
// the space out again, so writes sequenced before draws stay coherent.
func (v *AtlasView) Flush(page int) {
	v.a.pages[v.pageAt(page)].flush()
}

// Generation returns the atlas generation counter at call time.
func (v *AtlasView) Generation() uint64 {
	return v.a.generation
}

func (v *AtlasView) pageAt(page int) int {
	if page < 0 || page >= len(v.a.pages) {
		panic("textatlas: page index out of range")
	}
	return page
}
