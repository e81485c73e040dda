// Package slab keeps a retained collection of positioned text boxes
// and turns the visible ones into render batches.
//
// Boxes and styles live in slab arenas addressed by handles; removing
// an entry recycles its slot, and handles are versioned so use after
// removal panics instead of reading a recycled slot.
//
// Visibility can be driven declaratively: AdvanceFrame marks every box
// outdated, Refresh keeps the ones that should stay visible, and
// RemoveOld eventually drops boxes nobody refreshes. The per-frame
// flow is
//
//	m.AdvanceFrame()
//	m.Refresh(handle) // for each box still on screen
//	m.RemoveOld()
//	set, err := m.PrepareAll(results, builder)
//
// PrepareAll shapes visible boxes through a shape.ResultCache, builds
// one combined batch.BatchSet, and caches it: frames where nothing
// changed return the cached set, re-resolving against the atlas only
// when slots were evicted.
//
// Manager is not safe for concurrent use.
package slab
