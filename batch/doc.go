// Package batch turns shaped text into per-page render batches.
//
// Builder.Build walks the glyphs of a shaped text, quantizes pen
// positions to the atlas's sub-pixel buckets, resolves each glyph to an
// atlas slot, and groups the resulting quads by atlas page: one draw
// batch per page touched. Glyphs the atlas cannot serve (capacity, not
// renderable) are skipped and reported as Warnings; the batch set is
// still usable.
//
// A BatchSet remembers the slot serial of every instance. After atlas
// evictions, Stale detects — per glyph, without over-invalidation —
// whether any referenced slot was reassigned, and Rebuild re-resolves
// exactly the affected instances.
//
// Builder and BatchSet are not safe for concurrent use.
package batch
