// Package textatlas provides a bounded-memory glyph atlas cache for GPU
// text rendering.
//
// # Overview
//
// Rendering large volumes of styled text on a GPU means rasterizing each
// distinct glyph once, packing the bitmaps into shared texture pages, and
// reusing them across frames and across independently laid-out text
// blocks. textatlas owns that cache: it resolves glyph identities to
// packed rectangles, rasterizes on miss through a pluggable adapter,
// evicts least-recently-used slots under pressure, and tracks dirty
// regions so the renderer uploads only what changed.
//
// # Quick Start
//
//	store := raster.NewFontStore()
//	fontID, _ := store.Add(fontData)
//
//	atlas, err := textatlas.New(raster.NewRenderer(store))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer atlas.Close()
//
//	key := textatlas.GlyphKey{Font: fontID, GID: gid, Size: textatlas.QuantizeSize(16)}
//	loc, err := atlas.Resolve(key)
//	// loc.Page, loc.Rect, loc.UV identify the packed bitmap.
//
//	// Once per frame, after building batches:
//	atlas.EndFrame()
//
// # Architecture
//
// The cache is built from small parts, leaves first:
//
//   - GlyphKey quantizes size and sub-pixel position into a comparable
//     identity; identical keys always share one slot.
//   - Each fixed-size page packs rectangles with a shelf packer and
//     recycles freed rectangles from evictions; pages are added up to a
//     limit, never resized or compacted.
//   - Recency is a per-slot generation stamp, not a linked list. Victim
//     selection scans slots in (generation, insertion) order and frees
//     enough area in one atomic pass.
//   - AtlasView is the read-only snapshot the upload layer consumes:
//     page pixels plus accumulated dirty rectangles.
//
// Companion packages complete the pipeline: raster (sfnt outline
// rasterization), shape (HarfBuzz shaping, bidi segmentation, layout
// result cache), batch (per-page instance buffers with staleness
// tracking), slab (frame-driven text box management), wgpu (dirty-rect
// texture upload), and preview (debug page overlays).
//
// # Concurrency
//
// The cache performs no internal locking. All mutation happens
// synchronously on the thread that builds render batches for a frame; a
// host wanting parallel batch building must serialize access to the
// shared Atlas. The one exception is SetLogger/Logger, which is safe
// everywhere. GPU upload is the only asynchronous boundary and consumes
// read-only views.
//
// # Errors
//
// Per-glyph failures are recoverable and non-fatal: a glyph that cannot
// be packed reports ErrAtlasCapacity, one that cannot be rasterized
// reports ErrGlyphNotRenderable, and batch building continues with the
// glyph omitted. Invariant violations panic; they are programming errors.
package textatlas
