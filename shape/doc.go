// Package shape turns source text into positioned glyph runs.
//
// The entry point is ResultCache.Shape: it splits text into
// directionally uniform runs with the Unicode bidirectional algorithm,
// shapes each run through a Shaper (by default Engine, the HarfBuzz
// port from go-text/typesetting), and memoizes whole results keyed on
// content, width constraint, and style fingerprint. Line breaking is
// out of scope; a width constraint only participates in the cache key
// so that engines which do wrap stay correct.
//
// ResultCache is not safe for concurrent use. Engine is, so one Engine
// may back several caches.
package shape
