// Package raster provides the sfnt-backed glyph rasterizer for the
// atlas: it loads glyph outlines with golang.org/x/image/font/sfnt and
// scan-converts them to 8-bit coverage masks with
// golang.org/x/image/vector.
//
// # Usage
//
//	store := raster.NewFontStore()
//	fontID, err := store.Add(fontData)
//	// ...
//	atlas, err := textatlas.New(raster.NewRenderer(store))
//
// The Renderer honors the sub-pixel bucket and synthetic style bits
// carried in each GlyphKey: glyphs rasterize at the bucket's fractional
// offset, synthetic italics shear the outline, and synthetic bold
// widens the coverage mask.
package raster
