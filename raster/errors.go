package raster

import "errors"

// ErrUnknownFont is returned when a GlyphKey references a font ID that
// was never added to the FontStore.
var ErrUnknownFont = errors.New("raster: unknown font")
