package textatlas

import (
	"errors"
	"fmt"
)

// Sentinel errors for the textatlas package.
var (
	// ErrAtlasCapacity is returned when no eviction can free enough
	// space for a glyph, or the glyph exceeds page capacity outright.
	// Reported per glyph; batch building continues with the glyph
	// omitted.
	ErrAtlasCapacity = errors.New("textatlas: atlas capacity exceeded")

	// ErrGlyphNotRenderable is returned when the rasterizer cannot
	// produce a bitmap for a key. Reported per glyph.
	ErrGlyphNotRenderable = errors.New("textatlas: glyph not renderable")

	// ErrAtlasClosed is returned by operations on a closed atlas.
	ErrAtlasClosed = errors.New("textatlas: atlas is closed")

	// ErrNilRasterizer is returned by New when no rasterizer is given.
	ErrNilRasterizer = errors.New("textatlas: rasterizer is nil")
)

// CapacityError reports a glyph that could not be packed. It unwraps to
// ErrAtlasCapacity.
type CapacityError struct {
	// Key is the glyph that failed to pack.
	Key GlyphKey

	// Width and Height are the requested pixel dimensions.
	Width, Height int

	// Pinned is the number of pinned slots at failure time. When every
	// live slot is pinned, eviction had no candidates.
	Pinned int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("textatlas: atlas capacity exceeded for %dx%d glyph (gid %d, %d pinned slots)",
		e.Width, e.Height, e.Key.GID, e.Pinned)
}

func (e *CapacityError) Unwrap() error { return ErrAtlasCapacity }

// RenderableError reports a glyph the rasterizer rejected. It unwraps to
// both ErrGlyphNotRenderable and the rasterizer's own error.
type RenderableError struct {
	// Key is the glyph that failed to rasterize.
	Key GlyphKey

	// Cause is the rasterizer's error.
	Cause error
}

func (e *RenderableError) Error() string {
	return fmt.Sprintf("textatlas: glyph %d not renderable: %v", e.Key.GID, e.Cause)
}

func (e *RenderableError) Unwrap() []error {
	return []error{ErrGlyphNotRenderable, e.Cause}
}

// ConfigError reports an invalid configuration field.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "textatlas: invalid config." + e.Field + ": " + e.Reason
}
