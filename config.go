package textatlas

// Config holds atlas configuration.
type Config struct {
	// PageSize is the texture page edge length in pixels
	// (width = height). Must be a power of 2. Default: 1024
	PageSize int

	// MaxPages limits the number of texture pages.
	// Default: 4
	MaxPages int

	// Padding is the gap in pixels reserved around each packed glyph to
	// prevent sampler bleeding. Default: 1
	Padding int

	// SubpixelX is the horizontal sub-pixel bucket mode used when keys
	// are derived from fractional pen positions. Default: Subpixel4
	SubpixelX SubpixelMode

	// SubpixelY is the vertical sub-pixel bucket mode. Vertical
	// positioning rarely matters for Latin text. Default: SubpixelNone
	SubpixelY SubpixelMode

	// PinPolicy, when non-nil, marks keys as non-evictable. It is
	// consulted during victim selection in addition to explicit Pin
	// calls. Pinning is advisory: it guides eviction, it is not an
	// enforced invariant.
	PinPolicy func(GlyphKey) bool
}

// DefaultConfig returns the default atlas configuration.
func DefaultConfig() Config {
	return Config{
		PageSize:  1024,
		MaxPages:  4,
		Padding:   1,
		SubpixelX: Subpixel4,
		SubpixelY: SubpixelNone,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.PageSize < 64 {
		return &ConfigError{Field: "PageSize", Reason: "must be at least 64"}
	}
	if c.PageSize > 8192 {
		return &ConfigError{Field: "PageSize", Reason: "must be at most 8192"}
	}
	// Check power of 2
	if c.PageSize&(c.PageSize-1) != 0 {
		return &ConfigError{Field: "PageSize", Reason: "must be power of 2"}
	}
	if c.MaxPages < 1 {
		return &ConfigError{Field: "MaxPages", Reason: "must be at least 1"}
	}
	if c.MaxPages > 256 {
		return &ConfigError{Field: "MaxPages", Reason: "must be at most 256"}
	}
	if c.Padding < 0 {
		return &ConfigError{Field: "Padding", Reason: "must be non-negative"}
	}
	if c.Padding >= c.PageSize/4 {
		return &ConfigError{Field: "Padding", Reason: "must be less than a quarter of PageSize"}
	}
	if !validSubpixelMode(c.SubpixelX) {
		return &ConfigError{Field: "SubpixelX", Reason: "must be SubpixelNone, Subpixel2 or Subpixel4"}
	}
	if !validSubpixelMode(c.SubpixelY) {
		return &ConfigError{Field: "SubpixelY", Reason: "must be SubpixelNone, Subpixel2 or Subpixel4"}
	}
	return nil
}

func validSubpixelMode(m SubpixelMode) bool {
	switch m {
	case SubpixelNone, Subpixel2, Subpixel4:
		return true
	}
	return false
}

// Option configures an Atlas during creation.
type Option func(*Config)

// WithPageSize sets the texture page edge length.
func WithPageSize(size int) Option {
	return func(c *Config) { c.PageSize = size }
}

// WithMaxPages sets the page count limit.
func WithMaxPages(n int) Option {
	return func(c *Config) { c.MaxPages = n }
}

// WithPadding sets the per-glyph padding in pixels.
func WithPadding(px int) Option {
	return func(c *Config) { c.Padding = px }
}

// WithSubpixel sets sub-pixel bucket modes for both axes.
func WithSubpixel(x, y SubpixelMode) Option {
	return func(c *Config) {
		c.SubpixelX = x
		c.SubpixelY = y
	}
}

// WithPinPolicy sets the advisory pin predicate.
func WithPinPolicy(policy func(GlyphKey) bool) Option {
	return func(c *Config) { c.PinPolicy = policy }
}
