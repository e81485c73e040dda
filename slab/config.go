package slab

// Config tunes a Manager.
type Config struct {
	// MaxBoxAge is the number of frames a box may go unrefreshed
	// before RemoveOld drops it. 0 drops everything not refreshed in
	// the current frame.
	MaxBoxAge int
}

// DefaultConfig returns the default Manager configuration.
func DefaultConfig() Config {
	return Config{MaxBoxAge: 2}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.MaxBoxAge < 0 {
		return &ConfigError{Field: "MaxBoxAge", Reason: "must not be negative"}
	}
	return nil
}

// Option configures a Manager.
type Option func(*Config)

// WithMaxBoxAge sets how many frames an unrefreshed box survives.
func WithMaxBoxAge(frames int) Option {
	return func(c *Config) {
		c.MaxBoxAge = frames
	}
}
