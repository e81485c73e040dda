package wgpu

import "github.com/gogpu/gputypes"

// Config controls how the uploader creates page textures.
type Config struct {
	// LabelPrefix prefixes the labels of GPU objects the uploader
	// creates, so pages are recognizable in graphics debuggers.
	LabelPrefix string

	// Format is the page texture format. The atlas stores one coverage
	// byte per pixel, so only TextureFormatR8Unorm is valid.
	Format gputypes.TextureFormat
}

// DefaultConfig returns the default uploader configuration.
func DefaultConfig() Config {
	return Config{
		LabelPrefix: "glyph_atlas",
		Format:      gputypes.TextureFormatR8Unorm,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.LabelPrefix == "" {
		return &ConfigError{Field: "LabelPrefix", Reason: "must not be empty"}
	}
	if c.Format != gputypes.TextureFormatR8Unorm {
		return &ConfigError{Field: "Format", Reason: "must be TextureFormatR8Unorm"}
	}
	return nil
}

// Option configures an Uploader.
type Option func(*Config)

// WithLabelPrefix sets the GPU object label prefix.
func WithLabelPrefix(prefix string) Option {
	return func(c *Config) { c.LabelPrefix = prefix }
}
