package wgpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"
)

// Embedded glyph quad shader source.
//
//go:embed shaders/glyph.wgsl
var GlyphShaderWGSL string

// CompileGlyphShader compiles the glyph shader to SPIR-V words suitable
// for hal.ShaderSource.
func CompileGlyphShader() ([]uint32, error) {
	spirvBytes, err := naga.Compile(GlyphShaderWGSL)
	if err != nil {
		return nil, fmt.Errorf("wgpu: compile glyph shader: %w", err)
	}

	// SPIR-V is little-endian 32-bit words.
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}
