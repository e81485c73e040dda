package wgpu

import (
	"encoding/binary"
	"image"
	"math"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/textatlas/batch"
)

// glyphInstanceStride is the byte stride per glyph instance.
// Layout per instance:
//
//	rect  (vec4<f32>) = 16 bytes  (location 0)
//	uv    (vec4<f32>) = 16 bytes  (location 1)
//	color (vec4<f32>) = 16 bytes  (location 2)
//
// Total = 48 bytes per instance.
const glyphInstanceStride = 48

// glyphGlobalsSize is the byte size of the glyph uniform buffer:
// one mat4x4<f32> transform.
const glyphGlobalsSize = 64

// glyphVertexLayout returns the instance buffer layout the glyph
// pipeline consumes. Must match Instance in glyph.wgsl.
func glyphVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: glyphInstanceStride,
			StepMode:    gputypes.VertexStepModeInstance,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 0},  // rect
				{Format: gputypes.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 1}, // uv
				{Format: gputypes.VertexFormatFloat32x4, Offset: 32, ShaderLocation: 2}, // color
			},
		},
	}
}

// BuildInstanceData packs batch instances into the glyph pipeline's
// instance buffer layout.
func BuildInstanceData(instances []batch.Instance) []byte {
	buf := make([]byte, len(instances)*glyphInstanceStride)
	for i := range instances {
		writeGlyphInstance(buf[i*glyphInstanceStride:], &instances[i])
	}
	return buf
}

// writeGlyphInstance writes a single instance into the buffer.
// Layout: rect (vec4<f32>) + uv (vec4<f32>) + color (vec4<f32>) = 48 bytes.
func writeGlyphInstance(buf []byte, in *batch.Instance) {
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(in.X0))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(in.Y0))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(in.X1))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(in.Y1))
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(in.UV.U0))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(in.UV.V0))
	binary.LittleEndian.PutUint32(buf[24:28], math.Float32bits(in.UV.U1))
	binary.LittleEndian.PutUint32(buf[28:32], math.Float32bits(in.UV.V1))
	binary.LittleEndian.PutUint32(buf[32:36], math.Float32bits(in.Color[0]))
	binary.LittleEndian.PutUint32(buf[36:40], math.Float32bits(in.Color[1]))
	binary.LittleEndian.PutUint32(buf[40:44], math.Float32bits(in.Color[2]))
	binary.LittleEndian.PutUint32(buf[44:48], math.Float32bits(in.Color[3]))
}

// BuildGlobals packs the uniform buffer for a render target of the
// given pixel size: an orthographic transform mapping pixel space
// (origin top-left, y down) to clip space.
func BuildGlobals(width, height float32) []byte {
	m := ortho(width, height)
	buf := make([]byte, glyphGlobalsSize)
	for i, v := range m {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// ortho returns the pixel-to-clip transform, column-major.
func ortho(w, h float32) [16]float32 {
	return [16]float32{
		2 / w, 0, 0, 0,
		0, -2 / h, 0, 0,
		0, 0, 1, 0,
		-1, 1, 0, 1,
	}
}

// subRect slices the bytes of pix covering r when rows are stride bytes
// apart. The slice starts at r's first pixel and ends after its last,
// so a texture write with BytesPerRow = stride reads exactly the
// rectangle's rows.
func subRect(pix []byte, stride int, r image.Rectangle) []byte {
	start := r.Min.Y*stride + r.Min.X
	end := (r.Max.Y-1)*stride + r.Max.X
	return pix[start:end]
}
