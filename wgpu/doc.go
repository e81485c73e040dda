// Package wgpu mirrors atlas pages into GPU textures and owns the
// glyph render pipeline.
//
// Uploader keeps one R8Unorm texture per atlas page and writes only the
// dirty rectangles each frame. Pipeline compiles the glyph quad shader
// through naga and builds a premultiplied-alpha render pipeline that
// draws six vertices per batch instance.
//
// Files touching a HAL device build only without the nogpu tag. The
// buffer packing helpers and the shader source build everywhere, so the
// upload math stays testable without GPU hardware.
package wgpu
