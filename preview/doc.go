// Package preview draws glyph atlas pages through a gpucontext draw
// target for visual inspection.
//
// The drawer expands each page's coverage bytes to premultiplied white
// RGBA and re-uploads the whole page on every call, so the on-screen
// tile always matches the atlas contents. It is a debugging aid for
// watching packing and eviction, not a production render path; use the
// wgpu package for that.
package preview
