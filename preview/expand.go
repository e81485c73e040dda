package preview

// ExpandAlpha converts single-channel coverage pixels to premultiplied
// white RGBA: each coverage byte c becomes (c, c, c, c). Composited
// with one/one-minus-src-alpha blending the result reads as white
// glyphs over any background. stride is the source row pitch in bytes
// and may exceed width.
func ExpandAlpha(pix []byte, stride, width, height int) []byte {
	rgba := make([]byte, width*height*4)
	for y := 0; y < height; y++ {
		src := y * stride
		dst := y * width * 4
		for x := 0; x < width; x++ {
			c := pix[src+x]
			off := dst + x*4
			rgba[off+0] = c
			rgba[off+1] = c
			rgba[off+2] = c
			rgba[off+3] = c
		}
	}
	return rgba
}
