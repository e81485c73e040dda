package raster

import (
	"bytes"
	"errors"
	"testing"

	"github.com/gogpu/textatlas"
)

func newTestRenderer(t *testing.T) (*Renderer, uint64) {
	t.Helper()
	store, id := newTestStore(t)
	return NewRenderer(store), id
}

func testKey(t *testing.T, r *Renderer, font uint64, ch rune, size float64) textatlas.GlyphKey {
	t.Helper()
	gid, err := r.store.GlyphIndex(font, ch)
	if err != nil {
		t.Fatalf("GlyphIndex(%q): %v", ch, err)
	}
	if gid == 0 {
		t.Fatalf("GlyphIndex(%q) = 0, want non-zero", ch)
	}
	return textatlas.GlyphKey{
		Font: font,
		GID:  gid,
		Size: textatlas.QuantizeSize(size),
	}
}

func maxCoverage(pix []byte) byte {
	var max byte
	for _, v := range pix {
		if v > max {
			max = v
		}
	}
	return max
}

func TestRasterizeBasic(t *testing.T) {
	r, font := newTestRenderer(t)
	key := testKey(t, r, font, 'A', 16)

	bm, err := r.Rasterize(key)
	if err != nil {
		t.Fatalf("Rasterize('A'): %v", err)
	}

	if bm.Width <= 0 || bm.Height <= 0 {
		t.Fatalf("bitmap %dx%d, want positive dimensions", bm.Width, bm.Height)
	}
	if bm.Stride < bm.Width {
		t.Errorf("Stride = %d, want >= %d", bm.Stride, bm.Width)
	}
	if len(bm.Pix) < bm.Stride*bm.Height {
		t.Errorf("len(Pix) = %d, want >= %d", len(bm.Pix), bm.Stride*bm.Height)
	}
	if maxCoverage(bm.Pix) == 0 {
		t.Error("bitmap has no coverage")
	}
	// 'A' sits on the baseline and extends above it.
	if bm.Top >= 0 {
		t.Errorf("Top = %d, want negative", bm.Top)
	}
}

func TestRasterizeSpace(t *testing.T) {
	r, font := newTestRenderer(t)
	key := testKey(t, r, font, ' ', 16)

	bm, err := r.Rasterize(key)
	if err != nil {
		t.Fatalf("Rasterize(' '): %v", err)
	}
	if bm.Width != 0 || bm.Height != 0 || len(bm.Pix) != 0 {
		t.Errorf("space bitmap = %dx%d with %d bytes, want empty", bm.Width, bm.Height, len(bm.Pix))
	}
}

func TestRasterizeUnknownFont(t *testing.T) {
	r, _ := newTestRenderer(t)

	_, err := r.Rasterize(textatlas.GlyphKey{Font: 12345, GID: 1, Size: 1024})
	if !errors.Is(err, ErrUnknownFont) {
		t.Errorf("Rasterize(unknown font) error = %v, want %v", err, ErrUnknownFont)
	}
}

func TestRasterizeDeterministic(t *testing.T) {
	r, font := newTestRenderer(t)
	key := testKey(t, r, font, 'g', 16)

	first, err := r.Rasterize(key)
	if err != nil {
		t.Fatalf("first Rasterize: %v", err)
	}
	second, err := r.Rasterize(key)
	if err != nil {
		t.Fatalf("second Rasterize: %v", err)
	}

	if first.Width != second.Width || first.Height != second.Height ||
		first.Left != second.Left || first.Top != second.Top {
		t.Fatalf("geometry changed between calls: %+v vs %+v", first, second)
	}
	if !bytes.Equal(first.Pix, second.Pix) {
		t.Error("coverage changed between calls for the same key")
	}
}

func TestRasterizeBold(t *testing.T) {
	r, font := newTestRenderer(t)
	plain := testKey(t, r, font, 'A', 16)
	bold := plain
	bold.Flags = textatlas.FlagSyntheticBold

	pb, err := r.Rasterize(plain)
	if err != nil {
		t.Fatalf("Rasterize(plain): %v", err)
	}
	bb, err := r.Rasterize(bold)
	if err != nil {
		t.Fatalf("Rasterize(bold): %v", err)
	}

	// At 16px the embolden window is one pixel.
	if bb.Width != pb.Width+1 {
		t.Errorf("bold width = %d, want %d", bb.Width, pb.Width+1)
	}
	if bb.Height != pb.Height {
		t.Errorf("bold height = %d, want %d", bb.Height, pb.Height)
	}
}

func TestRasterizeItalic(t *testing.T) {
	r, font := newTestRenderer(t)
	plain := testKey(t, r, font, 'A', 16)
	italic := plain
	italic.Flags = textatlas.FlagSyntheticItalic

	pb, err := r.Rasterize(plain)
	if err != nil {
		t.Fatalf("Rasterize(plain): %v", err)
	}
	ib, err := r.Rasterize(italic)
	if err != nil {
		t.Fatalf("Rasterize(italic): %v", err)
	}

	// The shear widens the covered bounds.
	if ib.Width <= pb.Width {
		t.Errorf("italic width = %d, want > %d", ib.Width, pb.Width)
	}
	if maxCoverage(ib.Pix) == 0 {
		t.Error("italic bitmap has no coverage")
	}
}

func TestRasterizeSubpixel(t *testing.T) {
	r, font := newTestRenderer(t)
	base := testKey(t, r, font, 'A', 16)
	shifted := base
	shifted.SubX = 2 // +0.5px with Subpixel4

	b0, err := r.Rasterize(base)
	if err != nil {
		t.Fatalf("Rasterize(base): %v", err)
	}
	b1, err := r.Rasterize(shifted)
	if err != nil {
		t.Fatalf("Rasterize(shifted): %v", err)
	}

	// The half-pixel offset may widen the mask by one column; either way
	// the coverage must differ from the unshifted render.
	if b1.Width < b0.Width || b1.Width > b0.Width+1 {
		t.Errorf("shifted width = %d, want %d or %d", b1.Width, b0.Width, b0.Width+1)
	}
	if b0.Width == b1.Width && b0.Height == b1.Height && bytes.Equal(b0.Pix, b1.Pix) {
		t.Error("sub-pixel offset produced an identical bitmap")
	}
}
