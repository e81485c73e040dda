package textatlas

import "testing"

func TestViewPixAndDirty(t *testing.T) {
	rast := &stubRasterizer{size: 16}
	a := newTestAtlas(t, rast, WithPageSize(64), WithPadding(0))

	loc, err := a.Resolve(gk(1))
	if err != nil {
		t.Fatal(err)
	}

	v := a.View()
	if v.Pages() != 1 {
		t.Fatalf("Pages = %d, want 1", v.Pages())
	}
	if v.PageSize() != 64 {
		t.Errorf("PageSize = %d, want 64", v.PageSize())
	}
	if v.Stride(0) != 64 {
		t.Errorf("Stride = %d, want 64", v.Stride(0))
	}

	pix := v.Pix(0)
	if len(pix) != 64*64 {
		t.Fatalf("len(Pix) = %d, want %d", len(pix), 64*64)
	}
	// The written glyph is solid coverage.
	if pix[loc.Rect.Min.Y*64+loc.Rect.Min.X] != 0xFF {
		t.Error("glyph pixels not present in page buffer")
	}

	dirty := v.DirtyRects(0)
	if len(dirty) != 1 {
		t.Fatalf("DirtyRects = %v, want one rect", dirty)
	}
	if dirty[0] != loc.Rect {
		t.Errorf("dirty rect = %v, want %v", dirty[0], loc.Rect)
	}

	v.Flush(0)
	if got := v.DirtyRects(0); got != nil {
		t.Errorf("DirtyRects after Flush = %v, want nil", got)
	}

	// The next write dirties the page again.
	if _, err := a.Resolve(gk(2)); err != nil {
		t.Fatal(err)
	}
	if len(v.DirtyRects(0)) == 0 {
		t.Error("expected dirty state after post-flush resolve")
	}
}

func TestViewGenerationTracksAtlas(t *testing.T) {
	a := newTestAtlas(t, &stubRasterizer{size: 16}, WithPageSize(64), WithPadding(0))
	v := a.View()

	if v.Generation() != a.Generation() {
		t.Fatal("view generation diverges from atlas")
	}
	a.EndFrame()
	if v.Generation() != a.Generation() {
		t.Error("view generation did not follow EndFrame")
	}
}

func TestViewPageRangePanics(t *testing.T) {
	a := newTestAtlas(t, &stubRasterizer{size: 16}, WithPageSize(64), WithPadding(0))
	v := a.View()

	mustPanic(t, "negative index", func() { v.Pix(-1) })
	mustPanic(t, "index past pages", func() { v.DirtyRects(0) })
}
