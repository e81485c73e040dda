package textatlas

import (
	"image"
	"testing"
)

func TestShelfPackerSequential(t *testing.T) {
	p := newShelfPacker(64, 64, 0)

	// Four 16x16 rects fill the first shelf left to right.
	for i := 0; i < 4; i++ {
		rect, fp, ok := p.allocate(16, 16)
		if !ok {
			t.Fatalf("allocate %d failed", i)
		}
		want := image.Rect(i*16, 0, i*16+16, 16)
		if rect != want {
			t.Errorf("rect %d = %v, want %v", i, rect, want)
		}
		if fp != rect {
			t.Errorf("footprint %d = %v, want %v", i, fp, rect)
		}
	}

	// The fifth opens a new shelf.
	rect, _, ok := p.allocate(16, 16)
	if !ok {
		t.Fatal("allocate on new shelf failed")
	}
	if want := image.Rect(0, 16, 16, 32); rect != want {
		t.Errorf("new shelf rect = %v, want %v", rect, want)
	}
}

func TestShelfPackerExtendsLastShelf(t *testing.T) {
	p := newShelfPacker(64, 64, 0)

	if _, _, ok := p.allocate(16, 8); !ok {
		t.Fatal("first allocate failed")
	}

	// Taller than the shelf: the last shelf may grow downward.
	rect, _, ok := p.allocate(16, 16)
	if !ok {
		t.Fatal("taller allocate failed")
	}
	if want := image.Rect(16, 0, 32, 16); rect != want {
		t.Errorf("rect = %v, want %v", rect, want)
	}
}

func TestShelfPackerFull(t *testing.T) {
	p := newShelfPacker(64, 64, 0)

	if _, _, ok := p.allocate(64, 64); !ok {
		t.Fatal("full-page allocate failed")
	}
	if _, _, ok := p.allocate(1, 1); ok {
		t.Error("allocate on a full page should fail")
	}
	if p.canFit(1, 1) {
		t.Error("canFit on a full page should be false")
	}
}

func TestShelfPackerPadding(t *testing.T) {
	p := newShelfPacker(64, 64, 2)

	r1, _, ok := p.allocate(16, 16)
	if !ok {
		t.Fatal("first allocate failed")
	}
	r2, _, ok := p.allocate(16, 16)
	if !ok {
		t.Fatal("second allocate failed")
	}

	// The second rect starts after the first plus padding.
	if want := image.Rect(18, 0, 34, 16); r2 != want {
		t.Errorf("padded rect = %v, want %v", r2, want)
	}
	if r1.Overlaps(r2) {
		t.Error("padded rects overlap")
	}
}

func TestShelfPackerReleaseReuse(t *testing.T) {
	p := newShelfPacker(64, 64, 0)

	rect, fp, ok := p.allocate(16, 16)
	if !ok {
		t.Fatal("allocate failed")
	}
	used := p.usedArea

	p.release(fp)
	if p.usedArea != used-256 {
		t.Errorf("usedArea = %d after release, want %d", p.usedArea, used-256)
	}
	if p.freeCount() != 1 {
		t.Fatalf("freeCount = %d, want 1", p.freeCount())
	}

	// A smaller glyph reuses the freed footprint whole.
	r2, fp2, ok := p.allocate(8, 8)
	if !ok {
		t.Fatal("reuse allocate failed")
	}
	if r2.Min != rect.Min {
		t.Errorf("reused rect at %v, want %v", r2.Min, rect.Min)
	}
	if fp2 != fp {
		t.Errorf("reused footprint = %v, want original %v", fp2, fp)
	}
	if p.freeCount() != 0 {
		t.Errorf("freeCount = %d after reuse, want 0", p.freeCount())
	}
	if p.usedArea != used {
		t.Errorf("usedArea = %d after reuse, want %d (footprint accounting)", p.usedArea, used)
	}
}

func TestShelfPackerBestFit(t *testing.T) {
	p := newShelfPacker(64, 64, 0)

	_, fpBig, _ := p.allocate(32, 32)
	r2, fpSmall, _ := p.allocate(16, 16)

	p.release(fpBig)
	p.release(fpSmall)

	// Best fit: the 16x16 footprint wins over the 32x32 one.
	r3, fp3, ok := p.allocate(8, 8)
	if !ok {
		t.Fatal("best-fit allocate failed")
	}
	if r3.Min != r2.Min {
		t.Errorf("best-fit rect at %v, want %v", r3.Min, r2.Min)
	}
	if fp3 != fpSmall {
		t.Errorf("best-fit footprint = %v, want %v", fp3, fpSmall)
	}
}

func TestShelfPackerCanEverFit(t *testing.T) {
	p := newShelfPacker(64, 64, 1)

	if !p.canEverFit(63, 63) {
		t.Error("63x63 with padding 1 should fit an empty 64x64 page")
	}
	if p.canEverFit(64, 64) {
		t.Error("64x64 with padding 1 can never fit")
	}
	if p.canEverFit(0, 16) {
		t.Error("zero width can never fit")
	}
}

func TestShelfPackerNoOverlapStress(t *testing.T) {
	p := newShelfPacker(128, 128, 1)

	var rects []image.Rectangle
	sizes := []struct{ w, h int }{{16, 16}, {8, 12}, {24, 10}, {5, 5}, {32, 20}}
	for i := 0; ; i++ {
		s := sizes[i%len(sizes)]
		rect, _, ok := p.allocate(s.w, s.h)
		if !ok {
			break
		}
		rects = append(rects, rect)
	}

	if len(rects) < 20 {
		t.Fatalf("packed only %d rects, expected more on a 128x128 page", len(rects))
	}

	bounds := image.Rect(0, 0, 128, 128)
	for i, r := range rects {
		if !r.In(bounds) {
			t.Errorf("rect %d = %v escapes the page", i, r)
		}
		for j := i + 1; j < len(rects); j++ {
			if r.Overlaps(rects[j]) {
				t.Errorf("rect %d %v overlaps rect %d %v", i, r, j, rects[j])
			}
		}
	}
}

func TestShelfPackerUtilization(t *testing.T) {
	p := newShelfPacker(64, 64, 0)

	if p.utilization() != 0 {
		t.Errorf("empty utilization = %v, want 0", p.utilization())
	}

	p.allocate(32, 32) // 1024 of 4096
	if got := p.utilization(); got != 0.25 {
		t.Errorf("utilization = %v, want 0.25", got)
	}
}
