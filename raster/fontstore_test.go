package raster

import (
	"errors"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/textatlas"
)

func newTestStore(t *testing.T) (*FontStore, uint64) {
	t.Helper()
	store := NewFontStore()
	id, err := store.Add(goregular.TTF)
	if err != nil {
		t.Fatalf("Add(goregular.TTF): %v", err)
	}
	return store, id
}

func TestFontStoreAdd(t *testing.T) {
	store, id := newTestStore(t)

	if want := textatlas.FontID(goregular.TTF); id != want {
		t.Errorf("Add() id = %#x, want %#x", id, want)
	}
	if store.Len() != 1 {
		t.Errorf("Len() = %d, want 1", store.Len())
	}

	// Re-adding the same bytes keeps a single entry under the same ID.
	again, err := store.Add(goregular.TTF)
	if err != nil {
		t.Fatalf("second Add(): %v", err)
	}
	if again != id {
		t.Errorf("second Add() id = %#x, want %#x", again, id)
	}
	if store.Len() != 1 {
		t.Errorf("Len() after re-add = %d, want 1", store.Len())
	}
}

func TestFontStoreAddInvalid(t *testing.T) {
	store := NewFontStore()

	if _, err := store.Add([]byte("not a font")); err == nil {
		t.Fatal("Add(garbage) = nil error, want parse error")
	}
	if store.Len() != 0 {
		t.Errorf("Len() = %d, want 0", store.Len())
	}
}

func TestFontStoreFont(t *testing.T) {
	store, id := newTestStore(t)

	if _, ok := store.Font(id); !ok {
		t.Error("Font(known id) = not found")
	}
	if _, ok := store.Font(id + 1); ok {
		t.Error("Font(unknown id) = found")
	}
}

func TestFontStoreGlyphIndex(t *testing.T) {
	store, id := newTestStore(t)

	gid, err := store.GlyphIndex(id, 'A')
	if err != nil {
		t.Fatalf("GlyphIndex('A'): %v", err)
	}
	if gid == 0 {
		t.Error("GlyphIndex('A') = 0, want non-zero")
	}

	// Uncovered runes map to .notdef without error.
	missing, err := store.GlyphIndex(id, '\U000130B8')
	if err != nil {
		t.Fatalf("GlyphIndex(uncovered): %v", err)
	}
	if missing != 0 {
		t.Errorf("GlyphIndex(uncovered) = %d, want 0", missing)
	}

	if _, err := store.GlyphIndex(id+1, 'A'); !errors.Is(err, ErrUnknownFont) {
		t.Errorf("GlyphIndex(unknown font) error = %v, want %v", err, ErrUnknownFont)
	}
}
