package shape

import (
	"errors"
	"strings"
	"testing"
)

// fakeShaper produces one glyph per byte with a fixed advance and
// counts invocations, so cache behavior is observable.
type fakeShaper struct {
	calls int
	fail  error
}

func (f *fakeShaper) ShapeRun(in RunInput) (Run, error) {
	f.calls++
	if f.fail != nil {
		return Run{}, f.fail
	}
	run := Run{
		Direction: in.Direction,
		Size:      in.Size,
		Start:     in.Start,
		End:       in.Start + len(in.Text),
		Ascent:    in.Size * 0.8,
		Descent:   in.Size * 0.2,
	}
	if in.Face != nil {
		run.Font = in.Face.ID()
	}
	var x float64
	for i := 0; i < len(in.Text); i++ {
		run.Glyphs = append(run.Glyphs, Glyph{
			GID:      uint32(in.Text[i]),
			Cluster:  in.Start + i,
			X:        x,
			XAdvance: 10,
		})
		x += 10
	}
	run.Advance = x
	return run, nil
}

func newTestCache(t *testing.T, shaper Shaper, maxEntries int) *ResultCache {
	t.Helper()
	rc, err := NewResultCache(shaper, CacheConfig{MaxEntries: maxEntries})
	if err != nil {
		t.Fatalf("NewResultCache: %v", err)
	}
	return rc
}

func TestResultCache_HitMiss(t *testing.T) {
	fs := &fakeShaper{}
	rc := newTestCache(t, fs, 16)

	src := Source{Text: "Hello", Style: Style{Size: 16}}

	first, err := rc.Shape(src)
	if err != nil {
		t.Fatalf("Shape: %v", err)
	}
	if fs.calls != 1 {
		t.Fatalf("shaper calls after miss = %d, want 1", fs.calls)
	}

	second, err := rc.Shape(src)
	if err != nil {
		t.Fatalf("Shape (repeat): %v", err)
	}
	if fs.calls != 1 {
		t.Errorf("shaper calls after hit = %d, want 1", fs.calls)
	}
	if first != second {
		t.Error("hit should return the cached *ShapedText, got a distinct pointer")
	}

	st := rc.Stats()
	if st.Hits != 1 || st.Misses != 1 {
		t.Errorf("stats = %d hits / %d misses, want 1/1", st.Hits, st.Misses)
	}
	if st.Len != 1 {
		t.Errorf("stats.Len = %d, want 1", st.Len)
	}
}

func TestResultCache_DistinctWidth(t *testing.T) {
	fs := &fakeShaper{}
	rc := newTestCache(t, fs, 16)

	style := Style{Size: 16}
	if _, err := rc.Shape(Source{Text: "Hello", Style: style}); err != nil {
		t.Fatalf("Shape: %v", err)
	}
	if _, err := rc.Shape(Source{Text: "Hello", MaxWidth: 100, Style: style}); err != nil {
		t.Fatalf("Shape: %v", err)
	}

	if fs.calls != 2 {
		t.Errorf("shaper calls = %d, want 2 (width constraint is part of identity)", fs.calls)
	}
}

func TestResultCache_DistinctStyle(t *testing.T) {
	fs := &fakeShaper{}
	rc := newTestCache(t, fs, 16)

	tests := []Style{
		{Size: 16},
		{Size: 17},
		{Size: 16, Direction: DirectionRTL},
		{Size: 16, Features: 1},
	}
	for _, style := range tests {
		if _, err := rc.Shape(Source{Text: "same text", Style: style}); err != nil {
			t.Fatalf("Shape(%+v): %v", style, err)
		}
	}

	if fs.calls != len(tests) {
		t.Errorf("shaper calls = %d, want %d (each style shapes once)", fs.calls, len(tests))
	}
	if rc.Len() != len(tests) {
		t.Errorf("cache len = %d, want %d", rc.Len(), len(tests))
	}
}

func TestResultCache_ErrorWrapping(t *testing.T) {
	sentinel := errors.New("font table broken")
	fs := &fakeShaper{fail: sentinel}
	rc := newTestCache(t, fs, 16)

	_, err := rc.Shape(Source{Text: "Hello", Style: Style{Size: 16}})
	if err == nil {
		t.Fatal("expected error from failing shaper")
	}
	if !errors.Is(err, sentinel) {
		t.Errorf("errors.Is(err, sentinel) = false, err = %v", err)
	}
	if !strings.Contains(err.Error(), "shape: run 0..5") {
		t.Errorf("error message = %q, want run byte range context", err)
	}
	if rc.Len() != 0 {
		t.Errorf("failed result was cached, len = %d", rc.Len())
	}

	// Recovery: once the shaper works, the same source shapes cleanly.
	fs.fail = nil
	if _, err := rc.Shape(Source{Text: "Hello", Style: Style{Size: 16}}); err != nil {
		t.Fatalf("Shape after recovery: %v", err)
	}
}

func TestResultCache_Eviction(t *testing.T) {
	fs := &fakeShaper{}
	rc := newTestCache(t, fs, 8)

	texts := []string{
		"zero", "one", "two", "three", "four", "five", "six", "seven",
		"eight", "nine", "ten", "eleven", "twelve", "thirteen",
	}
	for _, s := range texts {
		if _, err := rc.Shape(Source{Text: s, Style: Style{Size: 16}}); err != nil {
			t.Fatalf("Shape(%q): %v", s, err)
		}
	}

	if rc.Len() > 8 {
		t.Errorf("cache len = %d, want <= MaxEntries (8)", rc.Len())
	}
	if st := rc.Stats(); st.Evictions == 0 {
		t.Error("expected evictions after exceeding MaxEntries")
	}

	// The oldest entry was evicted; shaping it again calls the shaper.
	before := fs.calls
	if _, err := rc.Shape(Source{Text: "zero", Style: Style{Size: 16}}); err != nil {
		t.Fatalf("Shape: %v", err)
	}
	if fs.calls != before+1 {
		t.Errorf("shaper calls = %d, want %d (evicted entry must re-shape)", fs.calls, before+1)
	}
}

func TestResultCache_Clear(t *testing.T) {
	fs := &fakeShaper{}
	rc := newTestCache(t, fs, 16)

	if _, err := rc.Shape(Source{Text: "Hello", Style: Style{Size: 16}}); err != nil {
		t.Fatalf("Shape: %v", err)
	}
	rc.Clear()
	if rc.Len() != 0 {
		t.Fatalf("len after Clear = %d, want 0", rc.Len())
	}
	if _, err := rc.Shape(Source{Text: "Hello", Style: Style{Size: 16}}); err != nil {
		t.Fatalf("Shape after Clear: %v", err)
	}
	if fs.calls != 2 {
		t.Errorf("shaper calls = %d, want 2 (Clear drops entries)", fs.calls)
	}
}

func TestResultCache_EmptyText(t *testing.T) {
	fs := &fakeShaper{}
	rc := newTestCache(t, fs, 16)

	text, err := rc.Shape(Source{Style: Style{Size: 16}})
	if err != nil {
		t.Fatalf("Shape: %v", err)
	}
	if len(text.Runs) != 0 {
		t.Errorf("empty source produced %d runs, want 0", len(text.Runs))
	}
	if text.Width != 0 {
		t.Errorf("empty source width = %f, want 0", text.Width)
	}
	if fs.calls != 0 {
		t.Errorf("shaper calls = %d, want 0 (nothing to shape)", fs.calls)
	}

	// Empty results are cached like any other.
	if _, err := rc.Shape(Source{Style: Style{Size: 16}}); err != nil {
		t.Fatalf("Shape (repeat): %v", err)
	}
	if st := rc.Stats(); st.Hits != 1 {
		t.Errorf("stats.Hits = %d, want 1", st.Hits)
	}
}

func TestResultCache_MixedDirectionAssembly(t *testing.T) {
	fs := &fakeShaper{}
	rc := newTestCache(t, fs, 16)

	text, err := rc.Shape(Source{Text: "Hi שלום", Style: Style{Size: 16}})
	if err != nil {
		t.Fatalf("Shape: %v", err)
	}
	if len(text.Runs) < 2 {
		t.Fatalf("expected at least 2 runs for mixed-direction text, got %d", len(text.Runs))
	}

	var width float64
	for i, run := range text.Runs {
		width += run.Advance
		if i > 0 && run.Start != text.Runs[i-1].End {
			t.Errorf("run %d starts at %d, previous ends at %d", i, run.Start, text.Runs[i-1].End)
		}
	}
	if text.Width != width {
		t.Errorf("text.Width = %f, want %f (sum of run advances)", text.Width, width)
	}
	if text.Ascent != 16*0.8 || text.Descent != 16*0.2 {
		t.Errorf("extents = %f/%f, want max over runs", text.Ascent, text.Descent)
	}
}

func TestNewResultCache_NilShaper(t *testing.T) {
	_, err := NewResultCache(nil, DefaultCacheConfig())
	if !errors.Is(err, ErrNilShaper) {
		t.Errorf("NewResultCache(nil) error = %v, want ErrNilShaper", err)
	}
}

func TestCacheConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     CacheConfig
		wantErr bool
		field   string
	}{
		{"default", DefaultCacheConfig(), false, ""},
		{"minimum", CacheConfig{MaxEntries: 1}, false, ""},
		{"zero entries", CacheConfig{}, true, "MaxEntries"},
		{"negative entries", CacheConfig{MaxEntries: -4}, true, "MaxEntries"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				var cerr *ConfigError
				if !errors.As(err, &cerr) {
					t.Fatalf("Validate() = %v, want *ConfigError", err)
				}
				if cerr.Field != tt.field {
					t.Errorf("ConfigError.Field = %q, want %q", cerr.Field, tt.field)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}
