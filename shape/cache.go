package shape

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"

	"github.com/gogpu/textatlas"
	"github.com/gogpu/textatlas/internal/cache"
)

// CacheConfig configures a ResultCache.
type CacheConfig struct {
	// MaxEntries is the soft bound on cached shaping results. When
	// exceeded, the least recently used entries are dropped.
	MaxEntries int
}

// DefaultCacheConfig returns the default cache configuration.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{MaxEntries: 512}
}

// Validate checks the configuration.
func (c *CacheConfig) Validate() error {
	if c.MaxEntries < 1 {
		return &ConfigError{Field: "MaxEntries", Reason: "must be at least 1"}
	}
	return nil
}

// resultKey identifies one shaping result. All parameters that affect
// the result participate: content, width constraint, and style.
type resultKey struct {
	// ContentHash is the FNV-1a hash of the source text.
	ContentHash uint64

	// WidthBits is the IEEE 754 bit pattern of the width constraint
	// (float32). Bit-exact matching avoids floating-point comparison
	// issues.
	WidthBits uint32

	// StyleFP is the style fingerprint (face, size, direction,
	// features folded into one hash).
	StyleFP uint64
}

// key derives the cache identity of a source.
func (s Source) key() resultKey {
	return resultKey{
		ContentHash: hashString(s.Text),
		WidthBits:   math.Float32bits(float32(s.MaxWidth)),
		StyleFP:     s.Style.fingerprint(),
	}
}

// hashString computes the FNV-1a hash of a string.
func hashString(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s)) // fnv.Write never returns an error
	return h.Sum64()
}

// fingerprint folds every shaping-relevant style field into one hash.
func (st Style) fingerprint() uint64 {
	var id uint64
	if st.Face != nil {
		id = st.Face.ID()
	}

	h := fnv.New64a()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], id)
	_, _ = h.Write(buf[:])
	binary.LittleEndian.PutUint32(buf[:4], math.Float32bits(float32(st.Size)))
	_, _ = h.Write(buf[:4])
	_, _ = h.Write([]byte{byte(st.Direction)})
	binary.LittleEndian.PutUint64(buf[:], st.Features)
	_, _ = h.Write(buf[:])
	return h.Sum64()
}

// ResultCache memoizes whole shaping results.
//
// A hit returns the cached *ShapedText without touching the shaper; a
// miss segments the text, shapes each run, assembles the result, and
// inserts it. Entries beyond MaxEntries are evicted in least recently
// used order.
//
// ResultCache is not safe for concurrent use. Callers mutate it only
// from the frame thread; hosts wanting parallel shaping must serialize
// access externally.
type ResultCache struct {
	shaper Shaper
	cache  *cache.Cache[resultKey, *ShapedText]

	hits   uint64
	misses uint64
}

// NewResultCache creates a result cache in front of shaper.
func NewResultCache(shaper Shaper, cfg CacheConfig) (*ResultCache, error) {
	if shaper == nil {
		return nil, ErrNilShaper
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &ResultCache{
		shaper: shaper,
		cache:  cache.New[resultKey, *ShapedText](cfg.MaxEntries),
	}, nil
}

// Shape returns the shaped form of src, shaping on first use and
// serving repeats from the cache.
//
// The returned ShapedText is shared with the cache and must be treated
// as read-only. A shaper error aborts the whole request and is wrapped
// with the byte range of the failing run; nothing is cached.
func (rc *ResultCache) Shape(src Source) (*ShapedText, error) {
	key := src.key()
	if t, ok := rc.cache.Get(key); ok {
		rc.hits++
		return t, nil
	}
	rc.misses++

	t, err := rc.shapeAll(src)
	if err != nil {
		return nil, err
	}
	before := rc.cache.Stats().Evictions
	rc.cache.Set(key, t)
	if after := rc.cache.Stats().Evictions; after > before {
		textatlas.Logger().Debug("shape: trimmed result cache",
			"evicted", after-before, "len", rc.cache.Len())
	}
	return t, nil
}

// shapeAll runs the full miss path: segmentation, per-run shaping,
// result assembly.
func (rc *ResultCache) shapeAll(src Source) (*ShapedText, error) {
	segs := SegmentText(src.Text, src.Style.Direction)

	t := &ShapedText{Runs: make([]Run, 0, len(segs))}
	for _, seg := range segs {
		run, err := rc.shaper.ShapeRun(RunInput{
			Text:      seg.Text,
			Start:     seg.Start,
			Face:      src.Style.Face,
			Size:      src.Style.Size,
			Direction: seg.Direction,
		})
		if err != nil {
			return nil, fmt.Errorf("shape: run %d..%d: %w", seg.Start, seg.End, err)
		}
		t.Runs = append(t.Runs, run)
		t.Width += run.Advance
		if run.Ascent > t.Ascent {
			t.Ascent = run.Ascent
		}
		if run.Descent > t.Descent {
			t.Descent = run.Descent
		}
	}
	return t, nil
}

// Len returns the number of cached results.
func (rc *ResultCache) Len() int { return rc.cache.Len() }

// Clear drops all cached results.
func (rc *ResultCache) Clear() {
	rc.cache.Clear()
}

// CacheStats is a point-in-time snapshot of cache behavior.
type CacheStats struct {
	Hits      uint64
	Misses    uint64
	Len       int
	Capacity  int
	Evictions uint64
}

// Stats returns a snapshot of cache counters.
func (rc *ResultCache) Stats() CacheStats {
	cs := rc.cache.Stats()
	return CacheStats{
		Hits:      rc.hits,
		Misses:    rc.misses,
		Len:       cs.Len,
		Capacity:  cs.Capacity,
		Evictions: cs.Evictions,
	}
}
