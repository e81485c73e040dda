package cache

import (
	"strconv"
	"testing"
)

func TestCacheGetSet(t *testing.T) {
	c := New[string, int](10)

	if _, ok := c.Get("missing"); ok {
		t.Error("Get on empty cache should miss")
	}

	c.Set("a", 1)
	v, ok := c.Get("a")
	if !ok {
		t.Fatal("Get after Set should hit")
	}
	if v != 1 {
		t.Errorf("Get returned %d, want 1", v)
	}

	// Overwrite
	c.Set("a", 2)
	if v, _ := c.Get("a"); v != 2 {
		t.Errorf("Get after overwrite returned %d, want 2", v)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d after overwrite, want 1", c.Len())
	}
}

func TestCacheGetOrCreate(t *testing.T) {
	c := New[string, int](10)

	calls := 0
	create := func() int {
		calls++
		return 42
	}

	if v := c.GetOrCreate("k", create); v != 42 {
		t.Errorf("GetOrCreate returned %d, want 42", v)
	}
	if v := c.GetOrCreate("k", create); v != 42 {
		t.Errorf("second GetOrCreate returned %d, want 42", v)
	}
	if calls != 1 {
		t.Errorf("create called %d times, want 1", calls)
	}
}

func TestCacheEviction(t *testing.T) {
	c := New[string, int](8)

	// Fill beyond the soft limit. Entry "0" is oldest.
	for i := 0; i < 9; i++ {
		c.Set(strconv.Itoa(i), i)
	}

	// Eviction trims to 75% of the limit.
	if c.Len() != 6 {
		t.Errorf("Len = %d after eviction, want 6", c.Len())
	}

	// The oldest entries must be gone, the newest present.
	if _, ok := c.Get("0"); ok {
		t.Error("oldest entry survived eviction")
	}
	if _, ok := c.Get("8"); !ok {
		t.Error("newest entry was evicted")
	}

	if ev := c.Stats().Evictions; ev != 3 {
		t.Errorf("Evictions = %d, want 3", ev)
	}
}

func TestCacheEvictionRespectsRecency(t *testing.T) {
	c := New[string, int](4)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)
	c.Set("d", 4)

	// Touch "a" so "b" becomes the oldest.
	c.Get("a")

	c.Set("e", 5) // triggers eviction down to 3 entries

	if _, ok := c.Get("a"); !ok {
		t.Error("recently used entry was evicted")
	}
	if _, ok := c.Get("b"); ok {
		t.Error("least recently used entry survived")
	}
}

func TestCacheDelete(t *testing.T) {
	c := New[string, int](10)
	c.Set("a", 1)

	if !c.Delete("a") {
		t.Error("Delete existing entry returned false")
	}
	if c.Delete("a") {
		t.Error("Delete missing entry returned true")
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d after delete, want 0", c.Len())
	}
}

func TestCacheClear(t *testing.T) {
	c := New[string, int](10)
	c.Set("a", 1)
	c.Set("b", 2)

	c.Clear()

	if c.Len() != 0 {
		t.Errorf("Len = %d after Clear, want 0", c.Len())
	}
	if _, ok := c.Get("a"); ok {
		t.Error("entry survived Clear")
	}
}

func TestCacheUnlimited(t *testing.T) {
	c := New[string, int](0)
	for i := 0; i < 1000; i++ {
		c.Set(strconv.Itoa(i), i)
	}
	if c.Len() != 1000 {
		t.Errorf("Len = %d with no limit, want 1000", c.Len())
	}
}

func BenchmarkCacheGet(b *testing.B) {
	c := New[string, int](1000)
	for i := 0; i < 100; i++ {
		c.Set(strconv.Itoa(i), i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get("50")
	}
}

func BenchmarkCacheSet(b *testing.B) {
	c := New[string, int](1000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Set(strconv.Itoa(i%100), i)
	}
}
