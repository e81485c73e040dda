// Package cache provides a generic recency-tracking cache primitive.
//
// # Cache[K, V]
//
// A bounded map with counter-based LRU eviction. Every access stamps the
// entry with a monotonic tick; when the entry count exceeds the soft
// limit, the oldest quarter of entries is evicted in one pass. The
// counter approach avoids linked-list bookkeeping entirely: recency is
// just an integer comparison.
//
//	c := cache.New[string, int](100)
//	c.Set("key", 42)
//	value, ok := c.Get("key")
//
// # Thread Safety
//
// Cache performs no internal locking. All callers in this module run the
// cache on a single frame thread; a host that wants cross-goroutine
// access must serialize it externally.
package cache
