// Package cache provides a small thread-safe LRU used to memoize
// expensive CPU-side work, such as image pixels rescaled to a viewport.
package cache

import (
	"container/list"
	"sync"
	"sync/atomic"
)

// DefaultCapacity is the default maximum number of entries.
const DefaultCapacity = 32

// LRU is a thread-safe fixed-capacity cache with least-recently-used
// eviction.
//
// Values are stored as-is (not copied). Callers should not modify a
// value after caching it.
type LRU[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	entries  map[K]*list.Element
	order    *list.List // front = most recently used

	// Statistics (atomic for lock-free reads)
	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

type lruEntry[K comparable, V any] struct {
	key   K
	value V
}

// NewLRU creates a cache holding at most capacity entries.
// If capacity <= 0, DefaultCapacity is used.
func NewLRU[K comparable, V any](capacity int) *LRU[K, V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &LRU[K, V]{
		capacity: capacity,
		entries:  make(map[K]*list.Element),
		order:    list.New(),
	}
}

// Get retrieves a cached value by key.
// Returns (value, true) if found, (zero, false) otherwise.
// On a hit the entry becomes the most recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		c.misses.Add(1)
		var zero V
		return zero, false
	}
	c.order.MoveToFront(el)
	c.hits.Add(1)
	return el.Value.(*lruEntry[K, V]).value, true
}

// Set stores a value, evicting the oldest entries past capacity.
func (c *LRU[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.set(key, value)
}

// GetOrCreate returns the cached value for key, calling create to build
// it on a miss. The create function runs with the cache lock held to
// prevent duplicate computation; keep it bounded.
func (c *LRU[K, V]) GetOrCreate(key K, create func() V) V {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		c.order.MoveToFront(el)
		c.hits.Add(1)
		return el.Value.(*lruEntry[K, V]).value
	}

	c.misses.Add(1)
	value := create()
	c.set(key, value)
	return value
}

// set inserts or updates an entry. Caller holds the lock.
func (c *LRU[K, V]) set(key K, value V) {
	if el, ok := c.entries[key]; ok {
		el.Value.(*lruEntry[K, V]).value = value
		c.order.MoveToFront(el)
		return
	}

	for c.order.Len() >= c.capacity {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*lruEntry[K, V]).key)
		c.evictions.Add(1)
	}

	c.entries[key] = c.order.PushFront(&lruEntry[K, V]{key: key, value: value})
}

// Delete removes an entry.
// Returns true if the entry was found and removed.
func (c *LRU[K, V]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return false
	}
	c.order.Remove(el)
	delete(c.entries, key)
	return true
}

// Clear removes all entries.
func (c *LRU[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[K]*list.Element)
	c.order.Init()
}

// Len returns the current number of entries.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Capacity returns the maximum number of entries.
func (c *LRU[K, V]) Capacity() int {
	return c.capacity
}

// Stats holds cache counters.
type Stats struct {
	Len       int
	Capacity  int
	Hits      uint64
	Misses    uint64
	Evictions uint64
	HitRate   float64
}

// Stats returns current cache statistics.
func (c *LRU[K, V]) Stats() Stats {
	hits := c.hits.Load()
	misses := c.misses.Load()

	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return Stats{
		Len:       c.Len(),
		Capacity:  c.capacity,
		Hits:      hits,
		Misses:    misses,
		Evictions: c.evictions.Load(),
		HitRate:   hitRate,
	}
}

// ResetStats resets all statistics counters to zero.
func (c *LRU[K, V]) ResetStats() {
	c.hits.Store(0)
	c.misses.Store(0)
	c.evictions.Store(0)
}
