// Package cache implements the fixed-capacity, stamp-keyed min-heap LRU
// cache of decompressed posting bytes that sits between the query engine
// and the sidecar's lazy posting storage.
package cache

import (
	"math"

	"github.com/biblook/go-biblook/internal/metrics"
)

// DefaultCapacity matches the original implementation's default cache
// size.
const DefaultCapacity = 8192

// Key identifies one cached posting list by its (field, word) pair.
type Key struct {
	Field string
	Word  string
}

type entry struct {
	key   Key
	data  []byte
	stamp uint64
	slot  int
}

// Cache is a fixed-capacity posting cache. It is not safe for concurrent
// use, matching the rest of this repository's single-threaded design.
type Cache struct {
	capacity int
	stamp    uint64
	heap     []*entry
	byKey    map[Key]*entry
	metrics  *metrics.Registry
}

// New constructs a Cache with the given capacity (DefaultCapacity if
// capacity <= 0) and an optional metrics registry for hit/miss/eviction
// counters.
func New(capacity int, reg *metrics.Registry) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		capacity: capacity,
		heap:     make([]*entry, 0, capacity),
		byKey:    make(map[Key]*entry, capacity),
		metrics:  reg,
	}
}

// Access returns the cached bytes for key, calling fetch to load them on a
// miss. A hit promotes the entry to the most-recently-used position; a
// miss may evict the globally oldest entry to make room.
func (c *Cache) Access(key Key, fetch func() ([]byte, error)) ([]byte, error) {
	c.checkStampOverflow()
	c.stamp++

	if e, ok := c.byKey[key]; ok {
		e.stamp = c.stamp
		c.siftDown(e.slot)
		if c.metrics != nil {
			c.metrics.CacheHits.Inc()
		}
		return e.data, nil
	}

	if c.metrics != nil {
		c.metrics.CacheMisses.Inc()
	}
	data, err := fetch()
	if err != nil {
		return nil, err
	}

	e := &entry{key: key, data: data, stamp: c.stamp}
	if len(c.heap) < c.capacity {
		e.slot = len(c.heap)
		c.heap = append(c.heap, e)
		c.byKey[key] = e
		// A freshly appended leaf carries the largest stamp seen so far,
		// which already satisfies min-heap order relative to its parent.
		return e.data, nil
	}

	evicted := c.heap[0]
	delete(c.byKey, evicted.key)
	if c.metrics != nil {
		c.metrics.CacheEvictions.Inc()
	}
	e.slot = 0
	c.heap[0] = e
	c.byKey[key] = e
	c.siftDown(0)
	return e.data, nil
}

// siftDown restores heap order downward from i after the element there has
// just grown larger (either a promoted hit or a freshly inserted root).
func (c *Cache) siftDown(i int) {
	n := len(c.heap)
	for {
		left, right := 2*i+1, 2*i+2
		smallest := i
		if left < n && c.heap[left].stamp < c.heap[smallest].stamp {
			smallest = left
		}
		if right < n && c.heap[right].stamp < c.heap[smallest].stamp {
			smallest = right
		}
		if smallest == i {
			return
		}
		c.heap[i], c.heap[smallest] = c.heap[smallest], c.heap[i]
		c.heap[i].slot = i
		c.heap[smallest].slot = smallest
		i = smallest
	}
}

// checkStampOverflow reinitializes every entry's stamp to its current heap
// position (which is already a valid ascending ordering) when the access
// counter is about to wrap, avoiding undefined ordering on overflow.
func (c *Cache) checkStampOverflow() {
	if c.stamp != math.MaxUint64 {
		return
	}
	for i, e := range c.heap {
		e.stamp = uint64(i)
	}
	c.stamp = uint64(len(c.heap))
}

// Len returns the number of postings currently resident.
func (c *Cache) Len() int { return len(c.heap) }

// Capacity returns the cache's fixed capacity.
func (c *Cache) Capacity() int { return c.capacity }
