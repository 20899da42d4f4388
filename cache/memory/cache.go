// Package memory provides an in-memory LRU cache implementation.
package memory

import (
	"container/list"
	"errors"
	"sync"

	"github.com/meigma/feedcache/cache"
)

// Cache implements cache.Cache with least-recently-used eviction.
//
// Recency is refreshed on both Get and Put. Budgets are enforced on Put:
// the least recently used entries are evicted until the new entry fits. A
// value larger than the entire byte budget is dropped without error.
//
// EvictAll may be called at any time from any goroutine, including
// concurrently with Get and Put; the index is guarded by a single mutex.
type Cache struct {
	mu         sync.Mutex
	maxBytes   int64
	maxEntries int
	size       int64
	entries    map[string]*list.Element
	order      *list.List // front = most recently used
}

// Interface compliance.
var _ cache.Cache = (*Cache)(nil)

type entry struct {
	key   string
	value cache.Value
	size  int64
}

// Option configures a Cache.
type Option func(*Cache)

// WithMaxBytes sets the total byte budget. Zero means unlimited.
func WithMaxBytes(n int64) Option {
	return func(c *Cache) {
		c.maxBytes = n
	}
}

// WithMaxEntries sets the entry-count budget. Zero means unlimited.
func WithMaxEntries(n int) Option {
	return func(c *Cache) {
		c.maxEntries = n
	}
}

// New creates an empty in-memory cache.
func New(opts ...Option) (*Cache, error) {
	c := &Cache{
		entries: make(map[string]*list.Element),
		order:   list.New(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(c)
	}
	if c.maxBytes < 0 {
		return nil, errors.New("byte budget must be >= 0")
	}
	if c.maxEntries < 0 {
		return nil, errors.New("entry budget must be >= 0")
	}
	return c, nil
}

// Get returns the cached value for key and promotes it to most recently
// used. Returns nil, false on a miss; a miss never triggers a fetch.
func (c *Cache) Get(key string) (cache.Value, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*entry).value, true //nolint:errcheck // type is guaranteed by Put
}

// Put stores v under key. An existing entry for the same key is
// overwritten and promoted. Older entries are evicted until the budgets
// hold; a value that alone exceeds the byte budget is dropped.
func (c *Cache) Put(key string, v cache.Value) error {
	if v == nil {
		return errors.New("value is nil")
	}
	size := v.SizeBytes()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxBytes > 0 && size > c.maxBytes {
		// Cannot fit even in an empty cache. Remove any stale entry for
		// the key so a lookup does not return the overwritten value.
		if elem, ok := c.entries[key]; ok {
			c.removeLocked(elem)
		}
		return nil
	}

	if elem, ok := c.entries[key]; ok {
		ent := elem.Value.(*entry) //nolint:errcheck // type is guaranteed
		c.size += size - ent.size
		ent.value = v
		ent.size = size
		c.order.MoveToFront(elem)
		c.evictToBudgetLocked()
		return nil
	}

	c.size += size
	c.entries[key] = c.order.PushFront(&entry{key: key, value: v, size: size})
	c.evictToBudgetLocked()
	return nil
}

// Delete removes the entry for key. Missing entries are a no-op.
func (c *Cache) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		c.removeLocked(elem)
	}
	return nil
}

// EvictAll drops every entry. Invoked on host memory pressure; an empty
// cache is a valid state.
func (c *Cache) EvictAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*list.Element)
	c.order.Init()
	c.size = 0
}

// MaxBytes returns the configured byte budget (0 = unlimited).
func (c *Cache) MaxBytes() int64 {
	return c.maxBytes
}

// SizeBytes returns the current total size of cached values.
func (c *Cache) SizeBytes() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// Len returns the current entry count.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Prune evicts least-recently-used entries until the cache holds at most
// targetBytes. Returns the number of bytes freed.
func (c *Cache) Prune(targetBytes int64) (int64, error) {
	if targetBytes < 0 {
		targetBytes = 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var freed int64
	for c.size > targetBytes {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		freed += oldest.Value.(*entry).size //nolint:errcheck // type is guaranteed
		c.removeLocked(oldest)
	}
	return freed, nil
}

// evictToBudgetLocked evicts from the LRU end until both budgets hold.
// Caller must hold c.mu.
func (c *Cache) evictToBudgetLocked() {
	for (c.maxBytes > 0 && c.size > c.maxBytes) ||
		(c.maxEntries > 0 && c.order.Len() > c.maxEntries) {
		oldest := c.order.Back()
		if oldest == nil {
			return
		}
		c.removeLocked(oldest)
	}
}

// removeLocked removes an element from both the list and map.
// Caller must hold c.mu.
func (c *Cache) removeLocked(elem *list.Element) {
	ent := elem.Value.(*entry) //nolint:errcheck // type is guaranteed
	c.order.Remove(elem)
	delete(c.entries, ent.key)
	c.size -= ent.size
}
