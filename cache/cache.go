// Package cache defines the bounded resource cache contract used by
// feedcache.
//
// Keys are resource identifiers supplied by the data layer. Values are
// decoded resources, accounted for by their in-memory size. The cache is a
// pure key/value store: a lookup never triggers a fetch, and absence is a
// normal outcome rather than a failure.
//
// Implementations handle their own budgets and eviction policies and must
// be safe for concurrent use, including EvictAll arriving from a memory
// pressure signal on an arbitrary goroutine.
package cache

// Value is anything the cache can account for by size.
type Value interface {
	// SizeBytes returns the in-memory size of the value in bytes.
	SizeBytes() int64
}

// Cache provides bounded storage for decoded resources.
type Cache interface {
	// Get returns the cached value for key, refreshing its recency.
	// Returns nil, false if the key is not cached.
	Get(key string) (Value, bool)

	// Put stores a value under key, overwriting any existing entry and
	// evicting older entries as needed to stay within budget. A value
	// that alone exceeds the budget is dropped without error; caching
	// is opportunistic.
	Put(key string, v Value) error

	// Delete removes the entry for key. Missing entries are a no-op.
	Delete(key string) error

	// EvictAll drops every entry. This is the memory-pressure entry
	// point: it must be safe to call concurrently with Get and Put and
	// it never fails. An empty cache is a valid state, not a fault.
	EvictAll()

	// MaxBytes returns the configured byte budget (0 = unlimited).
	MaxBytes() int64

	// SizeBytes returns the current total size of cached values.
	SizeBytes() int64

	// Len returns the current entry count.
	Len() int

	// Prune evicts entries until the cache is at or below targetBytes.
	// Returns the number of bytes freed.
	Prune(targetBytes int64) (int64, error)
}
