package feedcache

import "context"

// Fetcher is the external byte-fetch primitive, keyed by resource
// identifier.
//
// The fetcher owns transport, timeout, and on-disk durability; feedcache
// does not duplicate that layer and performs no retries. Implementations
// must be safe for concurrent use.
type Fetcher interface {
	Fetch(ctx context.Context, key string) ([]byte, error)
}

// FetchFunc adapts a function to the Fetcher interface.
type FetchFunc func(ctx context.Context, key string) ([]byte, error)

// Fetch calls f.
func (f FetchFunc) Fetch(ctx context.Context, key string) ([]byte, error) {
	return f(ctx, key)
}
