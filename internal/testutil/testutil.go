// Package testutil provides shared fakes for feedcache tests.
package testutil

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by fetch fakes for unknown identifiers.
var ErrNotFound = errors.New("not found")

// CountingFetcher serves bytes from a map and counts Fetch calls per
// identifier. Safe for concurrent use.
type CountingFetcher struct {
	mu    sync.Mutex
	data  map[string][]byte
	err   error
	calls map[string]int
	gate  chan struct{}
}

// NewCountingFetcher returns a fetcher serving the provided identifiers.
func NewCountingFetcher(data map[string][]byte) *CountingFetcher {
	return &CountingFetcher{
		data:  data,
		calls: make(map[string]int),
	}
}

// FailWith makes every subsequent Fetch return err.
func (f *CountingFetcher) FailWith(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

// Gate installs a barrier: Fetch blocks until Release (or context
// cancellation) after recording the call. Lets tests hold fetches in
// flight deterministically.
func (f *CountingFetcher) Gate() {
	f.mu.Lock()
	f.gate = make(chan struct{})
	f.mu.Unlock()
}

// Release opens the gate installed by Gate.
func (f *CountingFetcher) Release() {
	f.mu.Lock()
	gate := f.gate
	f.gate = nil
	f.mu.Unlock()
	if gate != nil {
		close(gate)
	}
}

// Fetch implements the fetch primitive.
func (f *CountingFetcher) Fetch(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	f.calls[key]++
	gate := f.gate
	err := f.err
	data, ok := f.data[key]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return data, nil
}

// Calls returns how many times key was fetched.
func (f *CountingFetcher) Calls(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key]
}

// TotalCalls returns the total number of Fetch invocations.
func (f *CountingFetcher) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}
