package feedcache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/feedcache/internal/testutil"
)

func TestWatchPressureEvicts(t *testing.T) {
	t.Parallel()

	c := newTestCache(t)
	require.NoError(t, c.Put("a", Bytes("aaaa")))
	require.NoError(t, c.Put("b", Bytes("bbbb")))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	signal := make(chan struct{})
	stopped := WatchPressure(ctx, c, signal)

	signal <- struct{}{}
	require.Eventually(t, func() bool { return c.Len() == 0 }, waitFor, tick)

	_, ok := c.Get("a")
	assert.False(t, ok)

	// The cache keeps working after pressure; a second tick clears the
	// re-inserted entry too.
	require.NoError(t, c.Put("a", Bytes("aaaa")))
	signal <- struct{}{}
	require.Eventually(t, func() bool { return c.Len() == 0 }, waitFor, tick)

	cancel()
	<-stopped
}

func TestWatchPressureStopsOnSignalClose(t *testing.T) {
	t.Parallel()

	c := newTestCache(t)
	signal := make(chan struct{})
	stopped := WatchPressure(context.Background(), c, signal)

	close(signal)
	<-stopped
}

func TestPressureDuringInFlightFetch(t *testing.T) {
	t.Parallel()

	c := newTestCache(t)
	require.NoError(t, c.Put("old", Bytes("stale")))

	fetcher := testutil.NewCountingFetcher(map[string][]byte{
		"z": []byte("fresh"),
	})
	fetcher.Gate()

	co, err := New(c, fetcher)
	require.NoError(t, err)

	rec := NewRecord("r1", "z")
	rec.retain()
	done := co.EnsureResource(context.Background(), rec)

	// Pressure lands while the fetch for "z" is in flight: the cache
	// empties immediately, and the fetch result is inserted into the
	// now-empty cache when it completes.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	signal := make(chan struct{})
	stopped := WatchPressure(ctx, c, signal)
	signal <- struct{}{}
	require.Eventually(t, func() bool { return c.Len() == 0 }, waitFor, tick)

	fetcher.Release()
	require.NoError(t, <-done)

	_, ok := c.Get("old")
	assert.False(t, ok)
	v, ok := c.Get("z")
	require.True(t, ok)
	assert.Equal(t, Bytes("fresh"), v)

	cancel()
	<-stopped
}
