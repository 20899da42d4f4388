package memory

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sized is a minimal cache.Value for tests.
type sized struct {
	name string
	size int64
}

func (s sized) SizeBytes() int64 { return s.size }

func TestNewValidation(t *testing.T) {
	t.Parallel()

	_, err := New(WithMaxBytes(-1))
	require.Error(t, err)

	_, err = New(WithMaxEntries(-1))
	require.Error(t, err)

	c, err := New()
	require.NoError(t, err)
	assert.Equal(t, int64(0), c.MaxBytes())
	assert.Equal(t, 0, c.Len())
}

func TestGetMiss(t *testing.T) {
	t.Parallel()

	c, err := New()
	require.NoError(t, err)

	v, ok := c.Get("missing")
	assert.False(t, ok)
	assert.Nil(t, v)
}

func TestPutGet(t *testing.T) {
	t.Parallel()

	c, err := New(WithMaxBytes(100))
	require.NoError(t, err)

	require.NoError(t, c.Put("a", sized{name: "a", size: 10}))

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "a", v.(sized).name)
	assert.Equal(t, int64(10), c.SizeBytes())
	assert.Equal(t, 1, c.Len())
}

func TestEntryBudgetEvictsOldest(t *testing.T) {
	t.Parallel()

	// Budget of two entries: inserting a, b, c with no intervening Get
	// must leave {b, c}.
	c, err := New(WithMaxEntries(2))
	require.NoError(t, err)

	require.NoError(t, c.Put("a", sized{size: 1}))
	require.NoError(t, c.Put("b", sized{size: 1}))
	require.NoError(t, c.Put("c", sized{size: 1}))

	_, ok := c.Get("a")
	assert.False(t, ok, "a should have been evicted")
	_, ok = c.Get("b")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
	assert.Equal(t, 2, c.Len())
}

func TestByteBudgetNeverExceeded(t *testing.T) {
	t.Parallel()

	c, err := New(WithMaxBytes(100))
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		require.NoError(t, c.Put(fmt.Sprintf("k%d", i), sized{size: 40}))
		assert.LessOrEqual(t, c.SizeBytes(), int64(100))
	}
	assert.Equal(t, 2, c.Len())
}

func TestGetRefreshesRecency(t *testing.T) {
	t.Parallel()

	c, err := New(WithMaxEntries(2))
	require.NoError(t, err)

	require.NoError(t, c.Put("a", sized{size: 1}))
	require.NoError(t, c.Put("b", sized{size: 1}))

	// Touch a so b becomes the eviction candidate.
	_, ok := c.Get("a")
	require.True(t, ok)

	require.NoError(t, c.Put("c", sized{size: 1}))

	_, ok = c.Get("a")
	assert.True(t, ok, "recently used entry should survive")
	_, ok = c.Get("b")
	assert.False(t, ok)
}

func TestOverwriteSameKey(t *testing.T) {
	t.Parallel()

	c, err := New(WithMaxBytes(100))
	require.NoError(t, err)

	require.NoError(t, c.Put("a", sized{name: "old", size: 30}))
	require.NoError(t, c.Put("a", sized{name: "new", size: 50}))

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "new", v.(sized).name)
	assert.Equal(t, int64(50), c.SizeBytes())
	assert.Equal(t, 1, c.Len())
}

func TestOversizedValueRejected(t *testing.T) {
	t.Parallel()

	c, err := New(WithMaxBytes(10))
	require.NoError(t, err)

	require.NoError(t, c.Put("big", sized{size: 11}))
	_, ok := c.Get("big")
	assert.False(t, ok)
	assert.Equal(t, int64(0), c.SizeBytes())

	// Overwriting an existing entry with an oversized value must not
	// leave the stale value behind.
	require.NoError(t, c.Put("a", sized{name: "old", size: 5}))
	require.NoError(t, c.Put("a", sized{size: 11}))
	_, ok = c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestPutNilValue(t *testing.T) {
	t.Parallel()

	c, err := New()
	require.NoError(t, err)
	require.Error(t, c.Put("a", nil))
}

func TestDelete(t *testing.T) {
	t.Parallel()

	c, err := New()
	require.NoError(t, err)

	require.NoError(t, c.Delete("missing"))

	require.NoError(t, c.Put("a", sized{size: 10}))
	require.NoError(t, c.Delete("a"))

	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, int64(0), c.SizeBytes())
}

func TestEvictAll(t *testing.T) {
	t.Parallel()

	c, err := New(WithMaxBytes(100))
	require.NoError(t, err)

	require.NoError(t, c.Put("a", sized{size: 10}))
	require.NoError(t, c.Put("b", sized{size: 10}))

	c.EvictAll()

	_, ok := c.Get("a")
	assert.False(t, ok)
	_, ok = c.Get("b")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, int64(0), c.SizeBytes())

	// An empty cache is a valid state; re-insertion works normally.
	require.NoError(t, c.Put("a", sized{size: 10}))
	_, ok = c.Get("a")
	assert.True(t, ok)
}

func TestPrune(t *testing.T) {
	t.Parallel()

	c, err := New()
	require.NoError(t, err)

	require.NoError(t, c.Put("a", sized{size: 30}))
	require.NoError(t, c.Put("b", sized{size: 30}))
	require.NoError(t, c.Put("c", sized{size: 30}))

	freed, err := c.Prune(40)
	require.NoError(t, err)
	assert.Equal(t, int64(60), freed)
	assert.Equal(t, int64(30), c.SizeBytes())

	// Least recently used entries go first.
	_, ok := c.Get("a")
	assert.False(t, ok)
	_, ok = c.Get("b")
	assert.False(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)

	freed, err = c.Prune(-5)
	require.NoError(t, err)
	assert.Equal(t, int64(30), freed)
	assert.Equal(t, 0, c.Len())
}

func TestConcurrentAccess(t *testing.T) {
	t.Parallel()

	c, err := New(WithMaxBytes(1000))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				key := fmt.Sprintf("k%d", j%10)
				switch {
				case j%17 == 0:
					c.EvictAll()
				case j%5 == 0:
					c.Get(key)
				default:
					_ = c.Put(key, sized{size: int64(i + 1)})
				}
			}
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, c.SizeBytes(), int64(1000))
}
