package feedcache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/meigma/feedcache/cache"
)

const defaultPrefetchWorkers = 4

// Coordinator resolves resources for records: it consults the bounded
// cache before the external fetch primitive, deduplicates concurrent
// fetches for the same identifier, and delivers completions on the
// configured Dispatcher.
//
// The cache instance is injected at construction and shared by every
// record the coordinator serves. Coordinator uses singleflight so that a
// cache-miss storm for one identifier issues a single fetch; late callers
// attach to the in-flight result instead of re-entering the fetch.
type Coordinator struct {
	cache      cache.Cache
	fetcher    Fetcher
	decoder    Decoder
	dispatcher Dispatcher
	logger     *slog.Logger

	fetchGroup      singleflight.Group
	prefetchWorkers int

	mu       sync.Mutex
	inflight map[string]int // identifier -> outstanding EnsureResource fetches
}

// New creates a Coordinator using the given cache and fetch primitive.
func New(c cache.Cache, f Fetcher, opts ...Option) (*Coordinator, error) {
	if c == nil {
		return nil, errors.New("cache is nil")
	}
	if f == nil {
		return nil, errors.New("fetcher is nil")
	}
	co := &Coordinator{
		cache:      c,
		fetcher:    f,
		decoder:    RawDecoder(),
		dispatcher: inlineDispatcher{},
		inflight:   make(map[string]int),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(co)
	}
	return co, nil
}

func (co *Coordinator) log() *slog.Logger {
	if co.logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return co.logger
}

// EnsureResource makes rec's resource available: synchronously when the
// cache holds it, otherwise through an asynchronous fetch shared by all
// concurrent callers for the same identifier. Idempotent per record while
// a fetch is outstanding.
//
// The returned channel is buffered and receives exactly one value: nil on
// success or the fetch/decode error. Errors are surfaced to every waiter
// attached to the same flight; no retry is performed here.
//
// On success the resource is stored in the cache regardless of display
// state. The record's observable slot is updated on the Dispatcher, and
// only while the record is still bound and not invalidated.
func (co *Coordinator) EnsureResource(ctx context.Context, rec *Record) <-chan error {
	done := make(chan error, 1)
	if rec == nil {
		done <- ErrNilRecord
		return done
	}
	key := rec.Key()

	// Fast path: a cache hit resolves synchronously on the calling
	// sequence with no fetch (cache lookups never trigger I/O).
	if v, ok := co.cache.Get(key); ok {
		if res, ok := v.(Resource); ok {
			co.log().Debug("cache hit", "key", key)
			rec.setResource(res)
			done <- nil
			return done
		}
	}

	co.log().Debug("cache miss", "key", key)
	rec.pinFetch()
	co.addInflight(key)

	ch := co.fetchGroup.DoChan(key, co.flight(ctx, key))

	go func() {
		r := <-ch
		co.dispatcher.Post(func() {
			co.removeInflight(key)
			if r.Err != nil {
				co.log().Debug("fetch failed", "key", key, "error", r.Err)
				rec.completeFetch(nil)
				done <- r.Err
				return
			}
			res, _ := r.Val.(Resource) //nolint:errcheck // flight only returns Resource
			rec.completeFetch(res)
			done <- nil
		})
	}()
	return done
}

// flight returns the singleflight body for key: fetch, decode, and cache.
func (co *Coordinator) flight(ctx context.Context, key string) func() (any, error) {
	return func() (any, error) {
		// Double-check the cache: another flight may have completed
		// between the miss and entering this one.
		if v, ok := co.cache.Get(key); ok {
			if res, ok := v.(Resource); ok {
				return res, nil
			}
		}

		data, err := co.fetcher.Fetch(ctx, key)
		if err != nil {
			return nil, err
		}

		res, err := co.decoder.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecode, err)
		}

		// Cache population is unconditional on success; whether the
		// record is still displayed is irrelevant here.
		_ = co.cache.Put(key, res) //nolint:errcheck // caching is opportunistic
		return res, nil
	}
}

// Prefetch warms the cache for the given identifiers without touching any
// record. Already-cached identifiers are skipped; in-flight fetches are
// joined rather than duplicated. Returns the first fetch or decode error.
func (co *Coordinator) Prefetch(ctx context.Context, keys ...string) error {
	g, ctx := errgroup.WithContext(ctx)
	workers := co.prefetchWorkers
	if workers <= 0 {
		workers = defaultPrefetchWorkers
	}
	g.SetLimit(workers)

	for _, key := range keys {
		if _, ok := co.cache.Get(key); ok {
			continue
		}
		key := key
		g.Go(func() error {
			_, err, _ := co.fetchGroup.Do(key, co.flight(ctx, key))
			return err
		})
	}
	return g.Wait()
}

// InFlight reports whether an EnsureResource fetch for key is
// outstanding.
func (co *Coordinator) InFlight(key string) bool {
	co.mu.Lock()
	defer co.mu.Unlock()
	return co.inflight[key] > 0
}

func (co *Coordinator) addInflight(key string) {
	co.mu.Lock()
	co.inflight[key]++
	co.mu.Unlock()
}

func (co *Coordinator) removeInflight(key string) {
	co.mu.Lock()
	if n := co.inflight[key]; n <= 1 {
		delete(co.inflight, key)
	} else {
		co.inflight[key] = n - 1
	}
	co.mu.Unlock()
}
