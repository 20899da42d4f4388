package feedcache

import (
	"context"
	"io"
	"log/slog"

	"github.com/meigma/feedcache/cache"
)

// PressureOption configures WatchPressure.
type PressureOption func(*pressureWatcher)

// WithPressureLogger sets a logger for the pressure watcher.
// If nil, a discard logger is used (default behavior).
func WithPressureLogger(logger *slog.Logger) PressureOption {
	return func(w *pressureWatcher) {
		w.logger = logger
	}
}

type pressureWatcher struct {
	logger *slog.Logger
}

func (w *pressureWatcher) log() *slog.Logger {
	if w.logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return w.logger
}

// WatchPressure evicts everything from c each time the host delivers a
// memory pressure tick on signal.
//
// The pressure notification carries no payload and needs no
// acknowledgment; eviction is silent and always succeeds, degrading the
// cache to empty rather than letting the host terminate the process. The
// watcher stops when ctx ends or signal closes; the returned channel
// closes once it has stopped.
func WatchPressure(ctx context.Context, c cache.Cache, signal <-chan struct{}, opts ...PressureOption) <-chan struct{} {
	w := &pressureWatcher{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(w)
	}

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-signal:
				if !ok {
					return
				}
				entries := c.Len()
				bytes := c.SizeBytes()
				c.EvictAll()
				w.log().Warn("memory pressure, cache evicted",
					"entries", entries, "bytes", bytes)
			}
		}
	}()
	return stopped
}
