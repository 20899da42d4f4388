package feedcache

import "log/slog"

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithDecoder sets the decoder applied to fetched bytes. The default
// passes bytes through unchanged; photo feeds typically use
// imageres.Decoder.
func WithDecoder(d Decoder) Option {
	return func(co *Coordinator) {
		if d != nil {
			co.decoder = d
		}
	}
}

// WithDispatcher sets the dispatcher that delivers fetch completions onto
// the rendering sequence. The default runs completions inline on the
// fetch goroutine.
func WithDispatcher(d Dispatcher) Option {
	return func(co *Coordinator) {
		if d != nil {
			co.dispatcher = d
		}
	}
}

// WithLogger sets a logger for the coordinator.
// If nil, a discard logger is used (default behavior).
func WithLogger(logger *slog.Logger) Option {
	return func(co *Coordinator) {
		co.logger = logger
	}
}

// WithPrefetchConcurrency sets the number of workers used by Prefetch.
// Values <= 0 use the default.
func WithPrefetchConcurrency(workers int) Option {
	return func(co *Coordinator) {
		co.prefetchWorkers = workers
	}
}
