package feedcache

import "sync"

// Dispatcher delivers functions onto the rendering sequence.
//
// Fetch completions never mutate record or slot state from the fetch
// goroutine; the Coordinator posts them through its Dispatcher instead.
// The default dispatcher runs callbacks inline on the completing
// goroutine, which is only safe when the caller serializes access
// externally (tests, single-goroutine hosts). Hosts with a real UI loop
// should post into it, or use a Sequence.
type Dispatcher interface {
	Post(fn func())
}

// DispatcherFunc adapts a function to the Dispatcher interface.
type DispatcherFunc func(fn func())

// Post calls f.
func (f DispatcherFunc) Post(fn func()) {
	f(fn)
}

// inlineDispatcher runs callbacks on the calling goroutine.
type inlineDispatcher struct{}

func (inlineDispatcher) Post(fn func()) {
	fn()
}

const sequenceQueueDepth = 128

// Sequence is a serial Dispatcher backed by a single goroutine, modeling
// the UI thread: posted functions run one at a time in post order.
type Sequence struct {
	mu     sync.Mutex
	fns    chan func()
	done   chan struct{}
	closed bool
}

// NewSequence starts a sequence and returns it ready for Post.
func NewSequence() *Sequence {
	s := &Sequence{
		fns:  make(chan func(), sequenceQueueDepth),
		done: make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *Sequence) run() {
	defer close(s.done)
	for fn := range s.fns {
		fn()
	}
}

// Post queues fn for execution on the sequence. Posting to a closed
// sequence is a no-op. Post blocks while the queue is full.
func (s *Sequence) Post(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.fns <- fn
}

// Close stops the sequence after draining already-queued functions and
// waits for the drain to finish. Close is idempotent.
func (s *Sequence) Close() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.fns)
	}
	s.mu.Unlock()

	<-s.done
}
