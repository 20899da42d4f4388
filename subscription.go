package feedcache

import "sync"

// RenderFunc receives observable slot updates for a display slot. A nil
// resource means absent: the slot should show its placeholder.
type RenderFunc func(res Resource)

// Subscription is the live notification link from a record's observable
// resource slot to a display slot's render callback.
//
// A subscription is either active or disposed. Dispose is idempotent and
// irreversible; once it returns, the callback is never invoked again.
type Subscription struct {
	mu       sync.Mutex
	rec      *Record
	fn       RenderFunc
	disposed bool
}

// Dispose detaches the subscription from its record. Calling Dispose more
// than once is a no-op.
func (s *Subscription) Dispose() {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	s.disposed = true
	rec := s.rec
	s.rec = nil
	s.fn = nil
	s.mu.Unlock()

	rec.unsubscribe(s)
}

// Disposed reports whether the subscription has been disposed.
func (s *Subscription) Disposed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disposed
}

func (s *Subscription) invoke(res Resource) {
	s.mu.Lock()
	fn := s.fn
	s.mu.Unlock()

	if fn != nil {
		fn(res)
	}
}
