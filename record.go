package feedcache

import "sync"

// Record pairs a stable identity with an observable resource slot.
//
// The data layer creates records; feedcache mutates only the observable
// slot. The slot holds a resource only while the record is bound to at
// least one display slot or a fetch for it is in flight — once both counts
// reach zero the slot is cleared, releasing the resource reference. The
// cache keeps its own copy independently of display state.
//
// A record displayed in several slots at once is handled by reference
// counting rather than assumed away: each bound slot retains the record,
// and the slot value survives until the last one releases it.
type Record struct {
	id  string
	key string

	mu      sync.Mutex
	res     Resource
	subs    map[*Subscription]struct{}
	bound   int // display slots currently bound to this record
	fetches int // fetches currently in flight for this record
	invalid bool
}

// NewRecord creates a record with the given stable identity and resource
// key. The key is the identifier handed to the cache and the fetch
// primitive, typically derived from the record's backing file name.
func NewRecord(id, key string) *Record {
	return &Record{
		id:   id,
		key:  key,
		subs: make(map[*Subscription]struct{}),
	}
}

// ID returns the record's stable identity.
func (r *Record) ID() string {
	return r.id
}

// Key returns the resource identifier used for cache and fetch lookups.
func (r *Record) Key() string {
	return r.key
}

// Resource returns the current contents of the observable slot, or nil
// when empty.
func (r *Record) Resource() Resource {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.res
}

// Invalidate marks the record as deleted upstream. The observable slot is
// cleared and all later resource updates become no-ops. Irreversible.
func (r *Record) Invalidate() {
	r.mu.Lock()
	r.invalid = true
	cleared := r.res != nil
	r.res = nil
	subs := r.subsLocked()
	r.mu.Unlock()

	if cleared {
		notifyAll(subs, nil)
	}
}

// Invalidated reports whether Invalidate has been called.
func (r *Record) Invalidated() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.invalid
}

// Subscribe attaches fn to the observable slot. The current value is
// delivered immediately (nil meaning "show placeholder"), then on every
// change until the returned handle is disposed.
func (r *Record) Subscribe(fn RenderFunc) *Subscription {
	s := &Subscription{rec: r, fn: fn}
	r.mu.Lock()
	r.subs[s] = struct{}{}
	cur := r.res
	r.mu.Unlock()

	s.invoke(cur)
	return s
}

func (r *Record) unsubscribe(s *Subscription) {
	r.mu.Lock()
	delete(r.subs, s)
	r.mu.Unlock()
}

// retain marks the record as bound to one more display slot.
func (r *Record) retain() {
	r.mu.Lock()
	r.bound++
	r.mu.Unlock()
}

// release drops one display binding. When no slot holds the record and no
// fetch is in flight, the observable slot is cleared.
func (r *Record) release() {
	r.mu.Lock()
	if r.bound > 0 {
		r.bound--
	}
	if r.bound > 0 || r.fetches > 0 || r.res == nil {
		r.mu.Unlock()
		return
	}
	r.res = nil
	subs := r.subsLocked()
	r.mu.Unlock()

	notifyAll(subs, nil)
}

// pinFetch marks a fetch for the record as in flight, keeping the slot
// value alive until completeFetch.
func (r *Record) pinFetch() {
	r.mu.Lock()
	r.fetches++
	r.mu.Unlock()
}

// completeFetch unpins one fetch and applies its result. The slot is
// written only when the record is still bound somewhere and not
// invalidated; a record that lost its last binding while the fetch was in
// flight ends up cleared (the cache may still hold the resource). A nil
// res (failed fetch) never overwrites the slot.
func (r *Record) completeFetch(res Resource) {
	r.mu.Lock()
	if r.fetches > 0 {
		r.fetches--
	}

	var notify Resource
	doNotify := false
	switch {
	case r.invalid:
		// Torn down; Invalidate already cleared the slot.
	case r.bound == 0:
		if r.fetches == 0 && r.res != nil {
			r.res = nil
			doNotify = true
		}
	case res != nil:
		r.res = res
		notify = res
		doNotify = true
	}
	subs := r.subsLocked()
	r.mu.Unlock()

	if doNotify {
		notifyAll(subs, notify)
	}
}

// setResource applies a synchronously resolved resource (cache hit). Like
// completeFetch it only writes while the record is bound and valid.
func (r *Record) setResource(res Resource) {
	r.mu.Lock()
	if r.invalid || r.bound == 0 {
		r.mu.Unlock()
		return
	}
	r.res = res
	subs := r.subsLocked()
	r.mu.Unlock()

	notifyAll(subs, res)
}

// subsLocked snapshots the subscriber set. Caller must hold r.mu;
// callbacks are invoked after the lock is released.
func (r *Record) subsLocked() []*Subscription {
	if len(r.subs) == 0 {
		return nil
	}
	subs := make([]*Subscription, 0, len(r.subs))
	for s := range r.subs {
		subs = append(subs, s)
	}
	return subs
}

func notifyAll(subs []*Subscription, res Resource) {
	for _, s := range subs {
		s.invoke(res)
	}
}
