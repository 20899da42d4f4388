package feedcache

// Slot is one of the display list's recycled positions. At most one
// record is bound to a slot at any instant; the Binder owns the pairing
// and the slot's active subscription.
type Slot struct {
	id     int
	render RenderFunc

	// Managed by Binder under its lock.
	rec *Record
	sub *Subscription
}

// NewSlot creates a slot with the given identity and render callback. A
// nil callback is replaced with a no-op.
func NewSlot(id int, render RenderFunc) *Slot {
	if render == nil {
		render = func(Resource) {}
	}
	return &Slot{id: id, render: render}
}

// ID returns the slot's identity.
func (s *Slot) ID() int {
	return s.id
}

// Record returns the currently bound record, or nil when the slot is
// empty.
func (s *Slot) Record() *Record {
	return s.rec
}
