package feedcache

import (
	"context"
	"errors"
	"sync"
)

// Binder applies slot-assignment events from the display-list recycler,
// keeping exactly one live subscription per bound (slot, record) pair.
//
// Bind is expected on the rendering sequence and never blocks on I/O;
// resource resolution happens asynchronously through the Coordinator.
// Render callbacks run synchronously inside Bind (for the placeholder
// delivery) and on the Coordinator's dispatcher afterwards; they must not
// call back into the Binder.
type Binder struct {
	mu    sync.Mutex
	coord *Coordinator
}

// NewBinder creates a Binder that resolves resources through coord.
func NewBinder(coord *Coordinator) (*Binder, error) {
	if coord == nil {
		return nil, errors.New("coordinator is nil")
	}
	return &Binder{coord: coord}, nil
}

// Bind assigns rec to slot as the display list recycles it.
//
// Binding the record already held by the slot is a no-op, avoiding a
// redundant resubscription. A nil rec clears the slot: the previous
// subscription is disposed and the placeholder is rendered.
//
// Rebinding tears down in strict order: the old subscription is disposed
// before the new one is created, so a stale callback can never fire into
// the slot's new state. The old record's observable slot is cleared once
// no display slot holds it and no fetch for it is in flight.
func (b *Binder) Bind(ctx context.Context, slot *Slot, rec *Record) {
	if slot == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if slot.rec == rec {
		return
	}

	if old := slot.rec; old != nil {
		slot.sub.Dispose()
		slot.sub = nil
		slot.rec = nil
		old.release()
	}

	if rec == nil {
		slot.render(nil)
		return
	}

	slot.rec = rec
	rec.retain()
	// Subscribe delivers the current value immediately: the placeholder
	// until the resource lands.
	slot.sub = rec.Subscribe(slot.render)
	b.coord.EnsureResource(ctx, rec)
}
