// Package feedcache manages the resource lifecycle behind a recycled
// display list: a small fixed number of visual slots rotating over an
// unbounded stream of records, each record owning a large decoded resource
// and a live subscription to its updates.
//
// Three pieces compose the package:
//
//   - A bounded resource cache (cache, cache/memory) holding decoded
//     resources under an LRU policy, with a byte or entry budget and an
//     EvictAll entry point for host memory pressure.
//   - A Coordinator that resolves a record's resource, consulting the
//     cache before the external fetch primitive and deduplicating
//     concurrent fetches for the same identifier.
//   - A Binder that applies slot-assignment events from the display-list
//     recycler, tearing down the previous record's subscription before
//     creating the next one and clearing resources exactly when a record
//     stops being displayed.
//
// The cache is constructed explicitly and injected into the Coordinator;
// there is no package-level shared state. Fetch completions are delivered
// through a Dispatcher so that record and slot state is only ever mutated
// on the rendering sequence.
package feedcache
