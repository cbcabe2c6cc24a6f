package subscription

import (
	"sync"

	"github.com/lip-protocol/lip-go/pkg/wire"
)

// Callback receives one parsed protocol event.
type Callback func(msg wire.Message)

// UnsubscribeFunc removes the subscription it was returned for. It is
// idempotent; calling it more than once is a no-op.
type UnsubscribeFunc func()

// entry pairs a callback with an identity so duplicate callbacks are
// distinct subscriptions.
type entry struct {
	id uint64
	fn Callback
}

// Registry is an ordered, mutable list of observers. It is safe for
// concurrent use.
type Registry struct {
	mu      sync.Mutex
	nextID  uint64
	entries []entry

	// onFailure is invoked with the recovered value when an observer
	// panics during dispatch.
	onFailure func(recovered any)
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// OnObserverFailure sets the callback invoked when an observer panics.
// Pass nil to silently discard failures.
func (r *Registry) OnObserverFailure(fn func(recovered any)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onFailure = fn
}

// Subscribe appends the callback to the dispatch order and returns its
// unsubscribe handle.
func (r *Registry) Subscribe(fn Callback) UnsubscribeFunc {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	id := r.nextID
	r.entries = append(r.entries, entry{id: id, fn: fn})

	return func() {
		r.remove(id)
	}
}

// remove deletes the entry with the given identity, preserving order.
func (r *Registry) remove(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, e := range r.entries {
		if e.id == id {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return
		}
	}
}

// Len returns the number of active subscriptions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Dispatch delivers the message to every currently registered observer
// synchronously, in registration order. The list is snapshotted first,
// so concurrent (un)subscription does not corrupt the iteration. An
// observer that panics does not prevent delivery to the rest.
func (r *Registry) Dispatch(msg wire.Message) {
	r.mu.Lock()
	snapshot := make([]entry, len(r.entries))
	copy(snapshot, r.entries)
	onFailure := r.onFailure
	r.mu.Unlock()

	for _, e := range snapshot {
		dispatchOne(e.fn, msg, onFailure)
	}
}

func dispatchOne(fn Callback, msg wire.Message, onFailure func(recovered any)) {
	defer func() {
		if recovered := recover(); recovered != nil && onFailure != nil {
			onFailure(recovered)
		}
	}()
	fn(msg)
}
