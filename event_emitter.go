package equitywire

import (
	"sync"
)

type callback[T any] func(T)

// EventEmitterCallback is a simple event emitter mapping events (of type K)
// to listener callbacks (receiving type V). The client uses one to fan its
// lifecycle and record events out to the registered observer.
type EventEmitterCallback[K comparable, V any] struct {
	listeners map[K][]callback[V]
	lock      sync.RWMutex
	closed    bool
}

// NewEventEmitter creates a new EventEmitterCallback and returns a pointer to it.
func NewEventEmitter[K comparable, V any]() *EventEmitterCallback[K, V] {
	return &EventEmitterCallback[K, V]{
		listeners: make(map[K][]callback[V]),
	}
}

// On registers a new listener for the given event.
func (e *EventEmitterCallback[K, V]) On(event K, listener callback[V]) {
	e.lock.Lock()
	defer e.lock.Unlock()

	if e.closed {
		return
	}

	e.listeners[event] = append(e.listeners[event], listener)
}

// Emit triggers all listeners registered for the given event synchronously.
// The method returns once every listener has run. Emit does nothing after
// the emitter has been closed.
func (e *EventEmitterCallback[K, V]) Emit(event K, data V) {
	e.lock.RLock()
	defer e.lock.RUnlock()

	listeners, found := e.listeners[event]
	if !found {
		return
	}

	for _, listener := range listeners {
		listener(data)
	}
}

// Off removes every listener registered for the given event.
func (e *EventEmitterCallback[K, V]) Off(event K) {
	e.lock.Lock()
	defer e.lock.Unlock()

	delete(e.listeners, event)
}

// Close removes all listeners and rejects further registrations.
func (e *EventEmitterCallback[K, V]) Close() {
	e.lock.Lock()
	defer e.lock.Unlock()

	e.closed = true
	e.listeners = make(map[K][]callback[V])
}
