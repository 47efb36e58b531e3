package events

import (
	"sync"

	"github.com/google/uuid"
)

type (
	// A Listener is a function that listens for events of type T.
	Listener[T any] func(T)
	// A Handle identifies a subscription.
	Handle string
)

// Publisher is the subscribe/unsubscribe/publish contract shared by the
// client components.
type Publisher[T any] interface {
	Subscribe(listener Listener[T]) Handle
	Unsubscribe(handle Handle)
	Publish(evt T)
}

// Bus is a synchronous, ordered Publisher.
//
// Bus is safe to use in its zero state and from multiple goroutines.
// Listeners run on the publishing goroutine without any Bus lock held, so a
// listener may subscribe, unsubscribe or publish again. Listeners added while
// a publish is in flight only see later events.
//
// Close drops all listeners. Subsequent calls to Subscribe and Publish are no-ops.
type Bus[T any] struct {
	mu        sync.RWMutex
	order     []Handle
	listeners map[Handle]Listener[T]
	closed    bool
}

var _ Publisher[Event] = (*Bus[Event])(nil)

// New creates a new Bus.
func New[T any]() *Bus[T] {
	return &Bus[T]{listeners: make(map[Handle]Listener[T])}
}

// Subscribe adds a listener and returns its handle.
func (b *Bus[T]) Subscribe(listener Listener[T]) Handle {
	handle := Handle(uuid.NewString())

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return handle
	}
	if b.listeners == nil {
		b.listeners = make(map[Handle]Listener[T])
	}
	b.listeners[handle] = listener
	b.order = append(b.order, handle)
	return handle
}

// Unsubscribe removes a listener. Unknown handles are ignored.
func (b *Bus[T]) Unsubscribe(handle Handle) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.listeners[handle]; !ok {
		return
	}
	delete(b.listeners, handle)
	for i, h := range b.order {
		if h == handle {
			b.order = append(b.order[:i:i], b.order[i+1:]...)
			break
		}
	}
}

// Publish delivers evt to every current listener in registration order.
// A listener removed by an earlier listener during the same publish is skipped.
func (b *Bus[T]) Publish(evt T) {
	b.mu.RLock()
	handles := make([]Handle, len(b.order))
	copy(handles, b.order)
	b.mu.RUnlock()

	for _, h := range handles {
		b.mu.RLock()
		l, ok := b.listeners[h]
		b.mu.RUnlock()
		if ok {
			l(evt)
		}
	}
}

// Len returns the number of subscribed listeners.
func (b *Bus[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.order)
}

// Close removes all listeners. It can be called multiple times safely.
func (b *Bus[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.listeners = nil
	b.order = nil
}
