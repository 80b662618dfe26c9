package shortcut

import (
	"sync"
)

// Handler reacts to a key event and reports whether it consumed it
type Handler func(Event) bool

// Dispatcher fans key events out to subscribed handlers in subscription order.
//
// Thread Safety:
// Dispatcher is safe for concurrent use. Handlers run without the lock held,
// so a handler may subscribe or close subscriptions.
type Dispatcher struct {
	mu       sync.RWMutex
	nextID   uint64
	order    []uint64
	handlers map[uint64]Handler
}

// NewDispatcher creates an empty dispatcher
func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[uint64]Handler)}
}

// Subscribe registers a handler until the returned subscription is closed
func (d *Dispatcher) Subscribe(h Handler) *Subscription {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextID++
	id := d.nextID
	d.handlers[id] = h
	d.order = append(d.order, id)
	return &Subscription{dispatcher: d, id: id}
}

// Dispatch delivers the event to handlers until one consumes it.
// It returns true when the event was consumed.
func (d *Dispatcher) Dispatch(e Event) bool {
	d.mu.RLock()
	handlers := make([]Handler, 0, len(d.order))
	for _, id := range d.order {
		handlers = append(handlers, d.handlers[id])
	}
	d.mu.RUnlock()

	for _, h := range handlers {
		if h(e) {
			return true
		}
	}
	return false
}

// Len returns the number of live subscriptions
func (d *Dispatcher) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.order)
}

func (d *Dispatcher) remove(id uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.handlers[id]; !ok {
		return
	}
	delete(d.handlers, id)
	for i, existing := range d.order {
		if existing == id {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
}

// Subscription is a registered handler. Close releases it.
type Subscription struct {
	dispatcher *Dispatcher
	id         uint64
	once       sync.Once
}

// Close unregisters the handler. Calling Close more than once is a no-op.
func (s *Subscription) Close() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		s.dispatcher.remove(s.id)
	})
}
