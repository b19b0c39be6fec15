package notifier

import (
	"sync"

	"github.com/Domenick1991/skybooking/internal/domain"
)

type Listener func(domain.BookingUpdateEvent)

// Notifier fans booking lifecycle events out to per-booking listener lists.
// Delivery is synchronous, in registration order, and best-effort: an event
// emitted while nobody listens is dropped, never replayed.
type Notifier struct {
	mu        sync.Mutex
	nextID    int
	listeners map[string][]entry
}

type entry struct {
	id int
	fn Listener
}

func New() *Notifier {
	return &Notifier{listeners: make(map[string][]entry)}
}

// Subscribe registers a listener for one booking and returns a function
// that removes exactly that listener.
func (n *Notifier) Subscribe(bookingID string, fn Listener) (unsubscribe func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.nextID++
	id := n.nextID
	n.listeners[bookingID] = append(n.listeners[bookingID], entry{id: id, fn: fn})

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		remaining := n.listeners[bookingID][:0]
		for _, e := range n.listeners[bookingID] {
			if e.id != id {
				remaining = append(remaining, e)
			}
		}
		if len(remaining) == 0 {
			delete(n.listeners, bookingID)
			return
		}
		n.listeners[bookingID] = remaining
	}
}

func (n *Notifier) Emit(event domain.BookingUpdateEvent) {
	n.mu.Lock()
	current := append([]entry(nil), n.listeners[event.BookingID]...)
	n.mu.Unlock()

	// Deliver outside the lock so a listener may subscribe or unsubscribe.
	for _, e := range current {
		e.fn(event)
	}
}
