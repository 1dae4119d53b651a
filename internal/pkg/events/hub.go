package events

import (
	"sync"
)

// Hub fans events out from one producer to any number of subscribers.
// Delivery is non-blocking: a subscriber that stops draining its channel
// loses events instead of stalling the producer.
type Hub[T any] struct {
	mu          sync.RWMutex
	subscribers map[chan T]struct{}
}

// NewHub creates a new Hub instance.
func NewHub[T any]() *Hub[T] {
	return &Hub[T]{
		subscribers: make(map[chan T]struct{}),
	}
}

// Subscribe registers a new subscriber and returns the event channel and
// cleanup function.
func (h *Hub[T]) Subscribe() (chan T, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan T, 16)
	h.subscribers[ch] = struct{}{}

	cleanup := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subscribers[ch]; !ok {
			return
		}
		delete(h.subscribers, ch)
		close(ch)
	}

	return ch, cleanup
}

// Publish sends an event to all subscribers.
func (h *Hub[T]) Publish(event T) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers {
		select {
		case ch <- event:
		default:
			// Skip if channel is full (non-blocking to prevent deadlock)
		}
	}
}

// SubscriberCount returns the number of active subscribers.
func (h *Hub[T]) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
