package httpserver

import "sync"

// Hub fans the latest visitor count out to stream subscribers. Each
// subscriber holds at most one pending value; a slow reader only ever sees
// the newest count.
type Hub struct {
	mu     sync.Mutex
	subs   map[chan int64]struct{}
	closed bool
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[chan int64]struct{})}
}

// Subscribe registers a listener. The cancel func must be called when done.
func (h *Hub) Subscribe() (<-chan int64, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan int64, 1)
	if h.closed {
		close(ch)
		return ch, func() {}
	}
	h.subs[ch] = struct{}{}
	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
	}
}

// Publish delivers count to every subscriber without blocking.
func (h *Hub) Publish(count int64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs {
		select {
		case ch <- count:
		default:
			// Replace the stale pending value.
			select {
			case <-ch:
			default:
			}
			ch <- count
		}
	}
}

// Subscribers returns the number of live subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close ends every subscription.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for ch := range h.subs {
		delete(h.subs, ch)
		close(ch)
	}
}
