package hub

import (
	"sync"

	"github.com/oshokin/stopwatch/internal/domain/stopwatch"
)

// Hub distributes snapshots published by the engine.
type Hub struct {
	// subscribers holds the active subscriptions.
	subscribers map[*Subscription]struct{}
	// mu protects subscribers.
	mu sync.RWMutex
}

// Subscription receives the latest snapshot published after it was created.
type Subscription struct {
	// updates holds at most one pending snapshot.
	updates chan stopwatch.Snapshot
	// hub is the owner, used to unsubscribe.
	hub *Hub
	// once guards Close.
	once sync.Once
}

// New creates an empty hub.
func New() *Hub {
	return &Hub{
		subscribers: make(map[*Subscription]struct{}),
	}
}

// Subscribe registers a new subscription. Callers must Close it when done.
func (h *Hub) Subscribe() *Subscription {
	sub := &Subscription{
		updates: make(chan stopwatch.Snapshot, 1),
		hub:     h,
	}

	h.mu.Lock()
	h.subscribers[sub] = struct{}{}
	h.mu.Unlock()

	return sub
}

// Publish hands the snapshot to every subscriber without blocking.
// Every subscriber gets its own copy of the laps.
// It has the stopwatch.Listener signature.
func (h *Hub) Publish(snapshot stopwatch.Snapshot) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subscribers {
		sub.offer(snapshot.Clone())
	}
}

// Len returns the number of active subscriptions.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.subscribers)
}

// C returns the channel snapshots are delivered on. It is closed by Close.
func (s *Subscription) C() <-chan stopwatch.Snapshot {
	return s.updates
}

// Close unsubscribes and closes the delivery channel.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		delete(s.hub.subscribers, s)
		close(s.updates)
		s.hub.mu.Unlock()
	})
}

// offer replaces any pending snapshot with the new one.
// Only Publish calls it, and Publish holds the read lock, so Close cannot
// close the channel underneath it.
func (s *Subscription) offer(snapshot stopwatch.Snapshot) {
	for {
		select {
		case s.updates <- snapshot:
			return
		default:
		}

		select {
		case <-s.updates:
		default:
		}
	}
}
