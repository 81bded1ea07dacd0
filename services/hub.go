package services

import (
	"sync"

	"github.com/kovaikural/kural/models"
)

// Event is the payload pushed to a connected client.
type Event struct {
	Name string               `json:"name"`
	Data *models.Notification `json:"data"`
}

// Hub fans notifications out to connected clients. One user may hold several
// subscriptions (multiple tabs); each gets its own buffered channel. Publish
// never blocks: a subscriber that cannot keep up drops events.
type Hub struct {
	mu   sync.RWMutex
	subs map[uint]map[chan Event]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: map[uint]map[chan Event]struct{}{}}
}

// Subscribe registers a channel for the user and returns it with a cancel
// function. The cancel function is idempotent and closes the channel.
func (h *Hub) Subscribe(userID uint) (<-chan Event, func()) {
	ch := make(chan Event, 16)

	h.mu.Lock()
	if h.subs[userID] == nil {
		h.subs[userID] = map[chan Event]struct{}{}
	}
	h.subs[userID][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			if set, ok := h.subs[userID]; ok {
				delete(set, ch)
				if len(set) == 0 {
					delete(h.subs, userID)
				}
			}
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers the event to every live subscription of the user.
func (h *Hub) Publish(userID uint, ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs[userID] {
		select {
		case ch <- ev:
		default:
			// Slow consumer, drop rather than block the publisher.
		}
	}
}

// SubscriberCount reports live subscriptions for a user.
func (h *Hub) SubscriberCount(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[userID])
}
