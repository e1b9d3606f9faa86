package sse

import (
	"sync"
)

// AdminChannel receives events meant for every administrator.
const AdminChannel = "admins"

// Event represents an SSE event to be sent to subscribers
type Event struct {
	Channel string
	Event   string
	Data    interface{}
}

// Publisher is the write side of the hub.
type Publisher interface {
	Publish(channel string, event Event)
}

// Hub manages SSE subscribers and event broadcasting. A channel is either a user's
// email or AdminChannel.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
}

// NewHub creates a new SSE Hub instance
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
	}
}

// Subscribe registers one stream on every given channel and returns the event channel
// and a cleanup function.
func (h *Hub) Subscribe(channels ...string) (chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, 10)
	for _, name := range channels {
		if h.subscribers[name] == nil {
			h.subscribers[name] = make(map[chan Event]struct{})
		}
		h.subscribers[name][ch] = struct{}{}
	}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			for _, name := range channels {
				delete(h.subscribers[name], ch)
				if len(h.subscribers[name]) == 0 {
					delete(h.subscribers, name)
				}
			}
			close(ch)
		})
	}

	return ch, cleanup
}

// Publish sends an event to all subscribers of a channel
func (h *Hub) Publish(channel string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	event.Channel = channel
	if subs, ok := h.subscribers[channel]; ok {
		for ch := range subs {
			select {
			case ch <- event:
			default:
				// Skip if channel is full (non-blocking to prevent deadlock)
			}
		}
	}
}

// SubscriberCount returns the number of active subscribers on a channel
func (h *Hub) SubscriberCount(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.subscribers[channel])
}

// TotalSubscribers returns the number of distinct open streams
func (h *Hub) TotalSubscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	seen := make(map[chan Event]struct{})
	for _, subs := range h.subscribers {
		for ch := range subs {
			seen[ch] = struct{}{}
		}
	}
	return len(seen)
}
