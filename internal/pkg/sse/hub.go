package sse

import (
	"sync"
)

// Channel keys. A subscriber joins exactly one channel for the lifetime of
// its connection: the administrative channel sees every break event, a
// supervisor channel sees the events of that leader's agents, and a user
// channel carries the user's own break state for self-service dashboards.
const ChannelAdmin = "admin"

// SupervisorChannel returns the channel key for a team leader's monitor feed.
func SupervisorChannel(leaderID string) string {
	return "supervisor:" + leaderID
}

// UserChannel returns the channel key for a user's own break-state feed.
func UserChannel(userID string) string {
	return "user:" + userID
}

// Event represents an SSE event to be sent to subscribers
type Event struct {
	Name string
	Data interface{}
}

// Hub is the subscription registry for presence broadcasting: a mapping from
// channel key to the set of live subscriber channels, with join/leave tied to
// Subscribe and its cleanup function.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
	}
}

// Subscribe joins a channel and returns the event stream plus a cleanup
// function that leaves the channel and closes the stream.
func (h *Hub) Subscribe(channel string) (chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, 10)

	if h.subscribers[channel] == nil {
		h.subscribers[channel] = make(map[chan Event]struct{})
	}
	h.subscribers[channel][ch] = struct{}{}

	cleanup := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subscribers[channel], ch)
		close(ch)
		if len(h.subscribers[channel]) == 0 {
			delete(h.subscribers, channel)
		}
	}

	return ch, cleanup
}

// Publish sends an event to all subscribers of a channel. Delivery is
// fire-and-forget: a subscriber whose buffer is full, or a channel with no
// subscribers, simply misses the event. There is no backlog or redelivery.
func (h *Hub) Publish(channel string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

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

	if subs, ok := h.subscribers[channel]; ok {
		return len(subs)
	}
	return 0
}

// TotalSubscribers returns the total number of active subscribers across all channels
func (h *Hub) TotalSubscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, subs := range h.subscribers {
		total += len(subs)
	}
	return total
}
