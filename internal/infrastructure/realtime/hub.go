// Package realtime fans chat messages out to live subscribers of a child's
// conversation.
package realtime

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/therapyai/caseload/internal/core/domain"
)

const subscriberBuffer = 32

type subscriber struct {
	ch chan domain.ChatMessage
}

// Hub keeps the subscribers of every child in memory. A slow subscriber whose
// buffer is full misses messages rather than blocking the writer.
type Hub struct {
	mu       sync.RWMutex
	subs     map[string]map[*subscriber]struct{}
	onChange func(delta int)
	log      zerolog.Logger
}

// NewHub builds an empty hub. onChange, when set, is told about every
// subscribe (+1) and unsubscribe (-1).
func NewHub(onChange func(delta int), log zerolog.Logger) *Hub {
	return &Hub{subs: make(map[string]map[*subscriber]struct{}), onChange: onChange, log: log}
}

// Subscribe registers interest in childID. The returned cancel func closes
// the channel and must be called once the caller stops reading.
func (h *Hub) Subscribe(childID string) (<-chan domain.ChatMessage, func()) {
	s := &subscriber{ch: make(chan domain.ChatMessage, subscriberBuffer)}

	h.mu.Lock()
	if h.subs[childID] == nil {
		h.subs[childID] = make(map[*subscriber]struct{})
	}
	h.subs[childID][s] = struct{}{}
	h.mu.Unlock()
	h.changed(1)

	var once sync.Once
	return s.ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[childID], s)
			if len(h.subs[childID]) == 0 {
				delete(h.subs, childID)
			}
			close(s.ch)
			h.mu.Unlock()
			h.changed(-1)
		})
	}
}

// Publish delivers msg to every subscriber of childID.
func (h *Hub) Publish(childID string, msg domain.ChatMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.subs[childID] {
		select {
		case s.ch <- msg:
		default:
			h.log.Warn().Str("child_id", childID).Str("message_id", msg.ID).Msg("subscriber lagging, message dropped")
		}
	}
}

// Subscribers returns the number of open subscriptions for childID.
func (h *Hub) Subscribers(childID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[childID])
}

func (h *Hub) changed(delta int) {
	if h.onChange != nil {
		h.onChange(delta)
	}
}
