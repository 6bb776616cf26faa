// Package realtime fans order events out to connected kitchen, admin and
// customer pages over WebSocket and server-sent events.
package realtime

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	"restaurant-system/internal/domain"
)

const DefaultSubscriberBuffer = 64

// Message is one event, encoded once and shared by every subscriber.
type Message struct {
	Event string
	Data  json.RawMessage
	Frame []byte // {"event": ..., "data": ...}
}

// Encode builds a Message out of an event name and its payload.
func Encode(event string, payload any) (Message, error) {
	env, err := domain.NewEnvelope(event, payload)
	if err != nil {
		return Message{}, err
	}
	frame, err := json.Marshal(env)
	if err != nil {
		return Message{}, err
	}
	return Message{Event: event, Data: env.Data, Frame: frame}, nil
}

// Observer is told about subscriber churn and missed deliveries.
type Observer interface {
	ClientConnected()
	ClientDisconnected()
	MessageDropped()
}

type Hub struct {
	mu     sync.Mutex
	subs   map[string]chan Message
	buffer int
	obs    Observer
}

func NewHub(buffer int, obs Observer) *Hub {
	if buffer <= 0 {
		buffer = DefaultSubscriberBuffer
	}
	return &Hub{subs: make(map[string]chan Message), buffer: buffer, obs: obs}
}

// Publish delivers event to every subscriber without blocking. A subscriber
// whose buffer is full misses it.
func (h *Hub) Publish(event string, payload any) {
	msg, err := Encode(event, payload)
	if err != nil {
		return
	}
	h.PublishMessage(msg)
}

func (h *Hub) PublishMessage(msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- msg:
		default:
			if h.obs != nil {
				h.obs.MessageDropped()
			}
		}
	}
}

// Subscribe registers a subscriber whose queue already holds initial, in
// order. When initial is a snapshot of shared state, the caller must hold
// whatever lock serializes publishing of that state.
func (h *Hub) Subscribe(initial ...Message) *Subscription {
	ch := make(chan Message, h.buffer+len(initial))
	for _, m := range initial {
		ch <- m
	}
	s := &Subscription{hub: h, id: uuid.NewString(), ch: ch}

	h.mu.Lock()
	h.subs[s.id] = ch
	h.mu.Unlock()
	if h.obs != nil {
		h.obs.ClientConnected()
	}
	return s
}

// Len reports the number of live subscribers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *Hub) unsubscribe(id string) {
	h.mu.Lock()
	_, ok := h.subs[id]
	delete(h.subs, id)
	h.mu.Unlock()
	if ok && h.obs != nil {
		h.obs.ClientDisconnected()
	}
}

type Subscription struct {
	hub  *Hub
	id   string
	ch   chan Message
	once sync.Once
}

func (s *Subscription) ID() string { return s.id }

func (s *Subscription) Messages() <-chan Message { return s.ch }

// Close detaches the subscription. The channel is left open; it simply
// stops receiving.
func (s *Subscription) Close() {
	s.once.Do(func() { s.hub.unsubscribe(s.id) })
}
