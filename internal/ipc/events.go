package ipc

import (
	"sync"

	"github.com/google/uuid"
)

// EventHandler receives one server-initiated notification.
type EventHandler func(payload any)

type subscription struct {
	id   string
	fn   EventHandler
	once bool
}

// EventBus fans server-initiated notifications out to subscribers. Delivery
// is synchronous and in subscription order; handlers must not block.
type EventBus struct {
	mu   sync.Mutex
	subs map[Channel][]*subscription

	// sinks receive every emitted event, regardless of channel. Used to
	// forward events to websocket clients in headless mode.
	sinks []func(ch Channel, payload any)
}

// NewEventBus creates an empty event bus.
func NewEventBus() *EventBus {
	return &EventBus{subs: make(map[Channel][]*subscription)}
}

// On subscribes fn to a channel and returns an unsubscribe func.
func (e *EventBus) On(ch Channel, fn EventHandler) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	sub := &subscription{id: uuid.NewString(), fn: fn}

	e.mu.Lock()
	e.subs[ch] = append(e.subs[ch], sub)
	e.mu.Unlock()

	return func() { e.remove(ch, sub.id) }
}

// Once subscribes fn for exactly one delivery.
func (e *EventBus) Once(ch Channel, fn EventHandler) {
	if fn == nil {
		return
	}
	sub := &subscription{id: uuid.NewString(), fn: fn, once: true}

	e.mu.Lock()
	e.subs[ch] = append(e.subs[ch], sub)
	e.mu.Unlock()
}

// RemoveAll drops every subscription on a channel.
func (e *EventBus) RemoveAll(ch Channel) {
	e.mu.Lock()
	delete(e.subs, ch)
	e.mu.Unlock()
}

// AddSink registers a catch-all receiver for every emitted event.
func (e *EventBus) AddSink(fn func(ch Channel, payload any)) {
	if fn == nil {
		return
	}
	e.mu.Lock()
	e.sinks = append(e.sinks, fn)
	e.mu.Unlock()
}

// Emit delivers a notification to every subscriber of the channel, removing
// once-subscribers after their first delivery.
func (e *EventBus) Emit(ch Channel, payload any) {
	e.mu.Lock()
	subs := e.subs[ch]
	var fns []EventHandler
	kept := subs[:0]
	for _, s := range subs {
		fns = append(fns, s.fn)
		if !s.once {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		delete(e.subs, ch)
	} else {
		e.subs[ch] = kept
	}
	sinks := make([]func(Channel, any), len(e.sinks))
	copy(sinks, e.sinks)
	e.mu.Unlock()

	for _, fn := range fns {
		fn(payload)
	}
	for _, sink := range sinks {
		sink(ch, payload)
	}
}

func (e *EventBus) remove(ch Channel, id string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	subs := e.subs[ch]
	for i, s := range subs {
		if s.id == id {
			e.subs[ch] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	if len(e.subs[ch]) == 0 {
		delete(e.subs, ch)
	}
}
