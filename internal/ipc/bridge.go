package ipc

import (
	"context"
	"errors"
	"fmt"

	"personahub/internal/logger"
)

// ErrTransportUnavailable is returned when Invoke is called before a
// transport has been attached. Callers fail fast instead of hanging on a
// bridge that was never wired.
var ErrTransportUnavailable = errors.New("ipc transport not initialized")

// Transport carries one request across the process boundary and returns the
// raw reply. The in-process implementation is *Registry.
type Transport interface {
	Invoke(ctx context.Context, ch Channel, payload any) (any, error)
}

// Bridge is the sole path by which UI-side code asks the backend to do
// something. It forwards to the transport, normalizes the raw reply, and
// converts failed envelopes into errors.
type Bridge struct {
	transport Transport
	events    *EventBus
}

// NewBridge creates a bridge over the given transport. A nil transport is
// allowed; Invoke then fails with ErrTransportUnavailable until
// SetTransport is called.
func NewBridge(t Transport) *Bridge {
	return &Bridge{transport: t, events: NewEventBus()}
}

// SetTransport attaches or replaces the underlying transport.
func (b *Bridge) SetTransport(t Transport) { b.transport = t }

// Events exposes the push-notification bus for server-initiated messages.
func (b *Bridge) Events() *EventBus { return b.events }

// Invoke sends a request and waits for the reply. The raw reply is
// normalized; a {success:false} envelope surfaces as an error carrying the
// backend's message. There is no retry at this layer.
func (b *Bridge) Invoke(ctx context.Context, ch Channel, payload any) (any, error) {
	if b == nil || b.transport == nil {
		logger.Error("[IPC] invoke %s: %v", ch, ErrTransportUnavailable)
		return nil, ErrTransportUnavailable
	}

	raw, err := b.transport.Invoke(ctx, ch, payload)
	if err != nil {
		return nil, fmt.Errorf("invoke %s: %w", ch, err)
	}

	resp := Normalize(raw)
	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = "operation failed"
		}
		return nil, errors.New(msg)
	}
	return resp.Data, nil
}

// Send emits a fire-and-forget notification on the event bus. There is no
// acknowledgement and no error if nobody is listening.
func (b *Bridge) Send(ch Channel, payload any) {
	if b == nil {
		return
	}
	b.events.Emit(ch, payload)
}

// On subscribes to server-initiated notifications on a channel.
func (b *Bridge) On(ch Channel, fn EventHandler) (unsubscribe func()) {
	return b.events.On(ch, fn)
}

// Once subscribes for a single delivery.
func (b *Bridge) Once(ch Channel, fn EventHandler) {
	b.events.Once(ch, fn)
}

// RemoveAllListeners drops every subscription on a channel.
func (b *Bridge) RemoveAllListeners(ch Channel) {
	b.events.RemoveAll(ch)
}

// Call invokes a channel and asserts the reply data to T. A reply of the
// wrong shape is a contract violation between the two sides and surfaces as
// an error, not a panic.
func Call[T any](ctx context.Context, b *Bridge, ch Channel, payload any) (T, error) {
	var zero T
	data, err := b.Invoke(ctx, ch, payload)
	if err != nil {
		return zero, err
	}
	if data == nil {
		return zero, nil
	}
	typed, ok := data.(T)
	if !ok {
		return zero, fmt.Errorf("invoke %s: unexpected reply type %T", ch, data)
	}
	return typed, nil
}
