package ipc

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrChannelNotFound is returned when no handler is bound to a channel.
var ErrChannelNotFound = errors.New("channel not registered")

// HandlerFunc processes one request for a channel. The returned value is
// normalized by the bridge, so handlers may return a ready envelope, a bare
// value, or (nil, error).
type HandlerFunc func(ctx context.Context, payload any) (any, error)

// Registry binds channel names to backend handlers. It implements Transport
// so a Bridge can dispatch into it directly when both sides live in the
// same process.
type Registry struct {
	mu       sync.RWMutex
	handlers map[Channel]HandlerFunc
}

// NewRegistry creates an empty handler registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[Channel]HandlerFunc)}
}

// Register binds a handler to a channel, replacing any previous binding.
func (r *Registry) Register(ch Channel, fn HandlerFunc) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[ch] = fn
}

// Channels returns the registered channel names.
func (r *Registry) Channels() []Channel {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Channel, 0, len(r.handlers))
	for ch := range r.handlers {
		out = append(out, ch)
	}
	return out
}

// Invoke dispatches a request to the registered handler. Handler errors are
// converted to a failed envelope rather than propagated, so a misbehaving
// handler can never take the backend down with it. Only an unknown channel
// surfaces as a transport error.
func (r *Registry) Invoke(ctx context.Context, ch Channel, payload any) (any, error) {
	r.mu.RLock()
	fn, ok := r.handlers[ch]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrChannelNotFound, ch)
	}

	result, err := fn(ctx, payload)
	if err != nil {
		return Fail(err.Error()), nil
	}
	return result, nil
}
