package main

import (
	"context"
	"fmt"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"personahub/internal/ipc"
	"personahub/internal/logger"
)

// App is the Wails application controller. The frontend reaches the
// backend exclusively through Invoke; push traffic flows the other way as
// Wails runtime events.
type App struct {
	ctx      context.Context
	registry *ipc.Registry
	events   *ipc.EventBus
	log      *logger.Logger
}

// NewApp creates the controller; wiring happens through the Set methods
// before wails.Run.
func NewApp(log *logger.Logger) *App {
	return &App{log: log}
}

// SetRegistry sets the channel registry the frontend invokes into.
func (a *App) SetRegistry(reg *ipc.Registry) {
	a.registry = reg
}

// SetEvents attaches the event bus and forwards event:* pushes to the
// frontend as Wails runtime events.
func (a *App) SetEvents(bus *ipc.EventBus) {
	a.events = bus
	bus.AddSink(func(ch ipc.Channel, payload any) {
		if a.ctx == nil || ch.Namespace() != "event" {
			return
		}
		runtime.EventsEmit(a.ctx, ch.String(), payload)
	})
}

// startup is called by Wails once the runtime context is ready.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

// Invoke is the single entry point bound to the frontend. It dispatches
// the channel and always answers with the canonical envelope; only an
// unreachable backend is reported as a Go error.
func (a *App) Invoke(channel string, payload any) (ipc.Response, error) {
	if a.registry == nil {
		return ipc.Response{}, ipc.ErrTransportUnavailable
	}
	ctx := a.ctx
	if ctx == nil {
		// Invoked before startup delivered the runtime context.
		ctx = context.Background()
	}
	raw, err := a.registry.Invoke(ctx, ipc.Channel(channel), payload)
	if err != nil {
		return ipc.Response{}, fmt.Errorf("invoke %s: %w", channel, err)
	}
	return ipc.Normalize(raw), nil
}

// Channels lists every registered channel, for frontend introspection.
func (a *App) Channels() []string {
	if a.registry == nil {
		return nil
	}
	channels := a.registry.Channels()
	out := make([]string, len(channels))
	for i, ch := range channels {
		out[i] = ch.String()
	}
	return out
}

// Minimize implements the window controller.
func (a *App) Minimize() {
	if a.ctx != nil {
		runtime.WindowMinimise(a.ctx)
	}
}

// ToggleMaximize implements the window controller.
func (a *App) ToggleMaximize() {
	if a.ctx != nil {
		runtime.WindowToggleMaximise(a.ctx)
	}
}

// Close implements the window controller.
func (a *App) Close() {
	if a.ctx != nil {
		runtime.Quit(a.ctx)
	}
}
