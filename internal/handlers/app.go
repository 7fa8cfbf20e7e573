package handlers

import (
	"context"
	"errors"

	"personahub/internal/ipc"
)

// ErrNoWindow is returned by app:* window channels in headless mode.
var ErrNoWindow = errors.New("no window available")

// RegisterAppHandlers wires the app:* channels. Window operations are a
// no-op error when no window controller is attached.
func RegisterAppHandlers(reg *ipc.Registry, d Deps) {
	reg.Register(ipc.ChannelAppMinimize, func(_ context.Context, _ any) (any, error) {
		if d.Window == nil {
			return nil, ErrNoWindow
		}
		d.Window.Minimize()
		return true, nil
	})

	reg.Register(ipc.ChannelAppMaximize, func(_ context.Context, _ any) (any, error) {
		if d.Window == nil {
			return nil, ErrNoWindow
		}
		d.Window.ToggleMaximize()
		return true, nil
	})

	reg.Register(ipc.ChannelAppClose, func(_ context.Context, _ any) (any, error) {
		if d.Window == nil {
			return nil, ErrNoWindow
		}
		d.Window.Close()
		return true, nil
	})

	reg.Register(ipc.ChannelAppGetVersion, func(_ context.Context, _ any) (any, error) {
		return d.Version, nil
	})

	reg.Register(ipc.ChannelAppCheckForUpdates, func(_ context.Context, _ any) (any, error) {
		// Update checks are driven by the settings' update section; the
		// desktop build has no self-update pipeline, so the answer is
		// always "current version, no update".
		return map[string]any{
			"currentVersion": d.Version,
			"hasUpdate":      false,
		}, nil
	})
}
