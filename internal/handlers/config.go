package handlers

import (
	"context"

	"personahub/internal/ipc"
)

type configKeyRequest struct {
	Section string `json:"section"`
	Key     string `json:"key"`
}

type configSetRequest struct {
	Section string `json:"section"`
	Key     string `json:"key"`
	Value   any    `json:"value"`
}

type configSectionRequest struct {
	Section string `json:"section"`
	Values  map[string]any `json:"values,omitempty"`
}

func (d Deps) notifyConfigChange(section, key string) {
	if d.Events == nil {
		return
	}
	d.Events.Emit(ipc.EventConfigChanged, map[string]any{"section": section, "key": key})
}

// RegisterConfigHandlers wires the config:* channels.
func RegisterConfigHandlers(reg *ipc.Registry, d Deps) {
	reg.Register(ipc.ChannelConfigGet, func(_ context.Context, payload any) (any, error) {
		var req configKeyRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return d.Config.Get(req.Section, req.Key)
	})

	reg.Register(ipc.ChannelConfigSet, func(_ context.Context, payload any) (any, error) {
		var req configSetRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		if err := d.Config.Set(req.Section, req.Key, req.Value); err != nil {
			return nil, err
		}
		d.notifyConfigChange(req.Section, req.Key)
		return true, nil
	})

	reg.Register(ipc.ChannelConfigGetSection, func(_ context.Context, payload any) (any, error) {
		var req configSectionRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return d.Config.GetSection(req.Section)
	})

	reg.Register(ipc.ChannelConfigSetSection, func(_ context.Context, payload any) (any, error) {
		var req configSectionRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		if err := d.Config.SetSection(req.Section, req.Values); err != nil {
			return nil, err
		}
		d.notifyConfigChange(req.Section, "")
		return true, nil
	})

	reg.Register(ipc.ChannelConfigGetAll, func(_ context.Context, _ any) (any, error) {
		return d.Config.GetAll()
	})

	reg.Register(ipc.ChannelConfigReset, func(_ context.Context, payload any) (any, error) {
		var req configSectionRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		if err := d.Config.ResetSection(req.Section); err != nil {
			return nil, err
		}
		d.notifyConfigChange(req.Section, "")
		return true, nil
	})

	reg.Register(ipc.ChannelConfigResetAll, func(_ context.Context, _ any) (any, error) {
		if err := d.Config.ResetAll(); err != nil {
			return nil, err
		}
		d.notifyConfigChange("", "")
		return true, nil
	})
}
