package handlers

import (
	"context"
	"errors"

	"personahub/internal/ipc"
	"personahub/internal/storage"
)

type idRequest struct {
	ID int64 `json:"id"`
}

type searchRequest struct {
	Query string `json:"query"`
}

type limitRequest struct {
	Limit int `json:"limit"`
}

// RegisterProfileHandlers wires the db:profile:* channels.
func RegisterProfileHandlers(reg *ipc.Registry, d Deps) {
	reg.Register(ipc.ChannelProfileGetAll, func(ctx context.Context, _ any) (any, error) {
		return d.Store.GetProfiles(ctx)
	})

	reg.Register(ipc.ChannelProfileGetByID, func(ctx context.Context, payload any) (any, error) {
		var req idRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return d.Store.GetProfileByID(ctx, req.ID)
	})

	reg.Register(ipc.ChannelProfileCreate, func(ctx context.Context, payload any) (any, error) {
		var p storage.Profile
		if err := decode(payload, &p); err != nil {
			return nil, err
		}
		created, err := d.Store.CreateProfile(ctx, &p)
		if err != nil {
			return nil, err
		}
		d.notifyChange("profile", "create", created.ID)
		return created, nil
	})

	reg.Register(ipc.ChannelProfileUpdate, func(ctx context.Context, payload any) (any, error) {
		var p storage.Profile
		if err := decode(payload, &p); err != nil {
			return nil, err
		}
		if p.ID == 0 {
			return nil, errors.New("profile id is required")
		}
		updated, err := d.Store.UpdateProfile(ctx, &p)
		if err != nil {
			return nil, err
		}
		d.notifyChange("profile", "update", updated.ID)
		return updated, nil
	})

	reg.Register(ipc.ChannelProfileDelete, func(ctx context.Context, payload any) (any, error) {
		var req idRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		if err := d.Store.DeleteProfile(ctx, req.ID); err != nil {
			return nil, err
		}
		d.notifyChange("profile", "delete", req.ID)
		return true, nil
	})

	reg.Register(ipc.ChannelProfileSearch, func(ctx context.Context, payload any) (any, error) {
		var req searchRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return d.Store.SearchProfiles(ctx, req.Query)
	})

	reg.Register(ipc.ChannelProfileGetRecent, func(ctx context.Context, payload any) (any, error) {
		var req limitRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return d.Store.GetRecentProfiles(ctx, req.Limit)
	})
}
