package handlers

import (
	"context"
	"errors"

	"personahub/internal/ipc"
	"personahub/internal/storage"
)

type tagRequest struct {
	Tag string `json:"tag"`
}

// RegisterExperienceHandlers wires the db:experience:* channels.
func RegisterExperienceHandlers(reg *ipc.Registry, d Deps) {
	reg.Register(ipc.ChannelExperienceGetAll, func(ctx context.Context, _ any) (any, error) {
		return d.Store.GetExperiences(ctx)
	})

	reg.Register(ipc.ChannelExperienceGetByID, func(ctx context.Context, payload any) (any, error) {
		var req idRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return d.Store.GetExperienceByID(ctx, req.ID)
	})

	reg.Register(ipc.ChannelExperienceCreate, func(ctx context.Context, payload any) (any, error) {
		var e storage.Experience
		if err := decode(payload, &e); err != nil {
			return nil, err
		}
		created, err := d.Store.CreateExperience(ctx, &e)
		if err != nil {
			return nil, err
		}
		d.notifyChange("experience", "create", created.ID)
		return created, nil
	})

	reg.Register(ipc.ChannelExperienceUpdate, func(ctx context.Context, payload any) (any, error) {
		var e storage.Experience
		if err := decode(payload, &e); err != nil {
			return nil, err
		}
		if e.ID == 0 {
			return nil, errors.New("experience id is required")
		}
		updated, err := d.Store.UpdateExperience(ctx, &e)
		if err != nil {
			return nil, err
		}
		d.notifyChange("experience", "update", updated.ID)
		return updated, nil
	})

	reg.Register(ipc.ChannelExperienceDelete, func(ctx context.Context, payload any) (any, error) {
		var req idRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		if err := d.Store.DeleteExperience(ctx, req.ID); err != nil {
			return nil, err
		}
		d.notifyChange("experience", "delete", req.ID)
		return true, nil
	})

	reg.Register(ipc.ChannelExperienceGetTimeline, func(ctx context.Context, payload any) (any, error) {
		var req profileIDRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return d.Store.GetExperienceTimeline(ctx, req.ProfileID)
	})

	reg.Register(ipc.ChannelExperienceFindByTag, func(ctx context.Context, payload any) (any, error) {
		var req tagRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return d.Store.FindExperiencesByTag(ctx, req.Tag)
	})
}
