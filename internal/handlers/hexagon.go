package handlers

import (
	"context"
	"errors"

	"personahub/internal/ipc"
	"personahub/internal/storage"
)

// RegisterHexagonHandlers wires the db:hexagon:* channels.
func RegisterHexagonHandlers(reg *ipc.Registry, d Deps) {
	reg.Register(ipc.ChannelHexagonGetAll, func(ctx context.Context, _ any) (any, error) {
		return d.Store.GetHexagons(ctx)
	})

	reg.Register(ipc.ChannelHexagonGetByID, func(ctx context.Context, payload any) (any, error) {
		var req idRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return d.Store.GetHexagonByID(ctx, req.ID)
	})

	reg.Register(ipc.ChannelHexagonGetByProfile, func(ctx context.Context, payload any) (any, error) {
		var req profileIDRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return d.Store.GetHexagonsByProfile(ctx, req.ProfileID)
	})

	reg.Register(ipc.ChannelHexagonCreate, func(ctx context.Context, payload any) (any, error) {
		var h storage.HexagonModel
		if err := decode(payload, &h); err != nil {
			return nil, err
		}
		created, err := d.Store.CreateHexagon(ctx, &h)
		if err != nil {
			return nil, err
		}
		d.notifyChange("hexagon", "create", created.ID)
		return created, nil
	})

	reg.Register(ipc.ChannelHexagonUpdate, func(ctx context.Context, payload any) (any, error) {
		var h storage.HexagonModel
		if err := decode(payload, &h); err != nil {
			return nil, err
		}
		if h.ID == 0 {
			return nil, errors.New("hexagon id is required")
		}
		updated, err := d.Store.UpdateHexagon(ctx, &h)
		if err != nil {
			return nil, err
		}
		d.notifyChange("hexagon", "update", updated.ID)
		return updated, nil
	})

	reg.Register(ipc.ChannelHexagonDelete, func(ctx context.Context, payload any) (any, error) {
		var req idRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		if err := d.Store.DeleteHexagon(ctx, req.ID); err != nil {
			return nil, err
		}
		d.notifyChange("hexagon", "delete", req.ID)
		return true, nil
	})
}
