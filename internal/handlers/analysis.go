package handlers

import (
	"context"

	"personahub/internal/ipc"
	"personahub/internal/storage"
)

type analysisIDRequest struct {
	ID string `json:"id"`
}

// RegisterAnalysisHandlers wires the db:analysis:* channels.
func RegisterAnalysisHandlers(reg *ipc.Registry, d Deps) {
	reg.Register(ipc.ChannelAnalysisGetByProfile, func(ctx context.Context, payload any) (any, error) {
		var req profileIDRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return d.Store.GetAnalysesByProfile(ctx, req.ProfileID)
	})

	reg.Register(ipc.ChannelAnalysisGetByID, func(ctx context.Context, payload any) (any, error) {
		var req analysisIDRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return d.Store.GetAnalysisByID(ctx, req.ID)
	})

	reg.Register(ipc.ChannelAnalysisCreate, func(ctx context.Context, payload any) (any, error) {
		var a storage.Analysis
		if err := decode(payload, &a); err != nil {
			return nil, err
		}
		created, err := d.Store.CreateAnalysis(ctx, &a)
		if err != nil {
			return nil, err
		}
		d.notifyChange("analysis", "create", created.ID)
		return created, nil
	})

	reg.Register(ipc.ChannelAnalysisDelete, func(ctx context.Context, payload any) (any, error) {
		var req analysisIDRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		if err := d.Store.DeleteAnalysis(ctx, req.ID); err != nil {
			return nil, err
		}
		d.notifyChange("analysis", "delete", req.ID)
		return true, nil
	})
}
