package handlers

import (
	"context"
	"errors"

	"personahub/internal/ipc"
	"personahub/internal/storage"
)

type profileIDRequest struct {
	ProfileID int64 `json:"profileId"`
}

// RegisterQuoteHandlers wires the db:quote:* channels.
func RegisterQuoteHandlers(reg *ipc.Registry, d Deps) {
	reg.Register(ipc.ChannelQuoteGetAll, func(ctx context.Context, _ any) (any, error) {
		return d.Store.GetQuotes(ctx)
	})

	reg.Register(ipc.ChannelQuoteGetByID, func(ctx context.Context, payload any) (any, error) {
		var req idRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return d.Store.GetQuoteByID(ctx, req.ID)
	})

	reg.Register(ipc.ChannelQuoteGetByProfile, func(ctx context.Context, payload any) (any, error) {
		var req profileIDRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return d.Store.GetQuotesByProfile(ctx, req.ProfileID)
	})

	reg.Register(ipc.ChannelQuoteCreate, func(ctx context.Context, payload any) (any, error) {
		var q storage.Quote
		if err := decode(payload, &q); err != nil {
			return nil, err
		}
		created, err := d.Store.CreateQuote(ctx, &q)
		if err != nil {
			return nil, err
		}
		d.notifyChange("quote", "create", created.ID)
		return created, nil
	})

	reg.Register(ipc.ChannelQuoteUpdate, func(ctx context.Context, payload any) (any, error) {
		var q storage.Quote
		if err := decode(payload, &q); err != nil {
			return nil, err
		}
		if q.ID == 0 {
			return nil, errors.New("quote id is required")
		}
		updated, err := d.Store.UpdateQuote(ctx, &q)
		if err != nil {
			return nil, err
		}
		d.notifyChange("quote", "update", updated.ID)
		return updated, nil
	})

	reg.Register(ipc.ChannelQuoteDelete, func(ctx context.Context, payload any) (any, error) {
		var req idRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		if err := d.Store.DeleteQuote(ctx, req.ID); err != nil {
			return nil, err
		}
		d.notifyChange("quote", "delete", req.ID)
		return true, nil
	})

	reg.Register(ipc.ChannelQuoteSearch, func(ctx context.Context, payload any) (any, error) {
		var req searchRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return d.Store.SearchQuotes(ctx, req.Query)
	})

	reg.Register(ipc.ChannelQuoteGetRandom, func(ctx context.Context, _ any) (any, error) {
		return d.Store.GetRandomQuote(ctx)
	})
}
