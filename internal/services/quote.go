package services

import (
	"context"

	"personahub/internal/ipc"
	"personahub/internal/logger"
	"personahub/internal/storage"
)

// QuoteService wraps the db:quote:* channels.
type QuoteService struct {
	bridge *ipc.Bridge
	log    *logger.Logger
}

func (s *QuoteService) GetAll(ctx context.Context) []*storage.Quote {
	quotes, err := ipc.Call[[]*storage.Quote](ctx, s.bridge, ipc.ChannelQuoteGetAll, nil)
	if err != nil {
		s.log.Warn("[Quote] getAll: %v", err)
		return []*storage.Quote{}
	}
	return quotes
}

func (s *QuoteService) GetByID(ctx context.Context, id int64) *storage.Quote {
	quote, err := ipc.Call[*storage.Quote](ctx, s.bridge, ipc.ChannelQuoteGetByID,
		map[string]any{"id": id})
	if err != nil {
		s.log.Warn("[Quote] getById %d: %v", id, err)
		return nil
	}
	return quote
}

func (s *QuoteService) GetByProfile(ctx context.Context, profileID int64) []*storage.Quote {
	quotes, err := ipc.Call[[]*storage.Quote](ctx, s.bridge, ipc.ChannelQuoteGetByProfile,
		map[string]any{"profileId": profileID})
	if err != nil {
		s.log.Warn("[Quote] getByProfile %d: %v", profileID, err)
		return []*storage.Quote{}
	}
	return quotes
}

func (s *QuoteService) Create(ctx context.Context, q *storage.Quote) (*storage.Quote, error) {
	return ipc.Call[*storage.Quote](ctx, s.bridge, ipc.ChannelQuoteCreate, q)
}

func (s *QuoteService) Update(ctx context.Context, q *storage.Quote) (*storage.Quote, error) {
	return ipc.Call[*storage.Quote](ctx, s.bridge, ipc.ChannelQuoteUpdate, q)
}

func (s *QuoteService) Delete(ctx context.Context, id int64) error {
	_, err := s.bridge.Invoke(ctx, ipc.ChannelQuoteDelete, map[string]any{"id": id})
	return err
}

func (s *QuoteService) Search(ctx context.Context, query string) []*storage.Quote {
	quotes, err := ipc.Call[[]*storage.Quote](ctx, s.bridge, ipc.ChannelQuoteSearch,
		map[string]any{"query": query})
	if err != nil {
		s.log.Warn("[Quote] search %q: %v", query, err)
		return []*storage.Quote{}
	}
	return quotes
}

// GetRandom returns a random quote for the dashboard, nil when there are
// no quotes yet.
func (s *QuoteService) GetRandom(ctx context.Context) *storage.Quote {
	quote, err := ipc.Call[*storage.Quote](ctx, s.bridge, ipc.ChannelQuoteGetRandom, nil)
	if err != nil {
		s.log.Warn("[Quote] getRandom: %v", err)
		return nil
	}
	return quote
}
