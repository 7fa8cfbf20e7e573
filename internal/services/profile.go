package services

import (
	"context"

	"personahub/internal/ipc"
	"personahub/internal/logger"
	"personahub/internal/storage"
)

// ProfileService wraps the db:profile:* channels.
type ProfileService struct {
	bridge *ipc.Bridge
	log    *logger.Logger
}

// GetAll returns every profile, or an empty slice when the backend fails.
func (s *ProfileService) GetAll(ctx context.Context) []*storage.Profile {
	profiles, err := ipc.Call[[]*storage.Profile](ctx, s.bridge, ipc.ChannelProfileGetAll, nil)
	if err != nil {
		s.log.Warn("[Profile] getAll: %v", err)
		return []*storage.Profile{}
	}
	return profiles
}

// GetByID returns one profile, or nil when missing or on failure.
func (s *ProfileService) GetByID(ctx context.Context, id int64) *storage.Profile {
	profile, err := ipc.Call[*storage.Profile](ctx, s.bridge, ipc.ChannelProfileGetByID,
		map[string]any{"id": id})
	if err != nil {
		s.log.Warn("[Profile] getById %d: %v", id, err)
		return nil
	}
	return profile
}

// Create stores a new profile.
func (s *ProfileService) Create(ctx context.Context, p *storage.Profile) (*storage.Profile, error) {
	return ipc.Call[*storage.Profile](ctx, s.bridge, ipc.ChannelProfileCreate, p)
}

// Update rewrites an existing profile.
func (s *ProfileService) Update(ctx context.Context, p *storage.Profile) (*storage.Profile, error) {
	return ipc.Call[*storage.Profile](ctx, s.bridge, ipc.ChannelProfileUpdate, p)
}

// Delete removes a profile and everything attached to it.
func (s *ProfileService) Delete(ctx context.Context, id int64) error {
	_, err := s.bridge.Invoke(ctx, ipc.ChannelProfileDelete, map[string]any{"id": id})
	return err
}

// Search returns profiles matching the query, empty on failure.
func (s *ProfileService) Search(ctx context.Context, query string) []*storage.Profile {
	profiles, err := ipc.Call[[]*storage.Profile](ctx, s.bridge, ipc.ChannelProfileSearch,
		map[string]any{"query": query})
	if err != nil {
		s.log.Warn("[Profile] search %q: %v", query, err)
		return []*storage.Profile{}
	}
	return profiles
}

// GetRecent returns the most recently updated profiles, empty on failure.
func (s *ProfileService) GetRecent(ctx context.Context, limit int) []*storage.Profile {
	profiles, err := ipc.Call[[]*storage.Profile](ctx, s.bridge, ipc.ChannelProfileGetRecent,
		map[string]any{"limit": limit})
	if err != nil {
		s.log.Warn("[Profile] getRecent: %v", err)
		return []*storage.Profile{}
	}
	return profiles
}
