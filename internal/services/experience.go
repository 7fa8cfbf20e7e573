package services

import (
	"context"

	"personahub/internal/ipc"
	"personahub/internal/logger"
	"personahub/internal/storage"
)

// ExperienceService wraps the db:experience:* channels.
type ExperienceService struct {
	bridge *ipc.Bridge
	log    *logger.Logger
}

func (s *ExperienceService) GetAll(ctx context.Context) []*storage.Experience {
	experiences, err := ipc.Call[[]*storage.Experience](ctx, s.bridge, ipc.ChannelExperienceGetAll, nil)
	if err != nil {
		s.log.Warn("[Experience] getAll: %v", err)
		return []*storage.Experience{}
	}
	return experiences
}

func (s *ExperienceService) GetByID(ctx context.Context, id int64) *storage.Experience {
	experience, err := ipc.Call[*storage.Experience](ctx, s.bridge, ipc.ChannelExperienceGetByID,
		map[string]any{"id": id})
	if err != nil {
		s.log.Warn("[Experience] getById %d: %v", id, err)
		return nil
	}
	return experience
}

func (s *ExperienceService) Create(ctx context.Context, e *storage.Experience) (*storage.Experience, error) {
	return ipc.Call[*storage.Experience](ctx, s.bridge, ipc.ChannelExperienceCreate, e)
}

func (s *ExperienceService) Update(ctx context.Context, e *storage.Experience) (*storage.Experience, error) {
	return ipc.Call[*storage.Experience](ctx, s.bridge, ipc.ChannelExperienceUpdate, e)
}

func (s *ExperienceService) Delete(ctx context.Context, id int64) error {
	_, err := s.bridge.Invoke(ctx, ipc.ChannelExperienceDelete, map[string]any{"id": id})
	return err
}

// GetTimeline returns a profile's experiences in chronological order,
// empty on failure.
func (s *ExperienceService) GetTimeline(ctx context.Context, profileID int64) []*storage.Experience {
	experiences, err := ipc.Call[[]*storage.Experience](ctx, s.bridge, ipc.ChannelExperienceGetTimeline,
		map[string]any{"profileId": profileID})
	if err != nil {
		s.log.Warn("[Experience] getTimeline %d: %v", profileID, err)
		return []*storage.Experience{}
	}
	return experiences
}

func (s *ExperienceService) FindByTag(ctx context.Context, tag string) []*storage.Experience {
	experiences, err := ipc.Call[[]*storage.Experience](ctx, s.bridge, ipc.ChannelExperienceFindByTag,
		map[string]any{"tag": tag})
	if err != nil {
		s.log.Warn("[Experience] findByTag %q: %v", tag, err)
		return []*storage.Experience{}
	}
	return experiences
}
