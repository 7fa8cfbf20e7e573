package services

import (
	"context"

	"personahub/internal/ipc"
	"personahub/internal/logger"
	"personahub/internal/storage"
)

// HexagonService wraps the db:hexagon:* channels.
type HexagonService struct {
	bridge *ipc.Bridge
	log    *logger.Logger
}

func (s *HexagonService) GetAll(ctx context.Context) []*storage.HexagonModel {
	hexagons, err := ipc.Call[[]*storage.HexagonModel](ctx, s.bridge, ipc.ChannelHexagonGetAll, nil)
	if err != nil {
		s.log.Warn("[Hexagon] getAll: %v", err)
		return []*storage.HexagonModel{}
	}
	return hexagons
}

func (s *HexagonService) GetByID(ctx context.Context, id int64) *storage.HexagonModel {
	hexagon, err := ipc.Call[*storage.HexagonModel](ctx, s.bridge, ipc.ChannelHexagonGetByID,
		map[string]any{"id": id})
	if err != nil {
		s.log.Warn("[Hexagon] getById %d: %v", id, err)
		return nil
	}
	return hexagon
}

// GetByProfile returns a profile's hexagon snapshots, newest first, empty
// on failure.
func (s *HexagonService) GetByProfile(ctx context.Context, profileID int64) []*storage.HexagonModel {
	hexagons, err := ipc.Call[[]*storage.HexagonModel](ctx, s.bridge, ipc.ChannelHexagonGetByProfile,
		map[string]any{"profileId": profileID})
	if err != nil {
		s.log.Warn("[Hexagon] getByProfile %d: %v", profileID, err)
		return []*storage.HexagonModel{}
	}
	return hexagons
}

func (s *HexagonService) Create(ctx context.Context, h *storage.HexagonModel) (*storage.HexagonModel, error) {
	return ipc.Call[*storage.HexagonModel](ctx, s.bridge, ipc.ChannelHexagonCreate, h)
}

func (s *HexagonService) Update(ctx context.Context, h *storage.HexagonModel) (*storage.HexagonModel, error) {
	return ipc.Call[*storage.HexagonModel](ctx, s.bridge, ipc.ChannelHexagonUpdate, h)
}

func (s *HexagonService) Delete(ctx context.Context, id int64) error {
	_, err := s.bridge.Invoke(ctx, ipc.ChannelHexagonDelete, map[string]any{"id": id})
	return err
}
