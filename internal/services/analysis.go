package services

import (
	"context"

	"personahub/internal/ipc"
	"personahub/internal/llm"
	"personahub/internal/logger"
	"personahub/internal/storage"
)

// AnalysisService wraps the db:analysis:* channels and the analysis run
// itself.
type AnalysisService struct {
	bridge *ipc.Bridge
	log    *logger.Logger
}

func (s *AnalysisService) GetByProfile(ctx context.Context, profileID int64) []*storage.Analysis {
	analyses, err := ipc.Call[[]*storage.Analysis](ctx, s.bridge, ipc.ChannelAnalysisGetByProfile,
		map[string]any{"profileId": profileID})
	if err != nil {
		s.log.Warn("[Analysis] getByProfile %d: %v", profileID, err)
		return []*storage.Analysis{}
	}
	return analyses
}

func (s *AnalysisService) GetByID(ctx context.Context, id string) *storage.Analysis {
	analysis, err := ipc.Call[*storage.Analysis](ctx, s.bridge, ipc.ChannelAnalysisGetByID,
		map[string]any{"id": id})
	if err != nil {
		s.log.Warn("[Analysis] getById %s: %v", id, err)
		return nil
	}
	return analysis
}

func (s *AnalysisService) Delete(ctx context.Context, id string) error {
	_, err := s.bridge.Invoke(ctx, ipc.ChannelAnalysisDelete, map[string]any{"id": id})
	return err
}

// Analyze runs a hexagon personality analysis for the profile. This is a
// long call; the ctx deadline is the only way to abandon it.
func (s *AnalysisService) Analyze(ctx context.Context, profileID int64, configID string) (*llm.AnalysisResult, error) {
	return ipc.Call[*llm.AnalysisResult](ctx, s.bridge, ipc.ChannelLLMAnalyzeHexagon,
		map[string]any{"profileId": profileID, "configId": configID})
}

// OnCompleted subscribes to analysis completion pushes and returns the
// unsubscribe func.
func (s *AnalysisService) OnCompleted(fn func(payload any)) func() {
	return s.bridge.On(ipc.EventAnalysisCompleted, fn)
}
