// Package services provides the UI-facing façades over the IPC bridge.
// Read methods absorb backend failures and come back with empty values so
// rendering code never branches on errors; write methods propagate them so
// the UI can tell the user what went wrong.
package services

import (
	"personahub/internal/ipc"
	"personahub/internal/logger"
)

// Services bundles every façade over one shared bridge.
type Services struct {
	Profile    *ProfileService
	Quote      *QuoteService
	Experience *ExperienceService
	Hexagon    *HexagonService
	Analysis   *AnalysisService
	Config     *ConfigService
	App        *AppService
	Database   *DatabaseService
	LLM        *LLMService
}

// New builds the façade set over a bridge.
func New(bridge *ipc.Bridge, log *logger.Logger) *Services {
	return &Services{
		Profile:    &ProfileService{bridge: bridge, log: log},
		Quote:      &QuoteService{bridge: bridge, log: log},
		Experience: &ExperienceService{bridge: bridge, log: log},
		Hexagon:    &HexagonService{bridge: bridge, log: log},
		Analysis:   &AnalysisService{bridge: bridge, log: log},
		Config:     &ConfigService{bridge: bridge, log: log},
		App:        &AppService{bridge: bridge, log: log},
		Database:   &DatabaseService{bridge: bridge, log: log},
		LLM:        NewLLMService(bridge, log),
	}
}
