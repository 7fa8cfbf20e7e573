// Package handlers binds the backend services to IPC channels. Each file
// registers one namespace; handlers decode the raw payload, call the
// service, and return plain values for the registry to wrap in envelopes.
package handlers

import (
	"encoding/json"
	"fmt"

	"personahub/internal/config"
	"personahub/internal/ipc"
	"personahub/internal/llm"
	"personahub/internal/logger"
	"personahub/internal/storage"
)

// Deps carries everything the channel handlers call into.
type Deps struct {
	Store     storage.Storage
	Config    *config.Store
	LLM       *llm.Service
	Analyzer  *llm.Analyzer
	Events    *ipc.EventBus
	Log       *logger.Logger
	Version   string
	BackupDir string

	// Window is nil when running headless (HTTP server mode).
	Window WindowController
}

// WindowController is implemented by the desktop shell; app:* channels
// call through it.
type WindowController interface {
	Minimize()
	ToggleMaximize()
	Close()
}

// RegisterAll wires every channel namespace into the registry.
func RegisterAll(reg *ipc.Registry, d Deps) {
	RegisterConfigHandlers(reg, d)
	RegisterAppHandlers(reg, d)
	RegisterDatabaseHandlers(reg, d)
	RegisterProfileHandlers(reg, d)
	RegisterQuoteHandlers(reg, d)
	RegisterExperienceHandlers(reg, d)
	RegisterHexagonHandlers(reg, d)
	RegisterAnalysisHandlers(reg, d)
	RegisterLLMHandlers(reg, d)
}

// decode maps a raw payload (typically map[string]any from JSON) onto a
// typed request struct.
func decode(payload any, out any) error {
	if payload == nil {
		return nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	return nil
}

// entityChange is the payload of event:entityChanged pushes.
type entityChange struct {
	Entity string `json:"entity"`
	Action string `json:"action"`
	ID     any    `json:"id,omitempty"`
}

func (d Deps) notifyChange(entity, action string, id any) {
	if d.Events == nil {
		return
	}
	d.Events.Emit(ipc.EventEntityChanged, entityChange{Entity: entity, Action: action, ID: id})
}
