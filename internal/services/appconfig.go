package services

import (
	"context"

	"personahub/internal/config"
	"personahub/internal/ipc"
	"personahub/internal/logger"
)

// ConfigService wraps the config:* channels.
type ConfigService struct {
	bridge *ipc.Bridge
	log    *logger.Logger
}

// Get returns one setting value, or nil on failure.
func (s *ConfigService) Get(ctx context.Context, section, key string) any {
	value, err := s.bridge.Invoke(ctx, ipc.ChannelConfigGet,
		map[string]any{"section": section, "key": key})
	if err != nil {
		s.log.Warn("[Config] get %s.%s: %v", section, key, err)
		return nil
	}
	return value
}

// GetInt reads a numeric setting with a fallback.
func (s *ConfigService) GetInt(ctx context.Context, section, key string, fallback int) int {
	return config.Int(s.Get(ctx, section, key), fallback)
}

// GetBool reads a boolean setting with a fallback.
func (s *ConfigService) GetBool(ctx context.Context, section, key string, fallback bool) bool {
	return config.Bool(s.Get(ctx, section, key), fallback)
}

// GetString reads a string setting with a fallback.
func (s *ConfigService) GetString(ctx context.Context, section, key, fallback string) string {
	return config.String(s.Get(ctx, section, key), fallback)
}

// Set writes one setting value.
func (s *ConfigService) Set(ctx context.Context, section, key string, value any) error {
	_, err := s.bridge.Invoke(ctx, ipc.ChannelConfigSet,
		map[string]any{"section": section, "key": key, "value": value})
	return err
}

// GetSection returns a whole settings section, empty on failure.
func (s *ConfigService) GetSection(ctx context.Context, section string) map[string]any {
	values, err := ipc.Call[map[string]any](ctx, s.bridge, ipc.ChannelConfigGetSection,
		map[string]any{"section": section})
	if err != nil {
		s.log.Warn("[Config] getSection %s: %v", section, err)
		return map[string]any{}
	}
	return values
}

// SetSection merges values into a section.
func (s *ConfigService) SetSection(ctx context.Context, section string, values map[string]any) error {
	_, err := s.bridge.Invoke(ctx, ipc.ChannelConfigSetSection,
		map[string]any{"section": section, "values": values})
	return err
}

// GetAll returns every section, empty on failure.
func (s *ConfigService) GetAll(ctx context.Context) map[string]map[string]any {
	all, err := ipc.Call[map[string]map[string]any](ctx, s.bridge, ipc.ChannelConfigGetAll, nil)
	if err != nil {
		s.log.Warn("[Config] getAll: %v", err)
		return map[string]map[string]any{}
	}
	return all
}

// Reset restores one section to defaults.
func (s *ConfigService) Reset(ctx context.Context, section string) error {
	_, err := s.bridge.Invoke(ctx, ipc.ChannelConfigReset, map[string]any{"section": section})
	return err
}

// ResetAll restores every section to defaults.
func (s *ConfigService) ResetAll(ctx context.Context) error {
	_, err := s.bridge.Invoke(ctx, ipc.ChannelConfigResetAll, nil)
	return err
}

// OnChanged subscribes to settings change pushes.
func (s *ConfigService) OnChanged(fn func(payload any)) func() {
	return s.bridge.On(ipc.EventConfigChanged, fn)
}

// AppService wraps the app:* channels.
type AppService struct {
	bridge *ipc.Bridge
	log    *logger.Logger
}

func (s *AppService) Minimize(ctx context.Context) error {
	_, err := s.bridge.Invoke(ctx, ipc.ChannelAppMinimize, nil)
	return err
}

func (s *AppService) Maximize(ctx context.Context) error {
	_, err := s.bridge.Invoke(ctx, ipc.ChannelAppMaximize, nil)
	return err
}

func (s *AppService) Close(ctx context.Context) error {
	_, err := s.bridge.Invoke(ctx, ipc.ChannelAppClose, nil)
	return err
}

// Version returns the application version, "" on failure.
func (s *AppService) Version(ctx context.Context) string {
	version, err := ipc.Call[string](ctx, s.bridge, ipc.ChannelAppGetVersion, nil)
	if err != nil {
		s.log.Warn("[App] getVersion: %v", err)
		return ""
	}
	return version
}

// CheckForUpdates asks the backend whether a newer build exists.
func (s *AppService) CheckForUpdates(ctx context.Context) (map[string]any, error) {
	return ipc.Call[map[string]any](ctx, s.bridge, ipc.ChannelAppCheckForUpdates, nil)
}

// DatabaseService wraps the db:* maintenance channels.
type DatabaseService struct {
	bridge *ipc.Bridge
	log    *logger.Logger
}

// Initialize confirms the database connection is usable.
func (s *DatabaseService) Initialize(ctx context.Context) error {
	_, err := s.bridge.Invoke(ctx, ipc.ChannelDBInitialize, nil)
	return err
}

// ExecuteQuery runs a read-only query, empty on failure is NOT assumed:
// query errors propagate since the caller typed the SQL.
func (s *DatabaseService) ExecuteQuery(ctx context.Context, query string, args ...any) ([]map[string]any, error) {
	return ipc.Call[[]map[string]any](ctx, s.bridge, ipc.ChannelDBExecuteQuery,
		map[string]any{"query": query, "args": args})
}

// Backup writes a database snapshot and returns its path.
func (s *DatabaseService) Backup(ctx context.Context) (string, error) {
	data, err := ipc.Call[map[string]any](ctx, s.bridge, ipc.ChannelDBBackup, nil)
	if err != nil {
		return "", err
	}
	return config.String(data["path"], ""), nil
}

// OnBackupCompleted subscribes to backup completion pushes.
func (s *DatabaseService) OnBackupCompleted(fn func(payload any)) func() {
	return s.bridge.On(ipc.EventBackupCompleted, fn)
}
