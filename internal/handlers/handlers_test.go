package handlers

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"personahub/internal/config"
	"personahub/internal/ipc"
	"personahub/internal/llm"
	"personahub/internal/logger"
	"personahub/internal/storage"
)

func newTestRegistry(t *testing.T) (*ipc.Registry, Deps) {
	t.Helper()
	dir := t.TempDir()

	store, err := storage.OpenSQLiteStore(filepath.Join(dir, "test.sqlite"))
	if err != nil {
		t.Fatalf("OpenSQLiteStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	cfgStore, err := config.NewStore(filepath.Join(dir, "settings.json"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	log := logger.New("[test] ", logger.LevelError, io.Discard)
	llmSvc := llm.NewService(cfgStore, log)
	d := Deps{
		Store:     store,
		Config:    cfgStore,
		LLM:       llmSvc,
		Analyzer:  llm.NewAnalyzer(llmSvc, store, log),
		Events:    ipc.NewEventBus(),
		Log:       log,
		Version:   "1.2.3",
		BackupDir: filepath.Join(dir, "backups"),
	}
	reg := ipc.NewRegistry()
	RegisterAll(reg, d)
	return reg, d
}

// invoke runs a channel and normalizes the result the way the bridge does.
func invoke(t *testing.T, reg *ipc.Registry, ch ipc.Channel, payload any) ipc.Response {
	t.Helper()
	raw, err := reg.Invoke(context.Background(), ch, payload)
	if err != nil {
		t.Fatalf("Invoke(%s) transport error: %v", ch, err)
	}
	return ipc.Normalize(raw)
}

func TestProfileLifecycleOverChannels(t *testing.T) {
	t.Parallel()
	reg, _ := newTestRegistry(t)

	resp := invoke(t, reg, ipc.ChannelProfileCreate, map[string]any{
		"name": "Marie Curie",
		"bio":  "Physicist and chemist",
		"tags": []string{"science"},
	})
	if !resp.Success {
		t.Fatalf("create failed: %s", resp.Error)
	}
	created, ok := resp.Data.(*storage.Profile)
	if !ok {
		t.Fatalf("create data = %T, want *storage.Profile", resp.Data)
	}

	resp = invoke(t, reg, ipc.ChannelProfileGetByID, map[string]any{"id": created.ID})
	if !resp.Success {
		t.Fatalf("getById failed: %s", resp.Error)
	}

	resp = invoke(t, reg, ipc.ChannelProfileUpdate, map[string]any{
		"id":   created.ID,
		"name": "Marie Skłodowska-Curie",
	})
	if !resp.Success {
		t.Fatalf("update failed: %s", resp.Error)
	}

	resp = invoke(t, reg, ipc.ChannelProfileDelete, map[string]any{"id": created.ID})
	if !resp.Success {
		t.Fatalf("delete failed: %s", resp.Error)
	}

	// Gone now; the handler error surfaces as a failure envelope, not a
	// transport error.
	resp = invoke(t, reg, ipc.ChannelProfileGetByID, map[string]any{"id": created.ID})
	if resp.Success {
		t.Error("getById after delete should fail")
	}
	if resp.Error == "" {
		t.Error("failure envelope should carry an error message")
	}
}

func TestUnknownChannelIsTransportError(t *testing.T) {
	t.Parallel()
	reg, _ := newTestRegistry(t)

	_, err := reg.Invoke(context.Background(), ipc.Channel("db:profile:nope"), nil)
	if !errors.Is(err, ipc.ErrChannelNotFound) {
		t.Errorf("Invoke(unknown) error = %v, want ErrChannelNotFound", err)
	}
}

func TestEntityChangeEventsEmitted(t *testing.T) {
	t.Parallel()
	reg, d := newTestRegistry(t)

	var events []entityChange
	d.Events.On(ipc.EventEntityChanged, func(payload any) {
		if change, ok := payload.(entityChange); ok {
			events = append(events, change)
		}
	})

	resp := invoke(t, reg, ipc.ChannelProfileCreate, map[string]any{"name": "Ada"})
	if !resp.Success {
		t.Fatalf("create failed: %s", resp.Error)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Entity != "profile" || events[0].Action != "create" {
		t.Errorf("event = %+v", events[0])
	}
}

func TestQuoteChannelsRequireExistingProfile(t *testing.T) {
	t.Parallel()
	reg, _ := newTestRegistry(t)

	// Foreign key: a quote for a missing profile fails cleanly.
	resp := invoke(t, reg, ipc.ChannelQuoteCreate, map[string]any{
		"profileId": 9999,
		"content":   "no such person",
	})
	if resp.Success {
		t.Error("quote create for missing profile should fail")
	}

	created := invoke(t, reg, ipc.ChannelProfileCreate, map[string]any{"name": "Ada"})
	profile := created.Data.(*storage.Profile)

	resp = invoke(t, reg, ipc.ChannelQuoteCreate, map[string]any{
		"profileId": profile.ID,
		"content":   "That brain of mine is something more than merely mortal.",
	})
	if !resp.Success {
		t.Fatalf("quote create failed: %s", resp.Error)
	}

	resp = invoke(t, reg, ipc.ChannelQuoteGetByProfile, map[string]any{"profileId": profile.ID})
	if !resp.Success {
		t.Fatalf("getByProfile failed: %s", resp.Error)
	}
	quotes := resp.Data.([]*storage.Quote)
	if len(quotes) != 1 {
		t.Errorf("got %d quotes, want 1", len(quotes))
	}
}

func TestConfigChannels(t *testing.T) {
	t.Parallel()
	reg, _ := newTestRegistry(t)

	resp := invoke(t, reg, ipc.ChannelConfigGet, map[string]any{"section": "ui", "key": "pageSize"})
	if !resp.Success {
		t.Fatalf("config:get failed: %s", resp.Error)
	}
	if got := config.Int(resp.Data, 0); got != 20 {
		t.Errorf("default ui.pageSize = %v, want 20", resp.Data)
	}

	resp = invoke(t, reg, ipc.ChannelConfigSet, map[string]any{
		"section": "ui", "key": "pageSize", "value": 50,
	})
	if !resp.Success {
		t.Fatalf("config:set failed: %s", resp.Error)
	}

	resp = invoke(t, reg, ipc.ChannelConfigGet, map[string]any{"section": "ui", "key": "pageSize"})
	if got := config.Int(resp.Data, 0); got != 50 {
		t.Errorf("ui.pageSize after set = %v, want 50", resp.Data)
	}

	resp = invoke(t, reg, ipc.ChannelConfigReset, map[string]any{"section": "ui"})
	if !resp.Success {
		t.Fatalf("config:reset failed: %s", resp.Error)
	}
	resp = invoke(t, reg, ipc.ChannelConfigGet, map[string]any{"section": "ui", "key": "pageSize"})
	if got := config.Int(resp.Data, 0); got != 20 {
		t.Errorf("ui.pageSize after reset = %v, want 20", resp.Data)
	}

	resp = invoke(t, reg, ipc.ChannelConfigGetSection, map[string]any{"section": "bogus"})
	if resp.Success {
		t.Error("config:getSection for unknown section should fail")
	}
}

func TestAppChannels(t *testing.T) {
	t.Parallel()
	reg, _ := newTestRegistry(t)

	resp := invoke(t, reg, ipc.ChannelAppGetVersion, nil)
	if !resp.Success || resp.Data != "1.2.3" {
		t.Errorf("app:getVersion = %+v", resp)
	}

	// Headless: window channels fail but stay inside the envelope.
	resp = invoke(t, reg, ipc.ChannelAppMinimize, nil)
	if resp.Success {
		t.Error("app:minimize without a window should fail")
	}
}

func TestExecuteQueryChannelRejectsWrites(t *testing.T) {
	t.Parallel()
	reg, _ := newTestRegistry(t)

	resp := invoke(t, reg, ipc.ChannelDBExecuteQuery, map[string]any{
		"query": "DELETE FROM profiles",
	})
	if resp.Success {
		t.Error("db:executeQuery should reject non-SELECT statements")
	}

	resp = invoke(t, reg, ipc.ChannelDBExecuteQuery, map[string]any{
		"query": "SELECT COUNT(*) AS n FROM profiles",
	})
	if !resp.Success {
		t.Fatalf("SELECT failed: %s", resp.Error)
	}
	rows := resp.Data.([]map[string]any)
	if len(rows) != 1 {
		t.Errorf("got %d rows, want 1", len(rows))
	}
}

func TestBackupChannelEmitsEvent(t *testing.T) {
	t.Parallel()
	reg, d := newTestRegistry(t)

	done := make(chan any, 1)
	d.Events.Once(ipc.EventBackupCompleted, func(payload any) {
		done <- payload
	})

	resp := invoke(t, reg, ipc.ChannelDBBackup, nil)
	if !resp.Success {
		t.Fatalf("db:backup failed: %s", resp.Error)
	}
	select {
	case payload := <-done:
		m, ok := payload.(map[string]any)
		if !ok || m["path"] == "" {
			t.Errorf("backup event payload = %v", payload)
		}
	default:
		t.Error("backup event was not emitted")
	}
}

func TestLLMGetProvidersChannel(t *testing.T) {
	t.Parallel()
	reg, _ := newTestRegistry(t)

	resp := invoke(t, reg, ipc.ChannelLLMGetProviders, nil)
	if !resp.Success {
		t.Fatalf("llm:getProviders failed: %s", resp.Error)
	}
	providers := resp.Data.([]*llm.Provider)
	if len(providers) == 0 {
		t.Fatal("expected a non-empty provider list")
	}
	defaults := 0
	for _, p := range providers {
		if p.IsDefault {
			defaults++
		}
	}
	if defaults != 1 {
		t.Errorf("want exactly 1 default provider, got %d", defaults)
	}
}

func TestLLMConfigChannels(t *testing.T) {
	t.Parallel()
	reg, _ := newTestRegistry(t)

	resp := invoke(t, reg, ipc.ChannelLLMSaveConfig, map[string]any{
		"name":        "work",
		"provider":    "openai",
		"modelId":     "gpt-4o",
		"temperature": 0.7,
	})
	if !resp.Success {
		t.Fatalf("llm:saveConfig failed: %s", resp.Error)
	}
	saved := resp.Data.(*llm.Config)
	if !saved.IsDefault {
		t.Error("first config should become default")
	}

	resp = invoke(t, reg, ipc.ChannelLLMGetAllConfigs, nil)
	if !resp.Success {
		t.Fatalf("llm:getAllConfigs failed: %s", resp.Error)
	}
	configs := resp.Data.([]llm.Config)
	if len(configs) != 1 {
		t.Errorf("got %d configs, want 1", len(configs))
	}

	resp = invoke(t, reg, ipc.ChannelLLMDeleteConfig, map[string]any{"id": saved.ID})
	if !resp.Success {
		t.Fatalf("llm:deleteConfig failed: %s", resp.Error)
	}
}

func TestLLMAPIKeyChannelMasksKey(t *testing.T) {
	t.Parallel()
	reg, _ := newTestRegistry(t)

	raw := "sk-abcdefghijklmnop1234"
	resp := invoke(t, reg, ipc.ChannelLLMSetAPIKey, map[string]any{
		"provider": "openai", "key": raw,
	})
	if !resp.Success {
		t.Fatalf("llm:setApiKey failed: %s", resp.Error)
	}

	resp = invoke(t, reg, ipc.ChannelLLMGetAPIKey, map[string]any{"provider": "openai"})
	if !resp.Success {
		t.Fatalf("llm:getApiKey failed: %s", resp.Error)
	}
	data := resp.Data.(map[string]any)
	if data["masked"] == raw {
		t.Error("getApiKey must not return the raw key")
	}
	if data["hasKey"] != true {
		t.Errorf("hasKey = %v, want true", data["hasKey"])
	}
}

func TestLLMTemplateChannels(t *testing.T) {
	t.Parallel()
	reg, _ := newTestRegistry(t)

	resp := invoke(t, reg, ipc.ChannelLLMSaveTemplate, map[string]any{
		"name":    "bio prompt",
		"content": "Write a bio for {{name}}",
	})
	if !resp.Success {
		t.Fatalf("llm:saveTemplate failed: %s", resp.Error)
	}
	tpl := resp.Data.(*llm.PromptTemplate)
	if len(tpl.Variables) != 1 || tpl.Variables[0] != "name" {
		t.Errorf("Variables = %v, want [name]", tpl.Variables)
	}

	resp = invoke(t, reg, ipc.ChannelLLMGetAllTemplates, nil)
	if !resp.Success {
		t.Fatalf("llm:getAllTemplates failed: %s", resp.Error)
	}
	if templates := resp.Data.([]llm.PromptTemplate); len(templates) != 1 {
		t.Errorf("got %d templates, want 1", len(templates))
	}
}
