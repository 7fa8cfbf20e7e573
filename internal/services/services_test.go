package services

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"personahub/internal/config"
	"personahub/internal/handlers"
	"personahub/internal/ipc"
	"personahub/internal/llm"
	"personahub/internal/logger"
	"personahub/internal/storage"
)

func newTestServices(t *testing.T) *Services {
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
	reg := ipc.NewRegistry()
	handlers.RegisterAll(reg, handlers.Deps{
		Store:     store,
		Config:    cfgStore,
		LLM:       llmSvc,
		Analyzer:  llm.NewAnalyzer(llmSvc, store, log),
		Events:    ipc.NewEventBus(),
		Log:       log,
		Version:   "0.0.0-test",
		BackupDir: filepath.Join(dir, "backups"),
	})
	return New(ipc.NewBridge(reg), log)
}

func TestReadMethodsReturnEmptyNotNil(t *testing.T) {
	t.Parallel()
	svcs := newTestServices(t)
	ctx := context.Background()

	if got := svcs.Profile.GetAll(ctx); got == nil {
		t.Error("Profile.GetAll on empty DB should return an empty slice, not nil")
	}
	if got := svcs.Quote.GetAll(ctx); got == nil {
		t.Error("Quote.GetAll on empty DB should return an empty slice, not nil")
	}
	if got := svcs.Experience.GetTimeline(ctx, 1); got == nil {
		t.Error("Experience.GetTimeline should return an empty slice, not nil")
	}
}

func TestReadMethodsSwallowTransportFailure(t *testing.T) {
	t.Parallel()
	// Bridge with no transport: every invoke fails, reads still come
	// back empty.
	log := logger.New("[test] ", logger.LevelError, io.Discard)
	svcs := New(ipc.NewBridge(nil), log)
	ctx := context.Background()

	if got := svcs.Profile.GetAll(ctx); got == nil || len(got) != 0 {
		t.Errorf("Profile.GetAll over dead bridge = %v, want empty slice", got)
	}
	if got := svcs.Quote.GetRandom(ctx); got != nil {
		t.Errorf("Quote.GetRandom over dead bridge = %v, want nil", got)
	}

	// Write methods surface the transport error.
	if _, err := svcs.Profile.Create(ctx, &storage.Profile{Name: "x"}); err == nil {
		t.Error("Profile.Create over dead bridge should fail")
	}
}

func TestProfileWriteThenRead(t *testing.T) {
	t.Parallel()
	svcs := newTestServices(t)
	ctx := context.Background()

	created, err := svcs.Profile.Create(ctx, &storage.Profile{Name: "Grace Hopper"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("created profile has no id")
	}

	got := svcs.Profile.GetByID(ctx, created.ID)
	if got == nil || got.Name != "Grace Hopper" {
		t.Errorf("GetByID = %+v", got)
	}

	if err := svcs.Profile.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got := svcs.Profile.GetByID(ctx, created.ID); got != nil {
		t.Error("GetByID after delete should be nil")
	}
}

func TestLLMConfigCacheInvalidation(t *testing.T) {
	t.Parallel()
	svcs := newTestServices(t)
	ctx := context.Background()

	if got := svcs.LLM.GetAllConfigs(ctx); len(got) != 0 {
		t.Fatalf("initial configs = %d, want 0", len(got))
	}

	_, err := svcs.LLM.SaveConfig(ctx, &llm.Config{
		Name: "work", Provider: llm.ProviderOpenAI, ModelID: "gpt-4o", Temperature: 0.7,
	})
	if err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	// The save invalidated the cache, so the new config is visible.
	if got := svcs.LLM.GetAllConfigs(ctx); len(got) != 1 {
		t.Errorf("configs after save = %d, want 1", len(got))
	}
}

func TestLLMClearCache(t *testing.T) {
	t.Parallel()
	svcs := newTestServices(t)
	ctx := context.Background()

	models := svcs.LLM.GetAvailableModels(ctx, llm.ProviderOpenAI)
	if len(models) == 0 {
		t.Fatal("catalog should not be empty")
	}
	svcs.LLM.ClearCache()
	if again := svcs.LLM.GetAvailableModels(ctx, llm.ProviderOpenAI); len(again) != len(models) {
		t.Errorf("models after ClearCache = %d, want %d", len(again), len(models))
	}
}

func TestConfigServiceTypedReads(t *testing.T) {
	t.Parallel()
	svcs := newTestServices(t)
	ctx := context.Background()

	if got := svcs.Config.GetInt(ctx, "ui", "pageSize", 0); got != 20 {
		t.Errorf("ui.pageSize = %d, want 20", got)
	}
	if got := svcs.Config.GetInt(ctx, "ui", "missingKey", 7); got != 7 {
		t.Errorf("missing key fallback = %d, want 7", got)
	}
	if err := svcs.Config.Set(ctx, "ui", "pageSize", 40); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := svcs.Config.GetInt(ctx, "ui", "pageSize", 0); got != 40 {
		t.Errorf("ui.pageSize after set = %d, want 40", got)
	}
}
