package main

import (
	"context"
	"embed"
	"log"
	"path/filepath"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"

	"personahub/internal/config"
	"personahub/internal/handlers"
	"personahub/internal/ipc"
	"personahub/internal/llm"
	"personahub/internal/logger"
	"personahub/internal/scheduler"
	"personahub/internal/storage"
)

//go:embed all:ui/dist
var assets embed.FS

// Version is stamped by the build; the fallback marks local builds.
var Version = "dev"

const dbFileName = "personahub.sqlite"

func main() {
	dataDir := config.GetDataDir()

	appLog, err := logger.NewWithFile("[PersonaHub] ", logger.LevelInfo, filepath.Join(dataDir, "logs"))
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer appLog.Close()

	appLog.Info("starting PersonaHub %s (data dir %s)", Version, dataDir)

	settings, err := config.NewStore(config.SettingsPath())
	if err != nil {
		appLog.Error("init settings: %v", err)
		log.Fatalf("init settings: %v", err)
	}

	store, err := storage.OpenSQLiteStore(filepath.Join(dataDir, dbFileName))
	if err != nil {
		appLog.Error("open database: %v", err)
		log.Fatalf("open database: %v", err)
	}

	events := ipc.NewEventBus()
	llmSvc := llm.NewService(settings, appLog)
	backupDir := filepath.Join(dataDir, "backups")

	app := NewApp(appLog)

	registry := ipc.NewRegistry()
	handlers.RegisterAll(registry, handlers.Deps{
		Store:     store,
		Config:    settings,
		LLM:       llmSvc,
		Analyzer:  llm.NewAnalyzer(llmSvc, store, appLog),
		Events:    events,
		Log:       appLog,
		Version:   Version,
		BackupDir: backupDir,
		Window:    app,
	})
	app.SetRegistry(registry)
	app.SetEvents(events)

	backups := scheduler.New(store, settings, events, appLog, backupDir)
	if err := backups.Start(); err != nil {
		appLog.Warn("backup scheduler: %v", err)
	}

	err = wails.Run(&options.App{
		Title:  "PersonaHub",
		Width:  1280,
		Height: 860,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour: &options.RGBA{R: 24, G: 26, B: 32, A: 1},
		OnStartup:        app.startup,
		OnShutdown: func(ctx context.Context) {
			appLog.Info("shutting down")
			backups.Stop()
			if err := store.Close(); err != nil {
				appLog.Error("close database: %v", err)
			}
		},
		Bind: []interface{}{
			app,
		},
	})
	if err != nil {
		appLog.Error("wails: %v", err)
	}
}
