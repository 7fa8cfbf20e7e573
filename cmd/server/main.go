// Package main provides the headless server mode for PersonaHub: the
// same channel surface as the desktop build, exposed over HTTP and
// WebSocket for browser or API clients.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"personahub/internal/config"
	"personahub/internal/handlers"
	"personahub/internal/ipc"
	"personahub/internal/llm"
	"personahub/internal/logger"
	"personahub/internal/scheduler"
	"personahub/internal/storage"
	"personahub/internal/ws"
)

const (
	defaultPort = 5700
	dbFileName  = "personahub.sqlite"
)

// Version is stamped by the build.
var Version = "dev"

// invokeRequest is the HTTP body for POST /api/invoke.
type invokeRequest struct {
	Channel string `json:"channel"`
	Payload any    `json:"payload,omitempty"`
}

func main() {
	// Optional .env for local runs; absence is not an error.
	_ = godotenv.Load()

	dataDir := config.GetDataDir()
	appLog, err := logger.NewWithFile("[PersonaHub] ", logger.LevelInfo, filepath.Join(dataDir, "logs"))
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer appLog.Close()

	port := defaultPort
	if envPort := os.Getenv("PORT"); envPort != "" {
		if p, err := strconv.Atoi(envPort); err == nil && p > 0 {
			port = p
		}
	}
	appLog.Info("starting PersonaHub server %s on port %d (data dir %s)", Version, port, dataDir)

	settings, err := config.NewStore(config.SettingsPath())
	if err != nil {
		log.Fatalf("init settings: %v", err)
	}

	store, err := storage.OpenSQLiteStore(filepath.Join(dataDir, dbFileName))
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer store.Close()

	events := ipc.NewEventBus()
	llmSvc := llm.NewService(settings, appLog)
	backupDir := filepath.Join(dataDir, "backups")

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
	})

	hub := ws.NewHub(appLog)
	hub.AttachEvents(events)
	go hub.Run()
	defer hub.Stop()

	backups := scheduler.New(store, settings, events, appLog, backupDir)
	if err := backups.Start(); err != nil {
		appLog.Warn("backup scheduler: %v", err)
	}
	defer backups.Stop()

	router := newRouter(registry, hub, appLog)
	server := &http.Server{
		Addr:              ":" + strconv.Itoa(port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Error("http server: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	appLog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLog.Error("shutdown: %v", err)
	}
}

func newRouter(registry *ipc.Registry, hub *ws.Hub, appLog *logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "version": Version})
		})

		r.Get("/channels", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, ipc.OK(registry.Channels()))
		})

		r.Post("/invoke", func(w http.ResponseWriter, req *http.Request) {
			var body invokeRequest
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				writeJSON(w, http.StatusBadRequest, ipc.Fail("invalid request body"))
				return
			}
			if body.Channel == "" {
				writeJSON(w, http.StatusBadRequest, ipc.Fail("channel is required"))
				return
			}

			raw, err := registry.Invoke(req.Context(), ipc.Channel(body.Channel), body.Payload)
			if err != nil {
				// Unknown channel or a dead backend: a transport-level
				// problem, distinct from handler failures.
				appLog.Warn("[HTTP] invoke %s: %v", body.Channel, err)
				writeJSON(w, http.StatusNotFound, ipc.Fail(err.Error()))
				return
			}
			writeJSON(w, http.StatusOK, ipc.Normalize(raw))
		})
	})

	r.Get("/ws", hub.HandleWebSocket)
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
