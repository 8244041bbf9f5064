// Package main is the entry point for the Become Fat Simulator game server.
// It only handles dependency injection and server initialization.
// NO business logic belongs here.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MRamiBalles/fatsim/server/internal/engine"
	"github.com/MRamiBalles/fatsim/server/internal/events"
	"github.com/MRamiBalles/fatsim/server/internal/infra/storage"
	"github.com/MRamiBalles/fatsim/server/internal/network"
	"github.com/MRamiBalles/fatsim/server/internal/platform/config"
	"github.com/MRamiBalles/fatsim/server/internal/platform/logger"
	"github.com/MRamiBalles/fatsim/server/internal/platform/metrics"
)

func main() {
	log.Println("[FATSIM-SERVER] Initializing 'Become Fat Simulator' server...")

	appLogger := logger.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		appLogger.Error("Failed to load configuration: " + err.Error())
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	saveStore, eventRepo, closeDB := openStorage(cfg, appLogger)
	defer closeDB()

	stateRepo := storage.NewStateRepository(saveStore, cfg.SaveKey, appLogger)
	initial, err := stateRepo.Load(ctx)
	if err != nil {
		// Unreadable store: play on from defaults rather than refuse to start.
		appLogger.Errorf("Failed to load save %q: %v", stateRepo.Key(), err)
	}

	appLogger.Info("Bootstrapping EventLog...")
	eventLog := events.NewEventLog(storage.NewEventSink(eventRepo))
	eventLog.SetMaxEvents(cfg.EventLogSize)
	eventLog.OnPersistError(func(err error) {
		metrics.Get().RecordEventWriteError()
		appLogger.Warnf("Event write-through failed: %v", err)
	})

	appLogger.Info("Bootstrapping Engine...")
	gameEngine := engine.NewEngine(initial, stateRepo.Key(), eventLog, stateRepo, appLogger)
	gameEngine.SetTickRate(cfg.TickRate)
	gameEngine.Start(ctx)

	appLogger.Info("Bootstrapping WebSocket Hub...")
	tuning := cfg.Tuning()
	hub := network.NewHub(gameEngine, tuning, appLogger)
	go hub.Run(ctx)
	hub.StartStatePoller(ctx)
	hub.StartEventPoller(ctx, eventLog)

	go watchMetrics(ctx, hub, cfg.DBPath, appLogger)

	// Setup API Routes
	mux := http.NewServeMux()
	network.NewGameAPI(gameEngine, appLogger).RegisterRoutes(mux)
	network.NewHistoryHandler(eventLog, storage.NewReconstructor(eventRepo), stateRepo.Key(), appLogger).RegisterRoutes(mux)
	mux.HandleFunc("/metrics", metrics.Handler())
	mux.HandleFunc("/metrics/prometheus", metrics.PrometheusHandler())

	upgrader := network.NewUpgrader(cfg.AllowedOrigin)
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(upgrader, w, r)
	})
	mux.Handle("/", http.FileServer(http.Dir(cfg.StaticDir)))

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           withCORS(cfg.AllowedOrigin, mux),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("[FATSIM-SERVER] HTTP API & WS Server listening on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	log.Println("[FATSIM-SERVER] Server running. Press Ctrl+C to exit.")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[FATSIM-SERVER] Shutting down...")
	gameEngine.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Errorf("HTTP shutdown: %v", err)
	}

	// Final save so an interrupted tick is never lost.
	if err := stateRepo.Save(shutdownCtx, gameEngine.Snapshot()); err != nil {
		appLogger.Errorf("Final save failed: %v", err)
	}
}

// openStorage picks SQLite when a path is configured and memory otherwise.
func openStorage(cfg config.Config, appLogger *logger.Logger) (storage.SaveStore, storage.EventRepository, func()) {
	if cfg.DBPath == "" {
		appLogger.Warn("FATSIM_DB_PATH is empty; progress will not survive a restart")
		return storage.NewMemorySaveStore(), storage.NewMemoryEventRepository(), func() {}
	}

	appLogger.Infof("Initializing SQLite database '%s'...", cfg.DBPath)
	db, err := storage.InitSQLite(cfg.DBPath)
	if err != nil {
		appLogger.Error("Failed to initialize SQLite: " + err.Error())
		os.Exit(1)
	}
	return storage.NewSQLiteSaveStore(db), storage.NewSQLiteEventRepository(db), func() { db.Close() }
}

// watchMetrics reads the live counters once a minute, retunes the hub and
// logs what it cannot fix itself.
func watchMetrics(ctx context.Context, hub *network.Hub, dbPath string, appLogger *logger.Logger) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rec := config.Analyze(metrics.Get().Snapshot())
			for _, note := range rec.Notes {
				appLogger.Warn("[TUNING] " + note)
			}
			hub.ApplyRecommendations(rec)
			if rec.SlowStorage {
				appLogger.Warnf("[TUNING] Storage at %q is slow or failing; saves stay synchronous", dbPath)
			}
		}
	}
}

// withCORS lets a separately served frontend reach the API.
func withCORS(allowedOrigin string, next http.Handler) http.Handler {
	if allowedOrigin == "" {
		allowedOrigin = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
