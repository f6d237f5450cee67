package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mcoot/battle-royale/internal/api"
	"github.com/mcoot/battle-royale/internal/config"
	"github.com/mcoot/battle-royale/internal/factory"
	"github.com/mcoot/battle-royale/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func run(cfg config.Server, logger *slog.Logger) error {
	// Create application factory
	app, err := factory.New(cfg.FactoryConfig(logger))
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("failed to close application", slog.String("error", err.Error()))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Merge the static history file
	if cfg.HistorySeedPath != "" {
		loaded, err := app.HistoryService.LoadSeed(ctx, cfg.HistorySeedPath)
		if err != nil {
			logger.Warn("could not load history seed",
				slog.String("path", cfg.HistorySeedPath),
				slog.String("error", err.Error()))
		} else {
			logger.Info("history seed loaded", slog.Int("items", loaded))
		}
	}

	staticDir := cfg.StaticDir
	if info, err := os.Stat(staticDir); err != nil || !info.IsDir() {
		logger.Warn("static directory not found", slog.String("path", staticDir))
		staticDir = ""
	}

	// Create API router
	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:          logger,
		SettingsService: app.SettingsService,
		HistoryService:  app.HistoryService,
		MatchController: app.MatchController,
		Scheduler:       app.Scheduler,
	})

	// Create web router
	webRouter := web.NewRouter(web.RouterConfig{
		Logger:          logger,
		MatchController: app.MatchController,
		HistoryService:  app.HistoryService,
		Leaderboard:     app.Leaderboard,
		HubManager:      app.HubManager,
		StaticDir:       staticDir,
	})

	// Combine routers
	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/", webRouter)

	server := api.NewServer(mux, cfg.HTTPConfig(), logger)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return server.Run(gctx)
	})

	g.Go(func() error {
		cleanupHubs(gctx, app, cfg.HubCleanupInterval)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutdown signal received")
		// Live streams hold connections open, so end them alongside the server shutdown
		app.Scheduler.Shutdown()
		app.HubManager.CloseAll()
		return nil
	})

	return g.Wait()
}

// cleanupHubs periodically closes live hubs nobody is watching
func cleanupHubs(ctx context.Context, app *factory.App, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := app.Clock.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			app.HubManager.CleanupEmptyHubs()
		}
	}
}
