package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/battle-royale/internal/dependencies/clock"
	"github.com/mcoot/battle-royale/internal/dependencies/random"
	"github.com/mcoot/battle-royale/internal/services/battle"
	"github.com/mcoot/battle-royale/internal/services/history"
	"github.com/mcoot/battle-royale/internal/services/hostkey"
	"github.com/mcoot/battle-royale/internal/services/leaderboard"
	"github.com/mcoot/battle-royale/internal/services/match"
	"github.com/mcoot/battle-royale/internal/services/scheduler"
	"github.com/mcoot/battle-royale/internal/services/settings"
	"github.com/mcoot/battle-royale/internal/storage"
	"github.com/mcoot/battle-royale/internal/storage/memory"
	redisstorage "github.com/mcoot/battle-royale/internal/storage/redis"
	"github.com/mcoot/battle-royale/internal/storage/sqlite"
	"github.com/mcoot/battle-royale/internal/web/sse"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
	StorageTypeSQLite = "sqlite"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Resolver        *battle.Resolver
	Leaderboard     *leaderboard.Service
	SettingsService *settings.Service
	HistoryService  *history.Service
	HostKeys        *hostkey.Service
	MatchController *match.Controller
	Scheduler       *scheduler.Scheduler

	// Live feeds
	HubManager  *sse.HubManager
	Broadcaster *sse.Broadcaster
}

// Config holds configuration for the application factory
type Config struct {
	// HostKeyConfig holds configuration for host key hashing (optional)
	// If zero value, defaults to hostkey.DefaultConfig()
	HostKeyConfig hostkey.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "sqlite")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SQLitePath is the database file (required if StorageType is "sqlite")
	SQLitePath string
	// Random overrides the crypto source, e.g. with a seeded one for replays (optional)
	Random random.Random
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, err := openStorage(cfg)
	if err != nil {
		return nil, err
	}

	// Create external dependencies
	clk := clock.New()
	var rnd random.Random = random.New()
	if cfg.Random != nil {
		rnd = cfg.Random
	}

	hostKeyCfg := cfg.HostKeyConfig
	if hostKeyCfg.Cost == 0 {
		hostKeyCfg = hostkey.DefaultConfig()
	}

	app := newWithDependencies(store, clk, rnd, hostKeyCfg, logger)

	// Matches left running or paused by a previous process get their loops back
	if _, err := app.Scheduler.Recover(context.Background()); err != nil {
		_ = app.Close()
		return nil, err
	}
	return app, nil
}

func openStorage(cfg Config) (storage.Storage, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		return memory.New(), nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		return redisstorage.New(*cfg.RedisConfig)
	case StorageTypeSQLite:
		if cfg.SQLitePath == "" {
			return nil, errors.New("SQLitePath required when StorageType is sqlite")
		}
		return sqlite.Open(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be 'memory', 'redis' or 'sqlite'", storageType)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, hostKeyCfg hostkey.Config, logger *slog.Logger) *App {
	resolver := battle.New(rnd)
	ranking := leaderboard.New()
	settingsService := settings.New(store, rnd, logger)
	historyService := history.New(store, ranking, clk, logger)
	hostKeys := hostkey.New(rnd, hostKeyCfg)
	controller := match.NewController(
		store,
		match.NewReducer(resolver, clk),
		ranking,
		historyService,
		hostKeys,
		clk,
		rnd,
		logger,
	)
	hubManager := sse.NewHubManager(logger)
	broadcaster := sse.NewBroadcaster(hubManager, ranking, logger)
	controller.Subscribe(broadcaster)

	return &App{
		Storage:         store,
		Clock:           clk,
		Random:          rnd,
		Resolver:        resolver,
		Leaderboard:     ranking,
		SettingsService: settingsService,
		HistoryService:  historyService,
		HostKeys:        hostKeys,
		MatchController: controller,
		Scheduler:       scheduler.New(controller, clk, logger),
		HubManager:      hubManager,
		Broadcaster:     broadcaster,
	}
}

// Close stops running matches, disconnects live viewers and releases storage
func (a *App) Close() error {
	a.Scheduler.Shutdown()
	a.HubManager.CloseAll()
	if closer, ok := a.Storage.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
