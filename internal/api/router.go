package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/battle-royale/internal/api/handler"
	"github.com/mcoot/battle-royale/internal/api/middleware"
	"github.com/mcoot/battle-royale/internal/api/response"
	"github.com/mcoot/battle-royale/internal/services/history"
	"github.com/mcoot/battle-royale/internal/services/match"
	"github.com/mcoot/battle-royale/internal/services/scheduler"
	"github.com/mcoot/battle-royale/internal/services/settings"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger          *slog.Logger
	SettingsService settings.ServiceInterface
	HistoryService  history.ServiceInterface
	MatchController *match.Controller
	Scheduler       *scheduler.Scheduler
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	Register(r, cfg)
	return r
}

// Register mounts the API routes under /api/v1 on an existing router
func Register(r *mux.Router, cfg RouterConfig) {
	// Create handlers
	settingsHandler := handler.NewSettingsHandler(cfg.SettingsService)
	matchHandler := handler.NewMatchHandler(cfg.MatchController, cfg.Scheduler)
	historyHandler := handler.NewHistoryHandler(cfg.HistoryService)

	// Create middleware
	hostKeyMiddleware := middleware.HostKey(cfg.MatchController)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler(cfg.Scheduler)).Methods(http.MethodGet)

	// Settings routes
	api.HandleFunc("/settings", settingsHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/settings", settingsHandler.Put).Methods(http.MethodPut)
	api.HandleFunc("/settings/default", settingsHandler.Default).Methods(http.MethodGet)

	// Public match routes
	api.HandleFunc("/matches", matchHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/matches", matchHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/matches/{id}", matchHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/matches/{id}/leaderboard", matchHandler.Leaderboard).Methods(http.MethodGet)
	api.HandleFunc("/matches/{id}/rounds", matchHandler.Rounds).Methods(http.MethodGet)

	// Host-only match routes
	host := api.PathPrefix("/matches/{id}").Subrouter()
	host.Use(hostKeyMiddleware)
	host.HandleFunc("", matchHandler.Delete).Methods(http.MethodDelete)
	host.HandleFunc("/start", matchHandler.Start).Methods(http.MethodPost)
	host.HandleFunc("/pause", matchHandler.Pause).Methods(http.MethodPost)
	host.HandleFunc("/resume", matchHandler.Resume).Methods(http.MethodPost)
	host.HandleFunc("/restart", matchHandler.Restart).Methods(http.MethodPost)
	host.HandleFunc("/round", matchHandler.Round).Methods(http.MethodPost)

	// History routes
	api.HandleFunc("/history", historyHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/history", historyHandler.Remove).Methods(http.MethodDelete)
	api.HandleFunc("/history/export", historyHandler.Export).Methods(http.MethodGet)
}

func healthHandler(sched *scheduler.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		health := response.Health{Status: "ok"}
		if sched != nil {
			health.ActiveLoops = sched.Active()
		}
		response.JSON(w, http.StatusOK, health)
	}
}
