package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/battle-royale/internal/services/history"
	"github.com/mcoot/battle-royale/internal/services/leaderboard"
	"github.com/mcoot/battle-royale/internal/services/match"
	"github.com/mcoot/battle-royale/internal/web/handler"
	"github.com/mcoot/battle-royale/internal/web/middleware"
	"github.com/mcoot/battle-royale/internal/web/sse"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger          *slog.Logger
	MatchController *match.Controller
	HistoryService  history.ServiceInterface
	Leaderboard     leaderboard.ServiceInterface
	HubManager      *sse.HubManager
	StaticDir       string // Path to static files directory
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create middleware
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// Apply global middleware to all routes
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	// Create live hub manager if not provided
	hubManager := cfg.HubManager
	if hubManager == nil {
		hubManager = sse.NewHubManager(cfg.Logger)
	}

	// Create handlers
	homeHandler := handler.NewHomeHandler(cfg.MatchController, cfg.HistoryService)
	matchHandler := handler.NewMatchHandler(cfg.MatchController, cfg.Leaderboard, hubManager, cfg.Logger)

	// Static files
	if cfg.StaticDir != "" {
		staticHandler := http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir)))
		r.PathPrefix("/static/").Handler(staticHandler)
	}

	// Pages
	r.HandleFunc("/", homeHandler.Home).Methods(http.MethodGet)
	r.HandleFunc("/matches/{id}", matchHandler.View).Methods(http.MethodGet)

	// Live streams
	r.HandleFunc("/matches/{id}/events", matchHandler.Events).Methods(http.MethodGet)
	r.HandleFunc("/matches/{id}/ws", matchHandler.Live).Methods(http.MethodGet)

	return r
}
