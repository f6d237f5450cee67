package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/battle-royale/internal/model"
	"github.com/mcoot/battle-royale/internal/services/leaderboard"
	"github.com/mcoot/battle-royale/internal/services/match"
	"github.com/mcoot/battle-royale/internal/web/sse"
	"github.com/mcoot/battle-royale/internal/web/templates/components"
	"github.com/mcoot/battle-royale/internal/web/ws"
)

// MatchHandler serves the match page and its live streams
type MatchHandler struct {
	controller  *match.Controller
	leaderboard leaderboard.ServiceInterface
	hubManager  *sse.HubManager
	logger      *slog.Logger
}

// NewMatchHandler creates a new MatchHandler
func NewMatchHandler(controller *match.Controller, leaderboard leaderboard.ServiceInterface, hubManager *sse.HubManager, logger *slog.Logger) *MatchHandler {
	return &MatchHandler{
		controller:  controller,
		leaderboard: leaderboard,
		hubManager:  hubManager,
		logger:      logger,
	}
}

// View renders the match page
func (h *MatchHandler) View(w http.ResponseWriter, r *http.Request) {
	m, ok := h.loadMatch(w, r)
	if !ok {
		return
	}

	ranking := h.leaderboard.Rank(m.Players)
	view := components.MatchView{
		Match:       m,
		Leaderboard: ranking,
		Rounds:      model.NewestFirst(m.Rounds),
	}
	if m.State == model.MatchStateFinished {
		view.Announcement = h.leaderboard.Announcement(ranking)
	}

	render(w, r, http.StatusOK, components.MatchPage(view))
}

// Events streams live HTML fragments over SSE
func (h *MatchHandler) Events(w http.ResponseWriter, r *http.Request) {
	m, ok := h.loadMatch(w, r)
	if !ok {
		return
	}
	sse.ServeSSE(w, r, h.hubManager.GetOrCreateHub(m.ID), r.RemoteAddr)
}

// Live streams live JSON updates over WebSocket
func (h *MatchHandler) Live(w http.ResponseWriter, r *http.Request) {
	m, ok := h.loadMatch(w, r)
	if !ok {
		return
	}
	ws.Serve(w, r, h.hubManager.GetOrCreateHub(m.ID), r.RemoteAddr, h.logger)
}

func (h *MatchHandler) loadMatch(w http.ResponseWriter, r *http.Request) (*model.Match, bool) {
	id := model.MatchID(mux.Vars(r)["id"])
	m, err := h.controller.GetMatch(r.Context(), id)
	if errors.Is(err, model.ErrMatchNotFound) {
		renderError(w, r, http.StatusNotFound, "Match "+string(id)+" does not exist")
		return nil, false
	}
	if err != nil {
		h.logger.Error("failed to load match", slog.String("match_id", string(id)), slog.String("error", err.Error()))
		renderError(w, r, http.StatusInternalServerError, "Could not load match")
		return nil, false
	}
	return m, true
}
