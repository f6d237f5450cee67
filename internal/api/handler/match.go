package handler

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/battle-royale/internal/api/response"
	"github.com/mcoot/battle-royale/internal/model"
	"github.com/mcoot/battle-royale/internal/services/match"
	"github.com/mcoot/battle-royale/internal/services/scheduler"
)

// MatchHandler handles match endpoints
type MatchHandler struct {
	controller *match.Controller
	scheduler  *scheduler.Scheduler
}

// NewMatchHandler creates a new match handler
func NewMatchHandler(controller *match.Controller, scheduler *scheduler.Scheduler) *MatchHandler {
	return &MatchHandler{
		controller: controller,
		scheduler:  scheduler,
	}
}

func matchID(r *http.Request) model.MatchID {
	return model.MatchID(mux.Vars(r)["id"])
}

// Create handles POST /api/v1/matches
func (h *MatchHandler) Create(w http.ResponseWriter, r *http.Request) {
	m, key, err := h.controller.CreateMatch(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, response.CreateMatchResponse{
		Match:   response.MatchFromModel(m),
		HostKey: key,
	})
}

// List handles GET /api/v1/matches
func (h *MatchHandler) List(w http.ResponseWriter, r *http.Request) {
	matches, err := h.controller.ListMatches(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	resp := make([]response.Match, len(matches))
	for i, m := range matches {
		resp[i] = response.MatchFromModel(m)
	}
	response.JSON(w, http.StatusOK, resp)
}

// Get handles GET /api/v1/matches/{id}
func (h *MatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	m, err := h.controller.GetMatch(r.Context(), matchID(r))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.MatchFromModel(m))
}

// Delete handles DELETE /api/v1/matches/{id}
func (h *MatchHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := matchID(r)
	if err := h.controller.DeleteMatch(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// Start handles POST /api/v1/matches/{id}/start
func (h *MatchHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.control(w, r, h.scheduler.Start)
}

// Pause handles POST /api/v1/matches/{id}/pause
func (h *MatchHandler) Pause(w http.ResponseWriter, r *http.Request) {
	h.control(w, r, h.scheduler.Pause)
}

// Resume handles POST /api/v1/matches/{id}/resume
func (h *MatchHandler) Resume(w http.ResponseWriter, r *http.Request) {
	h.control(w, r, h.scheduler.Resume)
}

// Restart handles POST /api/v1/matches/{id}/restart
func (h *MatchHandler) Restart(w http.ResponseWriter, r *http.Request) {
	h.control(w, r, h.scheduler.Restart)
}

// Round handles POST /api/v1/matches/{id}/round, resolving one round on demand
func (h *MatchHandler) Round(w http.ResponseWriter, r *http.Request) {
	h.control(w, r, h.controller.AdvanceRound)
}

func (h *MatchHandler) control(w http.ResponseWriter, r *http.Request, op func(context.Context, model.MatchID) (*model.Match, error)) {
	m, err := op(r.Context(), matchID(r))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.MatchFromModel(m))
}

// Leaderboard handles GET /api/v1/matches/{id}/leaderboard
func (h *MatchHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	items, err := h.controller.Leaderboard(r.Context(), matchID(r))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.LeaderboardFromModel(items))
}

// Rounds handles GET /api/v1/matches/{id}/rounds, newest first
func (h *MatchHandler) Rounds(w http.ResponseWriter, r *http.Request) {
	rounds, err := h.controller.Rounds(r.Context(), matchID(r))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.RoundsFromModel(rounds))
}
