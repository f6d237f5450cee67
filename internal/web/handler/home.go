package handler

import (
	"net/http"

	"github.com/mcoot/battle-royale/internal/services/history"
	"github.com/mcoot/battle-royale/internal/services/match"
	"github.com/mcoot/battle-royale/internal/web/templates/components"
)

// HomeHandler handles the home page
type HomeHandler struct {
	controller *match.Controller
	history    history.ServiceInterface
}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler(controller *match.Controller, history history.ServiceInterface) *HomeHandler {
	return &HomeHandler{
		controller: controller,
		history:    history,
	}
}

// Home renders the list of matches and the history
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	matches, err := h.controller.ListMatches(r.Context())
	if err != nil {
		renderError(w, r, http.StatusInternalServerError, "Could not load matches")
		return
	}
	items, err := h.history.List(r.Context())
	if err != nil {
		renderError(w, r, http.StatusInternalServerError, "Could not load history")
		return
	}

	render(w, r, http.StatusOK, components.HomePage(matches, items))
}
