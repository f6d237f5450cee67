package handler

import (
	"net/http"

	"github.com/mcoot/battle-royale/internal/api/request"
	"github.com/mcoot/battle-royale/internal/api/response"
	"github.com/mcoot/battle-royale/internal/model"
	"github.com/mcoot/battle-royale/internal/services/settings"
)

// SettingsHandler handles settings endpoints
type SettingsHandler struct {
	settings settings.ServiceInterface
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settings settings.ServiceInterface) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// Get handles GET /api/v1/settings
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.settings.Get(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.SettingsFromModel(*s))
}

// Put handles PUT /api/v1/settings
func (h *SettingsHandler) Put(w http.ResponseWriter, r *http.Request) {
	var req request.SettingsRequest
	if err := decodeBody(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}

	s, err := h.settings.Save(r.Context(), model.Settings{
		PlayerNames: req.PlayerNames,
		IntervalMs:  req.IntervalMs,
	})
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.SettingsFromModel(*s))
}

// Default handles GET /api/v1/settings/default
func (h *SettingsHandler) Default(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.SettingsFromModel(h.settings.Default()))
}
