package handler

import (
	"net/http"

	"github.com/mcoot/battle-royale/internal/api/apierr"
	"github.com/mcoot/battle-royale/internal/api/request"
	"github.com/mcoot/battle-royale/internal/api/response"
	"github.com/mcoot/battle-royale/internal/services/history"
)

// HistoryHandler handles match history endpoints
type HistoryHandler struct {
	history history.ServiceInterface
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(history history.ServiceInterface) *HistoryHandler {
	return &HistoryHandler{history: history}
}

// List handles GET /api/v1/history
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.history.List(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.HistoryFromModel(items))
}

// Remove handles DELETE /api/v1/history
func (h *HistoryHandler) Remove(w http.ResponseWriter, r *http.Request) {
	var req request.RemoveHistoryRequest
	if err := decodeBody(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if len(req.Dates) == 0 {
		WriteError(w, apierr.NewInvalidRequestError("At least one date is required"))
		return
	}

	removed, err := h.history.Remove(r.Context(), req.Dates)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.RemoveHistoryResponse{Removed: removed})
}

// Export handles GET /api/v1/history/export
func (h *HistoryHandler) Export(w http.ResponseWriter, r *http.Request) {
	items, err := h.history.Export(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.Attachment(w, "history.json", response.HistoryFromModel(items))
}
