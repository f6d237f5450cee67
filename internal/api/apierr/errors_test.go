package apierr

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/battle-royale/internal/model"
)

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"settings not found", model.ErrSettingsNotFound, http.StatusNotFound},
		{"invalid settings", fmt.Errorf("%w: interval must be positive", model.ErrInvalidSettings), http.StatusBadRequest},
		{"match not found", model.ErrMatchNotFound, http.StatusNotFound},
		{"invalid transition", fmt.Errorf("%w: cannot pause", model.ErrInvalidTransition), http.StatusConflict},
		{"match in progress", model.ErrMatchInProgress, http.StatusConflict},
		{"invalid host key", model.ErrInvalidHostKey, http.StatusUnauthorized},
		{"history not found", model.ErrHistoryNotFound, http.StatusNotFound},
		{"invalid request", NewInvalidRequestError("bad"), http.StatusBadRequest},
		{"unauthorized", NewUnauthorizedError(), http.StatusUnauthorized},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Status(tt.err))
		})
	}
}

func TestWriteErrorBody(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, fmt.Errorf("%w: at least one player name is required", model.ErrInvalidSettings))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, CodeInvalidSettings, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "at least one player name")
}

func TestWriteErrorHidesInternalDetails(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, fmt.Errorf("redis: connection refused"))

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, CodeInternalError, resp.Error.Code)
	assert.NotContains(t, resp.Error.Message, "redis")
}
