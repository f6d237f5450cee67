package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/battle-royale/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeInvalidHostKey    = "INVALID_HOST_KEY"
	CodeSettingsNotFound  = "SETTINGS_NOT_FOUND"
	CodeInvalidSettings   = "INVALID_SETTINGS"
	CodeMatchNotFound     = "MATCH_NOT_FOUND"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeMatchInProgress   = "MATCH_IN_PROGRESS"
	CodeHistoryNotFound   = "HISTORY_NOT_FOUND"
	CodeInternalError     = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status an error maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrSettingsNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeSettingsNotFound, "No settings have been saved"}}
	case errors.Is(err, model.ErrInvalidSettings):
		// Validation messages name the offending field
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidSettings, err.Error()}}
	case errors.Is(err, model.ErrMatchNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeMatchNotFound, "Match not found"}}
	case errors.Is(err, model.ErrInvalidTransition):
		return &httpError{http.StatusConflict, APIError{CodeInvalidTransition, err.Error()}}
	case errors.Is(err, model.ErrMatchInProgress):
		return &httpError{http.StatusConflict, APIError{CodeMatchInProgress, "Match is still in progress"}}
	case errors.Is(err, model.ErrInvalidHostKey):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidHostKey, "Invalid host key"}}
	case errors.Is(err, model.ErrHistoryNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeHistoryNotFound, "History item not found"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Host key required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
