package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/battle-royale/internal/api/apierr"
	"github.com/mcoot/battle-royale/internal/middleware"
)

// Recovery creates panic recovery middleware for the API
// Returns JSON error responses on panic
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, apiPanicHandler)
}

// Logging creates request logging for the API. Health checks log at debug.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Logging(logger, isHealthCheck)
}

func isHealthCheck(r *http.Request) bool {
	return r.URL.Path == "/api/v1/health"
}

func apiPanicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	apierr.WriteError(w, apierr.NewInternalError())
}
