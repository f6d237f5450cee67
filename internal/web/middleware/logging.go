package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/mcoot/battle-royale/internal/middleware"
)

// Logging creates request logging for the web interface. Static assets log at debug.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Logging(logger, isStaticAsset)
}

func isStaticAsset(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/static/")
}
