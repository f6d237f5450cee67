package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/battle-royale/internal/middleware"
	"github.com/mcoot/battle-royale/internal/web/templates/components"
)

// Recovery renders the HTML error page when a page handler panics
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, renderPanicPage)
}

func renderPanicPage(w http.ResponseWriter, r *http.Request, _ any) {
	// Streams have already written headers; there is nothing left to render into
	if r.Header.Get("Accept") == "text/event-stream" {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_ = components.ErrorPage(http.StatusInternalServerError, "The arena fell over. Please try again.").Render(r.Context(), w)
}
