package handler

import (
	"net/http"

	"github.com/a-h/templ"

	"github.com/mcoot/battle-royale/internal/web/templates/components"
)

func render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	// Headers are already sent; a failed render can only be abandoned
	_ = c.Render(r.Context(), w)
}

func renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	render(w, r, status, components.ErrorPage(status, message))
}
