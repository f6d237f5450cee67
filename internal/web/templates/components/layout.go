package components

import (
	"context"
	"io"
	"net/http"

	"github.com/a-h/templ"
)

// Layout wraps body in the base page with htmx and its SSE extension loaded
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		hw.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		hw.raw(`<title>`)
		hw.text(title)
		hw.raw(`</title>`)
		hw.raw(`<link rel="stylesheet" href="/static/style.css">`)
		hw.raw(`<script src="https://unpkg.com/htmx.org@2.0.4"></script>`)
		hw.raw(`<script src="https://unpkg.com/htmx-ext-sse@2.2.2/sse.js"></script>`)
		hw.raw(`</head><body>`)
		hw.component(ctx, body)
		hw.raw(`</body></html>`)
		return hw.err
	})
}

// ErrorPage renders a minimal error page
func ErrorPage(status int, message string) templ.Component {
	return Layout("Battle Royale", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw(`<main class="error"><h1>`)
		hw.text(http.StatusText(status))
		hw.raw(`</h1><p class="error-message">`)
		hw.text(message)
		hw.raw(`</p></main>`)
		return hw.err
	}))
}
