package response

import (
	"encoding/json"
	"mime"
	"net/http"
)

// JSON writes data with the given status. Match state moves on every tick, so
// API responses are never cached.
func JSON(w http.ResponseWriter, status int, data any) {
	setJSONHeaders(w)
	w.WriteHeader(status)
	if data != nil {
		encode(w, data, false)
	}
}

// Attachment writes data as a downloadable, indented JSON file. Exported
// history is meant to be read back as a seed file, so it stays human-editable.
func Attachment(w http.ResponseWriter, filename string, data any) {
	setJSONHeaders(w)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.WriteHeader(http.StatusOK)
	encode(w, data, true)
}

// NoContent acknowledges a host action that has nothing to return
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func setJSONHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
}

// encode errors are dropped: the status line is already on the wire
func encode(w http.ResponseWriter, data any, indent bool) {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	_ = enc.Encode(data)
}
