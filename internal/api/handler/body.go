package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mcoot/battle-royale/internal/api/apierr"
)

// maxBodyBytes caps request bodies; the largest is a roster of names
const maxBodyBytes = 64 << 10

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// decodeBody parses a JSON request body into v.
// Malformed or oversized bodies become an INVALID_REQUEST error.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		return apierr.NewInvalidRequestError("Invalid request body")
	}
	return nil
}
