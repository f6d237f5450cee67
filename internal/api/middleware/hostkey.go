package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mcoot/battle-royale/internal/api/apierr"
	"github.com/mcoot/battle-royale/internal/model"
)

// HostKeyVerifier checks a host key against a match
type HostKeyVerifier interface {
	VerifyHostKey(ctx context.Context, id model.MatchID, key string) error
}

// HostKey creates middleware that only lets the match host through.
// The match ID is taken from the {id} route variable.
func HostKey(verifier HostKeyVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := extractHostKey(r)
			if key == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			id := model.MatchID(mux.Vars(r)["id"])
			if err := verifier.VerifyHostKey(r.Context(), id, key); err != nil {
				apierr.WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// extractHostKey extracts the host key from the request
func extractHostKey(r *http.Request) string {
	// Check Authorization header first
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	// Fall back to cookie
	cookie, err := r.Cookie("host_key")
	if err == nil {
		return cookie.Value
	}

	return ""
}
