package http

import (
	"crypto/subtle"
	"net/http"

	"github.com/thednalab/catalog-sync/internal/model"
)

const secretHeader = "X-Sync-Secret"

// RequireSecret guards the operator surface with a shared secret.
// Constant-time compare; the secret never appears in logs.
func RequireSecret(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(secretHeader)
			if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
				writeError(w, r, model.ErrUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
