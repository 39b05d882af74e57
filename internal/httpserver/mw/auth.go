package mw

import (
	"net/http"

	"github.com/MrSnakeDoc/bookmarks/internal/auth"
	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/bookmarks/internal/logger"
)

// Authenticate requires a valid bearer token and puts the caller identity on
// the request context. Failures answer 401.
func Authenticate(v auth.Verifier, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := auth.BearerToken(r.Header.Get("Authorization"))
			if err == nil {
				var id auth.Identity
				if id, err = v.Verify(r.Context(), token); err == nil {
					setUserID(r.Context(), id.UserID)
					next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
					return
				}
			}

			log.Debug("authentication failed",
				logger.String("path", r.URL.Path),
				logger.Error(err),
			)
			handlers.WriteError(w, r, log, err)
		})
	}
}
