package mw

import (
	"net/http"

	"github.com/rs/cors"

	"github.com/MrSnakeDoc/bookmarks/internal/logger"
)

// CORS answers preflight requests for the allowed origins. If the list is
// empty, it does NOT add any header (passthrough).
func CORS(origins []string, log logger.Logger) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		log.Debug("CORS: no allowed origins, passthrough mode")
		return func(next http.Handler) http.Handler { return next }
	}

	log.Debugf("CORS: initialized with origins=%v", origins)

	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Location", "X-Request-Id"},
		MaxAge:         600,
	})
	return c.Handler
}
