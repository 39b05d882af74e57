package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/deps"
)

func init() { Register(registerMetrics, opsOnly) }

func registerMetrics(r chi.Router, d deps.Deps) {
	if d.Metrics == nil {
		return
	}
	r.Handle("/metrics", d.Metrics.Handler())
}
