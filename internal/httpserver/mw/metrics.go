package mw

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/bookmarks/internal/metrics"
)

// Metrics records one observation per request, labelled with the chi route
// pattern. A nil m disables it.
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	if m == nil {
		return func(next http.Handler) http.Handler { return next }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			done := m.RequestStarted()
			defer done()

			ww := &statusWriter{ResponseWriter: w}
			next.ServeHTTP(ww, r)

			var route string
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				route = rctx.RoutePattern()
			}
			m.ObserveRequest(r.Method, route, ww.code(), time.Since(start))
		})
	}
}
