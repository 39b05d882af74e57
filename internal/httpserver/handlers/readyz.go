package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bookmarks/internal/logger"
)

type componentStatus struct {
	OK      bool   `json:"ok"`
	Backend string `json:"backend,omitempty"`
	Error   string `json:"error,omitempty"`
}

type readyzResponse struct {
	Ready      bool                       `json:"ready"`
	Components map[string]componentStatus `json:"components"`
}

// Readyz reports whether the store answers. 503 when it does not.
func Readyz(d deps.Deps) http.HandlerFunc {
	timeout := d.ReadyTimeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}

	return func(w http.ResponseWriter, r *http.Request) {
		store := checkStore(r.Context(), d, timeout)

		status := http.StatusOK
		if !store.OK {
			status = http.StatusServiceUnavailable
		}

		w.Header().Set("Cache-Control", "no-store")
		writeJSON(w, status, readyzResponse{
			Ready:      store.OK,
			Components: map[string]componentStatus{"store": store},
		})
	}
}

func checkStore(ctx context.Context, d deps.Deps, timeout time.Duration) componentStatus {
	if d.Store == nil {
		return componentStatus{OK: false, Backend: d.StoreBackend, Error: "not initialized"}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := d.Store.Ping(ctx); err != nil {
		d.Logger.Warn("readiness probe failed",
			logger.Backend(d.StoreBackend),
			logger.Error(err),
		)
		return componentStatus{OK: false, Backend: d.StoreBackend, Error: "unreachable"}
	}
	return componentStatus{OK: true, Backend: d.StoreBackend}
}
