package handlers

import (
	"net/http"
	"time"

	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bookmarks/internal/schema"
)

type buildInfo struct {
	Version   string `json:"version,omitempty"`
	Commit    string `json:"commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
	GoVersion string `json:"go_version,omitempty"`
}

type healthzResponse struct {
	Status        string    `json:"status"`
	Store         string    `json:"store"`
	StartedAt     string    `json:"started_at"`
	UptimeSeconds float64   `json:"uptime_seconds"`
	Build         buildInfo `json:"build"`
}

// Healthz reports process liveness and the configured store backend.
// It never touches the store; /readyz does.
func Healthz(d deps.Deps) http.HandlerFunc {
	build := buildInfo{
		Version:   d.Version,
		Commit:    d.Commit,
		BuildDate: d.BuildDate,
		GoVersion: d.GoVersion,
	}
	started := schema.FormatTime(d.StartTime)

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		writeJSON(w, http.StatusOK, healthzResponse{
			Status:        "ok",
			Store:         d.StoreBackend,
			StartedAt:     started,
			UptimeSeconds: time.Since(d.StartTime).Seconds(),
			Build:         build,
		})
	}
}
