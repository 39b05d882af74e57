package deps

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/bookmarks/internal/auth"
	"github.com/MrSnakeDoc/bookmarks/internal/logger"
	"github.com/MrSnakeDoc/bookmarks/internal/metrics"
	"github.com/MrSnakeDoc/bookmarks/internal/service"
	"github.com/MrSnakeDoc/bookmarks/internal/validation"
)

// Pinger reports whether a backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Logger       logger.Logger
	StartTime    time.Time
	Version      string
	Commit       string
	BuildDate    string
	GoVersion    string
	Bookmarks    *service.BookmarkService // Bookmark use cases
	Validator    *validation.Validator    // Request body validation
	Verifier     auth.Verifier            // Bearer token verification
	Store        Pinger                   // Storage backend, probed by /readyz
	StoreBackend string                   // "mongo" | "redis" | "memory"
	Metrics      *metrics.Metrics         // Prometheus collectors (nil disables /metrics)
	ReadyTimeout time.Duration            // Timeout of the /readyz store probe
	CORSOrigins  []string                 // Allowed CORS origins (empty = CORS disabled)
	AllowedHosts []string                 // Host headers allowed to access the server
	AllowedCIDRS []string                 // IPs allowed to access readyz/metrics endpoints
	TrustProxy   bool                     // true if running behind a trusted reverse proxy (e.g., cloudflared)
}
