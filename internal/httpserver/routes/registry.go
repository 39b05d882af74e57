package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/mw"
)

type (
	Registrar func(r chi.Router, d deps.Deps)
	// Guard builds a per-route middleware once the dependencies are known.
	Guard func(d deps.Deps) func(http.Handler) http.Handler
)

type entry struct {
	reg    Registrar
	guards []Guard
}

var registry []entry

// Register a registrar with optional guards applied to every route it adds.
func Register(reg Registrar, guards ...Guard) {
	registry = append(registry, entry{reg: reg, guards: guards})
}

// RegisterAll mounts every registrar on r. Called once from NewRouter.
func RegisterAll(r chi.Router, d deps.Deps) {
	for _, e := range registry {
		if len(e.guards) == 0 {
			e.reg(r, d)
			continue
		}
		mws := make([]func(http.Handler) http.Handler, 0, len(e.guards))
		for _, g := range e.guards {
			mws = append(mws, g(d))
		}
		e.reg(r.With(mws...), d)
	}
}

// opsOnly restricts operational endpoints to the configured CIDRs.
func opsOnly(d deps.Deps) func(http.Handler) http.Handler {
	return mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger)
}

// knownHosts restricts the API to the configured Host headers.
func knownHosts(d deps.Deps) func(http.Handler) http.Handler {
	return mw.EnforceHost(d.AllowedHosts, d.Logger)
}

// authenticated requires a verified bearer token.
func authenticated(d deps.Deps) func(http.Handler) http.Handler {
	return mw.Authenticate(d.Verifier, d.Logger)
}
