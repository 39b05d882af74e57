package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/handlers"
)

func init() { Register(registerBookmarks, knownHosts, authenticated) }

func registerBookmarks(r chi.Router, d deps.Deps) {
	r.Route("/bookmarks", func(r chi.Router) {
		r.Get("/", handlers.ListBookmarks(d))
		r.Post("/", handlers.CreateBookmark(d))
		r.Get("/tags/{tagName}", handlers.ListBookmarksByTag(d))
		r.Get("/{id}", handlers.GetBookmark(d))
		r.Patch("/{id}", handlers.UpdateBookmark(d))
		r.Delete("/{id}", handlers.DeleteBookmark(d))
	})
}
