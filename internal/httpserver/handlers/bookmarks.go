package handlers

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/bookmarks/internal/auth"
	"github.com/MrSnakeDoc/bookmarks/internal/domain"
	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bookmarks/internal/schema"
)

// ListBookmarks handles GET /bookmarks.
func ListBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := d.Bookmarks.List(r.Context(), auth.UserID(r.Context()))
		if err != nil {
			WriteError(w, r, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// ListBookmarksByTag handles GET /bookmarks/tags/{tagName}.
func ListBookmarksByTag(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tag, err := pathParam(r, "tagName")
		if err != nil {
			WriteError(w, r, d.Logger, err)
			return
		}
		out, err := d.Bookmarks.ListByTag(r.Context(), tag, auth.UserID(r.Context()))
		if err != nil {
			WriteError(w, r, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// GetBookmark handles GET /bookmarks/{id}.
func GetBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathParam(r, "id")
		if err != nil {
			WriteError(w, r, d.Logger, err)
			return
		}
		out, err := d.Bookmarks.Get(r.Context(), id, auth.UserID(r.Context()))
		if err != nil {
			WriteError(w, r, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// CreateBookmark handles POST /bookmarks.
func CreateBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in schema.CreateBookmark
		if err := d.Validator.Bind(r.Body, &in); err != nil {
			WriteError(w, r, d.Logger, err)
			return
		}

		out, err := d.Bookmarks.Create(r.Context(), in, auth.UserID(r.Context()))
		if err != nil {
			WriteError(w, r, d.Logger, err)
			return
		}

		w.Header().Set("Location", "/bookmarks/"+url.PathEscape(out.BookmarkID))
		writeJSON(w, http.StatusCreated, out)
	}
}

// UpdateBookmark handles PATCH /bookmarks/{id}.
func UpdateBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in schema.UpdateBookmark
		if err := d.Validator.Bind(r.Body, &in); err != nil {
			WriteError(w, r, d.Logger, err)
			return
		}

		id, err := pathParam(r, "id")
		if err != nil {
			WriteError(w, r, d.Logger, err)
			return
		}
		out, err := d.Bookmarks.Update(r.Context(), id, in, auth.UserID(r.Context()))
		if err != nil {
			WriteError(w, r, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// DeleteBookmark handles DELETE /bookmarks/{id}.
func DeleteBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathParam(r, "id")
		if err != nil {
			WriteError(w, r, d.Logger, err)
			return
		}
		out, err := d.Bookmarks.Delete(r.Context(), id, auth.UserID(r.Context()))
		if err != nil {
			WriteError(w, r, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// pathParam returns the decoded value of a route parameter. chi matches on the
// escaped path when one is present, so the captured value is still escaped.
func pathParam(r *http.Request, name string) (string, error) {
	v := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return v, nil
	}
	decoded, err := url.PathUnescape(v)
	if err != nil {
		return "", &domain.ValidationError{Errors: []string{name + ": malformed path parameter"}}
	}
	return decoded, nil
}
