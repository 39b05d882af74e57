// Package store defines the persistence contract for bookmarks.
//
// Every method is scoped by owner: a bookmark owned by another user is
// indistinguishable from a missing one.
package store

import (
	"context"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
)

// BookmarkRepository persists bookmarks. Lookups that match nothing return
// (nil, nil); errors are reserved for backend failures and are reported as
// *domain.StorageError.
type BookmarkRepository interface {
	// Create assigns a fresh id and timestamps to b, stores it and returns the stored document.
	Create(ctx context.Context, b domain.Bookmark) (*domain.Bookmark, error)

	// FindAll returns every bookmark of owner in creation order.
	FindAll(ctx context.Context, owner string) ([]domain.Bookmark, error)

	// FindByID returns the bookmark id if it belongs to owner.
	FindByID(ctx context.Context, id, owner string) (*domain.Bookmark, error)

	// FindByTag returns the bookmarks of owner whose tags contain tag exactly.
	FindByTag(ctx context.Context, tag, owner string) ([]domain.Bookmark, error)

	// Update applies patch to the bookmark id of owner and refreshes UpdatedAt.
	Update(ctx context.Context, id string, patch domain.BookmarkPatch, owner string) (*domain.Bookmark, error)

	// Delete removes the bookmark id of owner and returns it.
	Delete(ctx context.Context, id, owner string) (*domain.Bookmark, error)

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
}
