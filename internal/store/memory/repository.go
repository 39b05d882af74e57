// Package memory is an in-process BookmarkRepository, used for local runs and tests.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
	"github.com/MrSnakeDoc/bookmarks/internal/store"
)

var _ store.BookmarkRepository = (*Repository)(nil)

// Repository keeps bookmarks in a map guarded by a RWMutex.
type Repository struct {
	mu        sync.RWMutex
	bookmarks map[string]domain.Bookmark
	order     []string // ids in insertion order
	now       func() time.Time
}

// New returns an empty repository.
func New() *Repository {
	return &Repository{
		bookmarks: make(map[string]domain.Bookmark),
		now:       time.Now,
	}
}

// WithClock overrides the time source (tests).
func (r *Repository) WithClock(now func() time.Time) *Repository {
	r.now = now
	return r
}

func (r *Repository) Create(_ context.Context, b domain.Bookmark) (*domain.Bookmark, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b.ID = uuid.NewString()
	now := r.now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now
	b.Tags = slices.Clone(b.Tags)

	r.bookmarks[b.ID] = b
	r.order = append(r.order, b.ID)

	return clone(b), nil
}

func (r *Repository) FindAll(_ context.Context, owner string) ([]domain.Bookmark, error) {
	return r.collect(func(b *domain.Bookmark) bool { return b.Owner == owner }), nil
}

func (r *Repository) FindByID(_ context.Context, id, owner string) (*domain.Bookmark, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bookmarks[id]
	if !ok || b.Owner != owner {
		return nil, nil
	}
	return clone(b), nil
}

func (r *Repository) FindByTag(_ context.Context, tag, owner string) ([]domain.Bookmark, error) {
	return r.collect(func(b *domain.Bookmark) bool { return b.Owner == owner && b.HasTag(tag) }), nil
}

func (r *Repository) Update(_ context.Context, id string, patch domain.BookmarkPatch, owner string) (*domain.Bookmark, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookmarks[id]
	if !ok || b.Owner != owner {
		return nil, nil
	}

	patch.Apply(&b, r.now().UTC())
	r.bookmarks[id] = b

	return clone(b), nil
}

func (r *Repository) Delete(_ context.Context, id, owner string) (*domain.Bookmark, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookmarks[id]
	if !ok || b.Owner != owner {
		return nil, nil
	}

	delete(r.bookmarks, id)
	r.order = slices.DeleteFunc(r.order, func(v string) bool { return v == id })

	return clone(b), nil
}

func (r *Repository) Ping(context.Context) error { return nil }

func (r *Repository) collect(match func(*domain.Bookmark) bool) []domain.Bookmark {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Bookmark, 0)
	for _, id := range r.order {
		b := r.bookmarks[id]
		if match(&b) {
			out = append(out, *clone(b))
		}
	}
	return out
}

// clone detaches the tag slice from the stored copy.
func clone(b domain.Bookmark) *domain.Bookmark {
	b.Tags = slices.Clone(b.Tags)
	return &b
}
