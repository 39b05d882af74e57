// Package service holds the bookmark use cases between the HTTP layer and the store.
package service

import (
	"context"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
	"github.com/MrSnakeDoc/bookmarks/internal/logger"
	"github.com/MrSnakeDoc/bookmarks/internal/schema"
	"github.com/MrSnakeDoc/bookmarks/internal/store"
)

// BookmarkService exposes owner-scoped bookmark operations.
//
// Every method takes the caller's owner explicitly. A repository "not found"
// becomes a *domain.NotFoundError; any other repository error is returned as is.
type BookmarkService struct {
	repo store.BookmarkRepository
	log  logger.Logger
}

// NewBookmarkService creates a service on top of repo.
func NewBookmarkService(repo store.BookmarkRepository, log logger.Logger) *BookmarkService {
	return &BookmarkService{repo: repo, log: log}
}

// List returns every bookmark of owner.
func (s *BookmarkService) List(ctx context.Context, owner string) ([]schema.BookmarkResponse, error) {
	if owner == "" {
		return nil, domain.ErrUnauthorized
	}

	bookmarks, err := s.repo.FindAll(ctx, owner)
	if err != nil {
		return nil, err
	}
	return s.toResponses(bookmarks)
}

// ListByTag returns owner's bookmarks carrying tag. No match is an empty list.
func (s *BookmarkService) ListByTag(ctx context.Context, tag, owner string) ([]schema.BookmarkResponse, error) {
	if owner == "" {
		return nil, domain.ErrUnauthorized
	}

	bookmarks, err := s.repo.FindByTag(ctx, tag, owner)
	if err != nil {
		return nil, err
	}
	return s.toResponses(bookmarks)
}

// Get returns a single bookmark of owner.
func (s *BookmarkService) Get(ctx context.Context, id, owner string) (*schema.BookmarkResponse, error) {
	if owner == "" {
		return nil, domain.ErrUnauthorized
	}

	b, err := s.repo.FindByID(ctx, id, owner)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, &domain.NotFoundError{ID: id}
	}
	return s.toResponse(b)
}

// Create stores a validated payload for owner.
func (s *BookmarkService) Create(ctx context.Context, in schema.CreateBookmark, owner string) (*schema.BookmarkResponse, error) {
	if owner == "" {
		return nil, domain.ErrUnauthorized
	}

	b, err := s.repo.Create(ctx, in.ToDomain(owner))
	if err != nil {
		return nil, err
	}

	s.log.Debug("bookmark created",
		logger.BookmarkID(b.ID),
		logger.UserID(owner),
	)
	return s.toResponse(b)
}

// Update applies the supplied fields of in to bookmark id of owner.
func (s *BookmarkService) Update(ctx context.Context, id string, in schema.UpdateBookmark, owner string) (*schema.BookmarkResponse, error) {
	if owner == "" {
		return nil, domain.ErrUnauthorized
	}

	b, err := s.repo.Update(ctx, id, in.ToPatch(), owner)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, &domain.NotFoundError{ID: id}
	}
	return s.toResponse(b)
}

// Delete removes bookmark id of owner and returns what was removed.
func (s *BookmarkService) Delete(ctx context.Context, id, owner string) (*schema.BookmarkResponse, error) {
	if owner == "" {
		return nil, domain.ErrUnauthorized
	}

	b, err := s.repo.Delete(ctx, id, owner)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, &domain.NotFoundError{ID: id}
	}

	s.log.Debug("bookmark deleted",
		logger.BookmarkID(b.ID),
		logger.UserID(owner),
	)
	return s.toResponse(b)
}

// ---------- Mapping ----------

func (s *BookmarkService) toResponses(bookmarks []domain.Bookmark) ([]schema.BookmarkResponse, error) {
	out := make([]schema.BookmarkResponse, 0, len(bookmarks))
	for i := range bookmarks {
		r, err := s.toResponse(&bookmarks[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, nil
}

// toResponse refuses documents that lost a required field.
func (s *BookmarkService) toResponse(b *domain.Bookmark) (*schema.BookmarkResponse, error) {
	if b.URL == "" || b.Title == "" {
		s.log.Error("stored bookmark is missing required fields",
			logger.BookmarkID(b.ID),
			logger.Bool("has_url", b.URL != ""),
			logger.Bool("has_title", b.Title != ""),
		)
		return nil, &domain.InternalError{Msg: "bookmark " + b.ID + " is missing url or title"}
	}

	return &schema.BookmarkResponse{
		BookmarkID:  b.ID,
		URL:         b.URL,
		Title:       b.Title,
		Description: b.Description,
		Tags:        b.Tags,
		CreatedAt:   schema.FormatTime(b.CreatedAt),
		UpdatedAt:   schema.FormatTime(b.UpdatedAt),
	}, nil
}
