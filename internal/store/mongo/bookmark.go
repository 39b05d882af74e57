package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
)

// Create inserts a new bookmark. Timestamps are kept at millisecond
// precision, which is what BSON dates hold.
func (s *Store) Create(ctx context.Context, b domain.Bookmark) (*domain.Bookmark, error) {
	b.ID = uuid.NewString()
	now := s.now().UTC().Truncate(time.Millisecond)
	b.CreatedAt = now
	b.UpdatedAt = now

	if _, err := s.coll.InsertOne(ctx, fromDomain(&b)); err != nil {
		return nil, domain.NewStorageError("create", fmt.Errorf("failed to insert bookmark: %w", err))
	}
	return &b, nil
}

// FindAll returns every bookmark of owner in creation order.
func (s *Store) FindAll(ctx context.Context, owner string) ([]domain.Bookmark, error) {
	bookmarks, err := s.find(ctx, ownerFilter(owner))
	if err != nil {
		return nil, domain.NewStorageError("find_all", err)
	}
	return bookmarks, nil
}

// FindByID retrieves a bookmark of owner, or nil.
func (s *Store) FindByID(ctx context.Context, id, owner string) (*domain.Bookmark, error) {
	b, err := decodeOne(s.coll.FindOne(ctx, idFilter(id, owner)))
	if err != nil {
		return nil, domain.NewStorageError("find_by_id", err)
	}
	return b, nil
}

// FindByTag returns owner's bookmarks carrying tag.
func (s *Store) FindByTag(ctx context.Context, tag, owner string) ([]domain.Bookmark, error) {
	bookmarks, err := s.find(ctx, tagFilter(tag, owner))
	if err != nil {
		return nil, domain.NewStorageError("find_by_tag", err)
	}
	return bookmarks, nil
}

// Update applies patch atomically and returns the document after the update, or nil.
func (s *Store) Update(ctx context.Context, id string, patch domain.BookmarkPatch, owner string) (*domain.Bookmark, error) {
	now := s.now().UTC().Truncate(time.Millisecond)
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	b, err := decodeOne(s.coll.FindOneAndUpdate(ctx, idFilter(id, owner), updateDoc(patch, now), opts))
	if err != nil {
		return nil, domain.NewStorageError("update", err)
	}
	return b, nil
}

// Delete removes a bookmark of owner and returns it, or nil.
func (s *Store) Delete(ctx context.Context, id, owner string) (*domain.Bookmark, error) {
	b, err := decodeOne(s.coll.FindOneAndDelete(ctx, idFilter(id, owner)))
	if err != nil {
		return nil, domain.NewStorageError("delete", err)
	}
	return b, nil
}

func (s *Store) find(ctx context.Context, filter bson.D) ([]domain.Bookmark, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})

	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookmarks: %w", err)
	}

	var docs []document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode bookmarks: %w", err)
	}

	bookmarks := make([]domain.Bookmark, 0, len(docs))
	for _, d := range docs {
		bookmarks = append(bookmarks, *d.toDomain())
	}
	return bookmarks, nil
}

// decodeOne maps ErrNoDocuments to (nil, nil).
func decodeOne(res *mongo.SingleResult) (*domain.Bookmark, error) {
	var doc document
	if err := res.Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return doc.toDomain(), nil
}
