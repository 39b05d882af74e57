// Package mongo is the MongoDB document store for bookmarks.
package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
	"github.com/MrSnakeDoc/bookmarks/internal/store"
)

// CollectionName holds one document per bookmark.
const CollectionName = "bookmarks"

var _ store.BookmarkRepository = (*Store)(nil)

// Store persists bookmarks in a MongoDB collection.
type Store struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewStore binds a store to the bookmarks collection of db.
func NewStore(db *mongo.Database) *Store {
	return &Store{
		coll: db.Collection(CollectionName),
		now:  time.Now,
	}
}

// EnsureIndexes creates the indexes the queries rely on. It is idempotent.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "bookmark_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("bookmark_id_unique"),
		},
		{
			Keys:    bson.D{{Key: "owner", Value: 1}, {Key: "createdAt", Value: 1}},
			Options: options.Index().SetName("owner_created"),
		},
		{
			Keys:    bson.D{{Key: "owner", Value: 1}, {Key: "tags", Value: 1}},
			Options: options.Index().SetName("owner_tags"),
		},
	})
	return domain.NewStorageError("ensure_indexes", err)
}

// Ping checks that the primary answers.
func (s *Store) Ping(ctx context.Context) error {
	return domain.NewStorageError("ping", s.coll.Database().Client().Ping(ctx, readpref.Primary()))
}

// document is the stored BSON shape of a bookmark. The driver adds _id.
type document struct {
	BookmarkID  string    `bson:"bookmark_id"`
	Owner       string    `bson:"owner"`
	URL         string    `bson:"url"`
	Title       string    `bson:"title"`
	Description string    `bson:"description,omitempty"`
	Tags        []string  `bson:"tags,omitempty"`
	CreatedAt   time.Time `bson:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}

func fromDomain(b *domain.Bookmark) document {
	return document{
		BookmarkID:  b.ID,
		Owner:       b.Owner,
		URL:         b.URL,
		Title:       b.Title,
		Description: b.Description,
		Tags:        b.Tags,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func (d document) toDomain() *domain.Bookmark {
	return &domain.Bookmark{
		ID:          d.BookmarkID,
		Owner:       d.Owner,
		URL:         d.URL,
		Title:       d.Title,
		Description: d.Description,
		Tags:        d.Tags,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

// ---------- Queries ----------

func ownerFilter(owner string) bson.D {
	return bson.D{{Key: "owner", Value: owner}}
}

func idFilter(id, owner string) bson.D {
	return bson.D{{Key: "bookmark_id", Value: id}, {Key: "owner", Value: owner}}
}

// tagFilter matches documents whose tags array holds tag exactly.
func tagFilter(tag, owner string) bson.D {
	return bson.D{{Key: "owner", Value: owner}, {Key: "tags", Value: tag}}
}

// updateDoc sets only the fields present in patch, plus updatedAt.
func updateDoc(patch domain.BookmarkPatch, now time.Time) bson.D {
	set := bson.D{}
	if patch.URL != nil {
		set = append(set, bson.E{Key: "url", Value: *patch.URL})
	}
	if patch.Title != nil {
		set = append(set, bson.E{Key: "title", Value: *patch.Title})
	}
	if patch.Description != nil {
		set = append(set, bson.E{Key: "description", Value: *patch.Description})
	}
	if patch.Tags != nil {
		set = append(set, bson.E{Key: "tags", Value: patch.Tags})
	}
	set = append(set, bson.E{Key: "updatedAt", Value: now})
	return bson.D{{Key: "$set", Value: set}}
}
