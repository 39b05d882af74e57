package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
	"github.com/MrSnakeDoc/bookmarks/internal/store"
)

var _ store.BookmarkRepository = (*Store)(nil)

// Store persists bookmarks as JSON documents in Redis.
//
// Layout:
//
//	bookmarks:bookmark:<id>  -> JSON document (no TTL)
//	bookmarks:owner:<owner>  -> ZSET of ids scored by creation sequence
//	bookmarks:tag:<owner>:<tag> -> ZSET of tagged ids, same scores
type Store struct {
	client *redis.Client
	now    func() time.Time
}

// NewStore creates a new Redis store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
		now:    time.Now,
	}
}

// Ping checks that Redis answers.
func (s *Store) Ping(ctx context.Context) error {
	return domain.NewStorageError("ping", s.client.Ping(ctx).Err())
}

// document is the stored JSON shape of a bookmark.
type document struct {
	BookmarkID  string    `json:"bookmark_id"`
	Seq         int64     `json:"seq"`
	Owner       string    `json:"owner"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
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
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
