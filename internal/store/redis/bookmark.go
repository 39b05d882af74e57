package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
)

// Create stores a new bookmark and indexes it under its owner and tags.
func (s *Store) Create(ctx context.Context, b domain.Bookmark) (*domain.Bookmark, error) {
	b.ID = uuid.NewString()
	now := s.now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now

	seq, err := s.client.Incr(ctx, KeySequence).Result()
	if err != nil {
		return nil, domain.NewStorageError("create", fmt.Errorf("failed to allocate sequence: %w", err))
	}

	doc := fromDomain(&b)
	doc.Seq = seq
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, domain.NewStorageError("create", fmt.Errorf("failed to marshal bookmark: %w", err))
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, BookmarkKey(b.ID), data, 0)
		pipe.ZAdd(ctx, OwnerKey(b.Owner), redis.Z{Score: float64(seq), Member: b.ID})
		for _, tag := range b.Tags {
			pipe.ZAdd(ctx, TagKey(b.Owner, tag), redis.Z{Score: float64(seq), Member: b.ID})
		}
		return nil
	})
	if err != nil {
		return nil, domain.NewStorageError("create", fmt.Errorf("failed to save bookmark: %w", err))
	}

	return &b, nil
}

// FindAll returns every bookmark of owner in creation order.
func (s *Store) FindAll(ctx context.Context, owner string) ([]domain.Bookmark, error) {
	return s.loadIndex(ctx, "find_all", OwnerKey(owner), func(b *domain.Bookmark) bool {
		return b.Owner == owner
	})
}

// FindByID retrieves a bookmark of owner, or nil.
func (s *Store) FindByID(ctx context.Context, id, owner string) (*domain.Bookmark, error) {
	doc, err := get(ctx, s.client, id)
	if err != nil {
		return nil, domain.NewStorageError("find_by_id", err)
	}
	if doc == nil || doc.Owner != owner {
		return nil, nil
	}
	return doc.toDomain(), nil
}

// FindByTag returns owner's bookmarks carrying exactly tag, in creation order.
func (s *Store) FindByTag(ctx context.Context, tag, owner string) ([]domain.Bookmark, error) {
	// Owner and tag share the key space, so members are checked against the document.
	return s.loadIndex(ctx, "find_by_tag", TagKey(owner, tag), func(b *domain.Bookmark) bool {
		return b.Owner == owner && b.HasTag(tag)
	})
}

// Update applies patch under WATCH so a concurrent write aborts instead of being lost.
func (s *Store) Update(ctx context.Context, id string, patch domain.BookmarkPatch, owner string) (*domain.Bookmark, error) {
	key := BookmarkKey(id)
	var updated *domain.Bookmark

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		doc, err := get(ctx, tx, id)
		if err != nil {
			return err
		}
		if doc == nil || doc.Owner != owner {
			return nil
		}

		b := doc.toDomain()
		oldTags := slices.Clone(b.Tags)
		patch.Apply(b, s.now().UTC())

		next := fromDomain(b)
		next.Seq = doc.Seq
		data, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("failed to marshal bookmark: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			for _, tag := range oldTags {
				if !b.HasTag(tag) {
					pipe.ZRem(ctx, TagKey(owner, tag), id)
				}
			}
			for _, tag := range b.Tags {
				pipe.ZAdd(ctx, TagKey(owner, tag), redis.Z{Score: float64(doc.Seq), Member: id})
			}
			return nil
		})
		if err != nil {
			return err
		}
		updated = b
		return nil
	}, key)
	if err != nil {
		return nil, domain.NewStorageError("update", err)
	}

	return updated, nil
}

// Delete removes a bookmark of owner with its index entries and returns it, or nil.
func (s *Store) Delete(ctx context.Context, id, owner string) (*domain.Bookmark, error) {
	key := BookmarkKey(id)
	var deleted *domain.Bookmark

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		doc, err := get(ctx, tx, id)
		if err != nil {
			return err
		}
		if doc == nil || doc.Owner != owner {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			pipe.ZRem(ctx, OwnerKey(owner), id)
			for _, tag := range doc.Tags {
				pipe.ZRem(ctx, TagKey(owner, tag), id)
			}
			return nil
		})
		if err != nil {
			return err
		}
		deleted = doc.toDomain()
		return nil
	}, key)
	if err != nil {
		return nil, domain.NewStorageError("delete", err)
	}

	return deleted, nil
}

// loadIndex reads the ids of a sorted-set index in score order and loads the
// matching documents that satisfy keep.
func (s *Store) loadIndex(ctx context.Context, op, indexKey string, keep func(*domain.Bookmark) bool) ([]domain.Bookmark, error) {
	ids, err := s.client.ZRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		return nil, domain.NewStorageError(op, fmt.Errorf("failed to get bookmark IDs: %w", err))
	}

	bookmarks := make([]domain.Bookmark, 0, len(ids))
	if len(ids) == 0 {
		return bookmarks, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = BookmarkKey(id)
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, domain.NewStorageError(op, fmt.Errorf("failed to get bookmarks: %w", err))
	}

	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			// Removed between ZRANGE and MGET.
			continue
		}
		doc, err := decode([]byte(raw))
		if err != nil {
			return nil, domain.NewStorageError(op, err)
		}
		if b := doc.toDomain(); keep(b) {
			bookmarks = append(bookmarks, *b)
		}
	}

	return bookmarks, nil
}

// get loads a bookmark document by ID; a missing key yields (nil, nil).
func get(ctx context.Context, c redis.Cmdable, id string) (*document, error) {
	data, err := c.Get(ctx, BookmarkKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get bookmark: %w", err)
	}
	return decode(data)
}

func decode(data []byte) (*document, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bookmark: %w", err)
	}
	return &doc, nil
}
