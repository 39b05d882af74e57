// Package storetest holds the behavioural tests every BookmarkRepository backend must pass.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
	"github.com/MrSnakeDoc/bookmarks/internal/store"
)

// Factory returns an empty repository for one subtest.
type Factory func(t *testing.T) store.BookmarkRepository

func strPtr(s string) *string { return &s }

func sample(owner, title string, tags ...string) domain.Bookmark {
	return domain.Bookmark{
		Owner: owner,
		URL:   "https://example.com/" + title,
		Title: title,
		Tags:  tags,
	}
}

// Run executes the contract against repositories built by newRepo.
func Run(t *testing.T, newRepo Factory) {
	ctx := context.Background()

	t.Run("create assigns unique ids and timestamps", func(t *testing.T) {
		repo := newRepo(t)

		seen := map[string]bool{}
		for i := 0; i < 5; i++ {
			b, err := repo.Create(ctx, sample("alice", "Example"))
			require.NoError(t, err)
			require.NotNil(t, b)
			require.NotEmpty(t, b.ID)
			assert.False(t, seen[b.ID], "id %s reused", b.ID)
			seen[b.ID] = true
			assert.False(t, b.CreatedAt.IsZero())
			assert.Equal(t, b.CreatedAt, b.UpdatedAt)
			assert.Equal(t, "alice", b.Owner)
		}
	})

	t.Run("find by id is owner scoped", func(t *testing.T) {
		repo := newRepo(t)

		created, err := repo.Create(ctx, sample("alice", "Example", "a"))
		require.NoError(t, err)

		got, err := repo.FindByID(ctx, created.ID, "alice")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, "Example", got.Title)
		assert.Equal(t, []string{"a"}, got.Tags)
		assert.True(t, created.CreatedAt.Equal(got.CreatedAt))

		other, err := repo.FindByID(ctx, created.ID, "bob")
		require.NoError(t, err)
		assert.Nil(t, other)

		missing, err := repo.FindByID(ctx, "does-not-exist", "alice")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("find all returns only the owner's bookmarks in creation order", func(t *testing.T) {
		repo := newRepo(t)

		first, err := repo.Create(ctx, sample("alice", "First"))
		require.NoError(t, err)
		_, err = repo.Create(ctx, sample("bob", "Other"))
		require.NoError(t, err)
		second, err := repo.Create(ctx, sample("alice", "Second"))
		require.NoError(t, err)

		all, err := repo.FindAll(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, first.ID, all[0].ID)
		assert.Equal(t, second.ID, all[1].ID)

		none, err := repo.FindAll(ctx, "carol")
		require.NoError(t, err)
		assert.NotNil(t, none)
		assert.Empty(t, none)
	})

	t.Run("find by tag is an exact match", func(t *testing.T) {
		repo := newRepo(t)

		tagged, err := repo.Create(ctx, sample("alice", "Tagged", "a", "b"))
		require.NoError(t, err)
		_, err = repo.Create(ctx, sample("alice", "Untagged"))
		require.NoError(t, err)
		_, err = repo.Create(ctx, sample("bob", "Foreign", "a"))
		require.NoError(t, err)

		byA, err := repo.FindByTag(ctx, "a", "alice")
		require.NoError(t, err)
		require.Len(t, byA, 1)
		assert.Equal(t, tagged.ID, byA[0].ID)

		byC, err := repo.FindByTag(ctx, "c", "alice")
		require.NoError(t, err)
		assert.Empty(t, byC)

		partial, err := repo.FindByTag(ctx, "A", "alice")
		require.NoError(t, err)
		assert.Empty(t, partial)
	})

	t.Run("update applies only supplied fields", func(t *testing.T) {
		repo := newRepo(t)

		created, err := repo.Create(ctx, domain.Bookmark{
			Owner:       "alice",
			URL:         "https://example.com",
			Title:       "Example",
			Description: "desc",
			Tags:        []string{"a"},
		})
		require.NoError(t, err)

		updated, err := repo.Update(ctx, created.ID, domain.BookmarkPatch{Title: strPtr("Renamed")}, "alice")
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.Equal(t, "Renamed", updated.Title)
		assert.Equal(t, "https://example.com", updated.URL)
		assert.Equal(t, "desc", updated.Description)
		assert.Equal(t, []string{"a"}, updated.Tags)
		assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))
		assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

		reloaded, err := repo.FindByID(ctx, created.ID, "alice")
		require.NoError(t, err)
		require.NotNil(t, reloaded)
		assert.Equal(t, "Renamed", reloaded.Title)
	})

	t.Run("empty update leaves content unchanged", func(t *testing.T) {
		repo := newRepo(t)

		created, err := repo.Create(ctx, sample("alice", "Example", "a", "b"))
		require.NoError(t, err)

		updated, err := repo.Update(ctx, created.ID, domain.BookmarkPatch{}, "alice")
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.Equal(t, created.ID, updated.ID)
		assert.Equal(t, created.URL, updated.URL)
		assert.Equal(t, created.Title, updated.Title)
		assert.Equal(t, created.Description, updated.Description)
		assert.Equal(t, created.Tags, updated.Tags)
		assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))
	})

	t.Run("update of a foreign or missing bookmark is not found", func(t *testing.T) {
		repo := newRepo(t)

		created, err := repo.Create(ctx, sample("alice", "Example"))
		require.NoError(t, err)

		got, err := repo.Update(ctx, created.ID, domain.BookmarkPatch{Title: strPtr("Hijacked")}, "bob")
		require.NoError(t, err)
		assert.Nil(t, got)

		got, err = repo.Update(ctx, "missing", domain.BookmarkPatch{}, "alice")
		require.NoError(t, err)
		assert.Nil(t, got)

		untouched, err := repo.FindByID(ctx, created.ID, "alice")
		require.NoError(t, err)
		require.NotNil(t, untouched)
		assert.Equal(t, "Example", untouched.Title)
	})

	t.Run("delete is owner scoped and hard", func(t *testing.T) {
		repo := newRepo(t)

		created, err := repo.Create(ctx, sample("alice", "Example", "a"))
		require.NoError(t, err)

		foreign, err := repo.Delete(ctx, created.ID, "bob")
		require.NoError(t, err)
		assert.Nil(t, foreign)

		deleted, err := repo.Delete(ctx, created.ID, "alice")
		require.NoError(t, err)
		require.NotNil(t, deleted)
		assert.Equal(t, created.ID, deleted.ID)

		gone, err := repo.FindByID(ctx, created.ID, "alice")
		require.NoError(t, err)
		assert.Nil(t, gone)

		again, err := repo.Delete(ctx, created.ID, "alice")
		require.NoError(t, err)
		assert.Nil(t, again)

		byTag, err := repo.FindByTag(ctx, "a", "alice")
		require.NoError(t, err)
		assert.Empty(t, byTag)
	})

	t.Run("ping", func(t *testing.T) {
		require.NoError(t, newRepo(t).Ping(ctx))
	})
}
