package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
)

func ptr(s string) *string { return &s }

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 123456789, time.UTC)

func storedDoc(id, owner string) bson.D {
	return bson.D{
		{Key: "bookmark_id", Value: id},
		{Key: "owner", Value: owner},
		{Key: "url", Value: "https://example.com"},
		{Key: "title", Value: "Example"},
		{Key: "tags", Value: bson.A{"go", "web"}},
		{Key: "createdAt", Value: fixedNow.Truncate(time.Millisecond)},
		{Key: "updatedAt", Value: fixedNow.Truncate(time.Millisecond)},
	}
}

func TestUpdateDoc(t *testing.T) {
	tests := []struct {
		name  string
		patch domain.BookmarkPatch
		want  bson.D
	}{
		{
			name:  "empty patch only touches updatedAt",
			patch: domain.BookmarkPatch{},
			want:  bson.D{{Key: "updatedAt", Value: fixedNow}},
		},
		{
			name:  "title only",
			patch: domain.BookmarkPatch{Title: ptr("New title")},
			want: bson.D{
				{Key: "title", Value: "New title"},
				{Key: "updatedAt", Value: fixedNow},
			},
		},
		{
			name: "all fields",
			patch: domain.BookmarkPatch{
				URL:         ptr("https://example.org"),
				Title:       ptr("Org"),
				Description: ptr(""),
				Tags:        []string{},
			},
			want: bson.D{
				{Key: "url", Value: "https://example.org"},
				{Key: "title", Value: "Org"},
				{Key: "description", Value: ""},
				{Key: "tags", Value: []string{}},
				{Key: "updatedAt", Value: fixedNow},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := updateDoc(tt.patch, fixedNow)
			require.Len(t, got, 1)
			assert.Equal(t, "$set", got[0].Key)
			assert.Equal(t, tt.want, got[0].Value)
		})
	}
}

func TestFilters(t *testing.T) {
	assert.Equal(t, bson.D{{Key: "owner", Value: "alice"}}, ownerFilter("alice"))
	assert.Equal(t,
		bson.D{{Key: "bookmark_id", Value: "b1"}, {Key: "owner", Value: "alice"}},
		idFilter("b1", "alice"))
	assert.Equal(t,
		bson.D{{Key: "owner", Value: "alice"}, {Key: "tags", Value: "go"}},
		tagFilter("go", "alice"))
}

func TestStoreAgainstMockServer(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	newStore := func(mt *mtest.T) *Store {
		s := NewStore(mt.DB)
		s.now = func() time.Time { return fixedNow }
		return s
	}

	mt.Run("create assigns id and truncated timestamps", func(mt *mtest.T) {
		s := newStore(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		b, err := s.Create(ctx, domain.Bookmark{Owner: "alice", URL: "https://example.com", Title: "Example"})
		require.NoError(mt, err)
		assert.NotEmpty(mt, b.ID)
		assert.Equal(mt, fixedNow.Truncate(time.Millisecond), b.CreatedAt)
		assert.Equal(mt, b.CreatedAt, b.UpdatedAt)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "insert", evt.CommandName)
	})

	mt.Run("create duplicate key is a storage error", func(mt *mtest.T) {
		s := newStore(mt)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index: 0, Code: 11000, Message: "duplicate key error",
		}))

		_, err := s.Create(ctx, domain.Bookmark{Owner: "alice", URL: "https://example.com", Title: "Example"})
		var se *domain.StorageError
		require.True(mt, errors.As(err, &se), "got %v", err)
		assert.Equal(mt, "create", se.Op)
	})

	mt.Run("find all is scoped to the owner", func(mt *mtest.T) {
		s := newStore(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.bookmarks", mtest.FirstBatch,
			storedDoc("b1", "alice"), storedDoc("b2", "alice")))

		got, err := s.FindAll(ctx, "alice")
		require.NoError(mt, err)
		require.Len(mt, got, 2)
		assert.Equal(mt, "b1", got[0].ID)
		assert.Equal(mt, []string{"go", "web"}, got[0].Tags)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		filter := evt.Command.Lookup("filter").Document()
		assert.Equal(mt, "alice", filter.Lookup("owner").StringValue())
	})

	mt.Run("find all with no documents is empty not nil", func(mt *mtest.T) {
		s := newStore(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.bookmarks", mtest.FirstBatch))

		got, err := s.FindAll(ctx, "alice")
		require.NoError(mt, err)
		assert.NotNil(mt, got)
		assert.Empty(mt, got)
	})

	mt.Run("find by tag filters on tags", func(mt *mtest.T) {
		s := newStore(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.bookmarks", mtest.FirstBatch,
			storedDoc("b1", "alice")))

		got, err := s.FindByTag(ctx, "go", "alice")
		require.NoError(mt, err)
		require.Len(mt, got, 1)

		filter := mt.GetStartedEvent().Command.Lookup("filter").Document()
		assert.Equal(mt, "go", filter.Lookup("tags").StringValue())
		assert.Equal(mt, "alice", filter.Lookup("owner").StringValue())
	})

	mt.Run("find by id returns nil when absent", func(mt *mtest.T) {
		s := newStore(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.bookmarks", mtest.FirstBatch))

		b, err := s.FindByID(ctx, "missing", "alice")
		require.NoError(mt, err)
		assert.Nil(mt, b)
	})

	mt.Run("find by id decodes the document", func(mt *mtest.T) {
		s := newStore(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.bookmarks", mtest.FirstBatch,
			storedDoc("b1", "alice")))

		b, err := s.FindByID(ctx, "b1", "alice")
		require.NoError(mt, err)
		require.NotNil(mt, b)
		assert.Equal(mt, "alice", b.Owner)
		assert.Equal(mt, time.UTC, b.CreatedAt.Location())
	})

	mt.Run("update returns the document after the update", func(mt *mtest.T) {
		s := newStore(mt)
		doc := storedDoc("b1", "alice")
		doc[3] = bson.E{Key: "title", Value: "Renamed"}
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: doc}))

		b, err := s.Update(ctx, "b1", domain.BookmarkPatch{Title: ptr("Renamed")}, "alice")
		require.NoError(mt, err)
		require.NotNil(mt, b)
		assert.Equal(mt, "Renamed", b.Title)

		evt := mt.GetStartedEvent()
		assert.Equal(mt, "findAndModify", evt.CommandName)
		assert.True(mt, evt.Command.Lookup("new").Boolean())
	})

	mt.Run("update of a missing bookmark returns nil", func(mt *mtest.T) {
		s := newStore(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		b, err := s.Update(ctx, "missing", domain.BookmarkPatch{Title: ptr("Renamed")}, "alice")
		require.NoError(mt, err)
		assert.Nil(mt, b)
	})

	mt.Run("delete returns the removed document", func(mt *mtest.T) {
		s := newStore(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: storedDoc("b1", "alice")}))

		b, err := s.Delete(ctx, "b1", "alice")
		require.NoError(mt, err)
		require.NotNil(mt, b)
		assert.Equal(mt, "b1", b.ID)
	})

	mt.Run("server error is a storage error", func(mt *mtest.T) {
		s := newStore(mt)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code: 2, Name: "BadValue", Message: "boom",
		}))

		_, err := s.FindAll(ctx, "alice")
		var se *domain.StorageError
		require.True(mt, errors.As(err, &se), "got %v", err)
		assert.Equal(mt, "find_all", se.Op)
	})
}
