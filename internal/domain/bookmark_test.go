package domain

import (
	"errors"
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

func TestBookmarkPatchApply(t *testing.T) {
	created := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	later := created.Add(time.Hour)

	base := func() Bookmark {
		return Bookmark{
			ID:          "id-1",
			Owner:       "alice",
			URL:         "https://example.com",
			Title:       "Example",
			Description: "desc",
			Tags:        []string{"a", "b"},
			CreatedAt:   created,
			UpdatedAt:   created,
		}
	}

	tests := []struct {
		name  string
		patch BookmarkPatch
		check func(t *testing.T, b Bookmark)
	}{
		{
			name:  "empty patch only refreshes updatedAt",
			patch: BookmarkPatch{},
			check: func(t *testing.T, b Bookmark) {
				want := base()
				if b.URL != want.URL || b.Title != want.Title || b.Description != want.Description {
					t.Errorf("content changed: %+v", b)
				}
				if len(b.Tags) != 2 {
					t.Errorf("tags changed: %v", b.Tags)
				}
			},
		},
		{
			name:  "title only",
			patch: BookmarkPatch{Title: strPtr("New title")},
			check: func(t *testing.T, b Bookmark) {
				if b.Title != "New title" {
					t.Errorf("Title = %q, want %q", b.Title, "New title")
				}
				if b.URL != "https://example.com" {
					t.Errorf("URL changed to %q", b.URL)
				}
			},
		},
		{
			name:  "empty tag list clears tags",
			patch: BookmarkPatch{Tags: []string{}},
			check: func(t *testing.T, b Bookmark) {
				if len(b.Tags) != 0 {
					t.Errorf("Tags = %v, want empty", b.Tags)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := base()
			tt.patch.Apply(&b, later)
			if !b.UpdatedAt.Equal(later) {
				t.Errorf("UpdatedAt = %v, want %v", b.UpdatedAt, later)
			}
			if !b.CreatedAt.Equal(created) {
				t.Errorf("CreatedAt = %v, want %v", b.CreatedAt, created)
			}
			if b.ID != "id-1" || b.Owner != "alice" {
				t.Errorf("identity changed: id=%q owner=%q", b.ID, b.Owner)
			}
			tt.check(t, b)
		})
	}
}

func TestBookmarkPatchIsEmpty(t *testing.T) {
	if !(BookmarkPatch{}).IsEmpty() {
		t.Error("zero patch should be empty")
	}
	if (BookmarkPatch{Tags: []string{}}).IsEmpty() {
		t.Error("patch with an empty tag list is not empty")
	}
}

func TestBookmarkHasTag(t *testing.T) {
	b := Bookmark{Tags: []string{"go", "Go "}}
	if !b.HasTag("go") {
		t.Error("HasTag(go) = false, want true")
	}
	if b.HasTag("GO") {
		t.Error("HasTag must be an exact match")
	}
	if b.HasTag("Go") {
		t.Error("HasTag must not trim")
	}
}

func TestErrorsUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewStorageError("find", cause)

	var se *StorageError
	if !errors.As(err, &se) {
		t.Fatalf("errors.As(StorageError) = false")
	}
	if !errors.Is(err, cause) {
		t.Error("StorageError should unwrap to its cause")
	}
	if NewStorageError("find", nil) != nil {
		t.Error("NewStorageError(nil) should be nil")
	}

	nf := &NotFoundError{ID: "abc"}
	if nf.Error() != "bookmark with id abc not found" {
		t.Errorf("NotFoundError.Error() = %q", nf.Error())
	}
}
