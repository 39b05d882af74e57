// Package schema declares the request and response shapes of the bookmarks API.
//
// Constraints are expressed as validator tags and enforced by the
// validation package before a payload reaches the service layer.
package schema

import (
	"time"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
)

// TimeLayout renders timestamps as ISO-8601 UTC with millisecond precision.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// CreateBookmark is the body of POST /bookmarks.
type CreateBookmark struct {
	URL         string   `json:"url" validate:"required,min=10,max=2048"`
	Title       string   `json:"title" validate:"required,min=3,max=200"`
	Description *string  `json:"description,omitempty" validate:"omitnil,max=1000"`
	Tags        []string `json:"tags,omitempty" validate:"omitempty,dive,min=1"`
}

// ToDomain builds the bookmark to persist for owner.
func (c CreateBookmark) ToDomain(owner string) domain.Bookmark {
	b := domain.Bookmark{
		Owner: owner,
		URL:   c.URL,
		Title: c.Title,
		Tags:  c.Tags,
	}
	if c.Description != nil {
		b.Description = *c.Description
	}
	return b
}

// UpdateBookmark is the body of PATCH /bookmarks/{id}. Every field is optional
// but carries the same constraints as CreateBookmark.
type UpdateBookmark struct {
	URL         *string  `json:"url,omitempty" validate:"omitnil,min=10,max=2048"`
	Title       *string  `json:"title,omitempty" validate:"omitnil,min=3,max=200"`
	Description *string  `json:"description,omitempty" validate:"omitnil,max=1000"`
	Tags        []string `json:"tags,omitempty" validate:"omitempty,dive,min=1"`
}

// ToPatch converts the request into a domain patch.
func (u UpdateBookmark) ToPatch() domain.BookmarkPatch {
	return domain.BookmarkPatch{
		URL:         u.URL,
		Title:       u.Title,
		Description: u.Description,
		Tags:        u.Tags,
	}
}

// BookmarkResponse is the public representation of a bookmark.
type BookmarkResponse struct {
	BookmarkID  string   `json:"bookmark_id"`
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
}

// FormatTime renders t in TimeLayout, in UTC.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}
