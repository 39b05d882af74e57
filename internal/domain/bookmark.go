package domain

import (
	"slices"
	"time"
)

// Bookmark represents a stored bookmark document.
//
// Every bookmark belongs to exactly one Owner and is only ever
// visible to, or mutable by, that owner.
type Bookmark struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is the canonical unique identifier (uuid v4).
	// Generated by the repository on creation, never reused.
	ID string

	// Owner is the authenticated user id that created the bookmark.
	Owner string

	// ─────────────────────────────
	// Content
	// ─────────────────────────────

	// URL is the bookmarked address. Required, 10..2048 characters.
	URL string

	// Title is a human label. Required, 3..200 characters.
	Title string

	// Description is optional free text, at most 1000 characters.
	Description string

	// Tags is an optional ordered list of non-empty labels.
	Tags []string

	// ─────────────────────────────
	// Metadata
	// ─────────────────────────────

	// CreatedAt is set once, on creation.
	CreatedAt time.Time

	// UpdatedAt is refreshed on every mutation.
	UpdatedAt time.Time
}

// HasTag reports whether tag is one of the bookmark tags (exact match).
func (b *Bookmark) HasTag(tag string) bool {
	return slices.Contains(b.Tags, tag)
}

// BookmarkPatch is a partial update. Nil fields were not supplied
// and must be left untouched.
type BookmarkPatch struct {
	URL         *string
	Title       *string
	Description *string
	Tags        []string
}

// IsEmpty reports whether the patch changes no content field.
func (p BookmarkPatch) IsEmpty() bool {
	return p.URL == nil && p.Title == nil && p.Description == nil && p.Tags == nil
}

// Apply copies the supplied fields of p onto b and stamps UpdatedAt.
func (p BookmarkPatch) Apply(b *Bookmark, now time.Time) {
	if p.URL != nil {
		b.URL = *p.URL
	}
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Description != nil {
		b.Description = *p.Description
	}
	if p.Tags != nil {
		b.Tags = slices.Clone(p.Tags)
	}
	b.UpdatedAt = now
}
