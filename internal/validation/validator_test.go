package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
	"github.com/MrSnakeDoc/bookmarks/internal/schema"
)

func validationErrors(t *testing.T, err error) []string {
	t.Helper()
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr), "expected *domain.ValidationError, got %v", err)
	return verr.Errors
}

func TestBindCreate_Valid(t *testing.T) {
	v := New(0)

	var req schema.CreateBookmark
	err := v.Bind(strings.NewReader(`{
		"url": "https://example.com",
		"title": "Example",
		"description": "a site",
		"tags": ["a", "b"],
		"owner": "mallory",
		"bookmark_id": "forged"
	}`), &req)

	require.NoError(t, err)
	assert.Equal(t, "https://example.com", req.URL)
	assert.Equal(t, "Example", req.Title)
	require.NotNil(t, req.Description)
	assert.Equal(t, "a site", *req.Description)
	assert.Equal(t, []string{"a", "b"}, req.Tags)
}

func TestBindCreate_URLBoundaries(t *testing.T) {
	v := New(0)

	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{name: "9 chars rejected", url: strings.Repeat("a", 9), wantErr: true},
		{name: "10 chars accepted", url: "http://a.b", wantErr: false},
		{name: "2048 chars accepted", url: "https://" + strings.Repeat("a", 2040), wantErr: false},
		{name: "2049 chars rejected", url: "https://" + strings.Repeat("a", 2041), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req schema.CreateBookmark
			body := `{"url":"` + tt.url + `","title":"Example"}`
			err := v.Bind(strings.NewReader(body), &req)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			msgs := validationErrors(t, err)
			require.Len(t, msgs, 1)
			assert.True(t, strings.HasPrefix(msgs[0], "url: "), msgs[0])
		})
	}
}

func TestBindCreate_FieldErrors(t *testing.T) {
	v := New(0)

	tests := []struct {
		name string
		body string
		want []string
	}{
		{
			name: "missing required fields",
			body: `{}`,
			want: []string{"url: is required", "title: is required"},
		},
		{
			name: "title too short",
			body: `{"url":"https://example.com","title":"ab"}`,
			want: []string{"title: expected string length greater or equal to 3"},
		},
		{
			name: "description too long",
			body: `{"url":"https://example.com","title":"abc","description":"` + strings.Repeat("d", 1001) + `"}`,
			want: []string{"description: expected string length less or equal to 1000"},
		},
		{
			name: "empty tag",
			body: `{"url":"https://example.com","title":"abc","tags":["ok",""]}`,
			want: []string{"tags/1: expected string length greater or equal to 1"},
		},
		{
			name: "wrong type",
			body: `{"url":42,"title":"abc"}`,
			want: []string{"url: expected string, got number"},
		},
		{
			name: "wrong tag element type reported once",
			body: `{"url":"https://example.com","title":"abc","tags":["a",1]}`,
			want: []string{"tags: expected string, got number"},
		},
		{
			name: "field names are case sensitive",
			body: `{"URL":"https://example.com","TITLE":"Example"}`,
			want: []string{"url: is required", "title: is required"},
		},
		{
			name: "differently cased key does not override a field",
			body: `{"url":"short","Url":"https://example.com","title":"Example"}`,
			want: []string{"url: expected string length greater or equal to 10"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req schema.CreateBookmark
			msgs := validationErrors(t, v.Bind(strings.NewReader(tt.body), &req))
			assert.ElementsMatch(t, tt.want, msgs)
		})
	}
}

func TestBind_RootErrors(t *testing.T) {
	v := New(64)

	tests := []struct {
		name string
		body string
	}{
		{name: "empty body", body: ""},
		{name: "malformed", body: `{"url":`},
		{name: "array", body: `[1,2]`},
		{name: "null", body: `null`},
		{name: "trailing data", body: `{} {}`},
		{name: "too large", body: `{"title":"` + strings.Repeat("x", 100) + `"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req schema.UpdateBookmark
			msgs := validationErrors(t, v.Bind(strings.NewReader(tt.body), &req))
			require.Len(t, msgs, 1)
			assert.True(t, strings.HasPrefix(msgs[0], "root: "), msgs[0])
		})
	}
}

func TestBindUpdate(t *testing.T) {
	v := New(0)

	t.Run("empty object is a valid partial", func(t *testing.T) {
		var req schema.UpdateBookmark
		require.NoError(t, v.Bind(strings.NewReader(`{}`), &req))
		assert.True(t, req.ToPatch().IsEmpty())
	})

	t.Run("supplied fields keep create constraints", func(t *testing.T) {
		var req schema.UpdateBookmark
		msgs := validationErrors(t, v.Bind(strings.NewReader(`{"url":"short","title":""}`), &req))
		assert.ElementsMatch(t, []string{
			"url: expected string length greater or equal to 10",
			"title: expected string length greater or equal to 3",
		}, msgs)
	})

	t.Run("only supplied fields are set", func(t *testing.T) {
		var req schema.UpdateBookmark
		require.NoError(t, v.Bind(strings.NewReader(`{"title":"Renamed"}`), &req))
		p := req.ToPatch()
		require.NotNil(t, p.Title)
		assert.Equal(t, "Renamed", *p.Title)
		assert.Nil(t, p.URL)
		assert.Nil(t, p.Description)
		assert.Nil(t, p.Tags)
	})
}

func TestFieldPath(t *testing.T) {
	assert.Equal(t, "tags/3", fieldPath("CreateBookmark.tags[3]"))
	assert.Equal(t, "url", fieldPath("UpdateBookmark.url"))
	assert.Equal(t, "root", fieldPath("CreateBookmark"))
}
