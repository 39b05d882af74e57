package redis

const (
	// KeyPrefixBookmark is the prefix for bookmark document keys
	KeyPrefixBookmark = "bookmarks:bookmark:"
	// KeyPrefixOwner is the prefix for the per-owner sorted set of bookmark IDs
	KeyPrefixOwner = "bookmarks:owner:"
	// KeyPrefixTag is the prefix for the per-owner, per-tag sorted set of bookmark IDs
	KeyPrefixTag = "bookmarks:tag:"
	// KeySequence is the counter used to score index sets in creation order
	KeySequence = "bookmarks:seq"
)

// BookmarkKey returns the Redis key for a bookmark by ID
func BookmarkKey(id string) string {
	return KeyPrefixBookmark + id
}

// OwnerKey returns the Redis key of the sorted set holding owner's bookmark IDs
func OwnerKey(owner string) string {
	return KeyPrefixOwner + owner
}

// TagKey returns the Redis key of the sorted set holding owner's bookmark IDs carrying tag
func TagKey(owner, tag string) string {
	return KeyPrefixTag + owner + ":" + tag
}
