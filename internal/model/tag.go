package model

// Tag is a named, user-assignable label attachable to multiple snippets.
//
// Tag names are unique case-insensitively: adding "Python" when "python"
// already exists reuses the existing tag instead of creating a duplicate.
// Tags are global — shared across users — and are never deleted.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
