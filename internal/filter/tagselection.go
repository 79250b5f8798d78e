package filter

import (
	"strings"

	"github.com/sakif/snipvault/internal/model"
)

// TagSelection builds up a set of tags from candidate names, deduplicating
// case-insensitively against an existing global tag collection.
//
// Adding a name whose trimmed form matches an existing tag (ignoring case)
// selects that existing tag instead of creating a duplicate; adding it twice
// selects it once. A name with no match produces a new Tag value (ID 0,
// pending persistence) which is appended to the collection so later adds of
// the same name also deduplicate against it.
type TagSelection struct {
	tags     []model.Tag
	selected []model.Tag
	chosen   map[string]struct{} // lowercased names already selected
}

// NewTagSelection starts an empty selection over the given tag collection.
// The collection slice is copied; the caller's slice is not mutated.
func NewTagSelection(tags []model.Tag) *TagSelection {
	return &TagSelection{
		tags:   append([]model.Tag(nil), tags...),
		chosen: make(map[string]struct{}),
	}
}

// Add selects the tag with the given name, creating it if no existing tag
// matches case-insensitively. Surrounding whitespace is trimmed; an empty
// or whitespace-only name is a no-op.
func (ts *TagSelection) Add(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}

	key := strings.ToLower(name)
	if _, ok := ts.chosen[key]; ok {
		return // already selected
	}

	for _, t := range ts.tags {
		if strings.ToLower(t.Name) == key {
			ts.selected = append(ts.selected, t)
			ts.chosen[key] = struct{}{}
			return
		}
	}

	// No existing tag — create one with the name as typed.
	created := model.Tag{Name: name}
	ts.tags = append(ts.tags, created)
	ts.selected = append(ts.selected, created)
	ts.chosen[key] = struct{}{}
}

// Selected returns the selected tags in the order they were added.
// Tags created by Add have ID 0 until persisted.
func (ts *TagSelection) Selected() []model.Tag {
	return ts.selected
}

// Tags returns the full tag collection, including any tags created by Add.
func (ts *TagSelection) Tags() []model.Tag {
	return ts.tags
}
