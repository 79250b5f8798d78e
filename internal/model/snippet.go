// Package model defines the data structures shared across the application:
// plain values with JSON tags, no behaviour beyond what the struct itself
// needs.
package model

import "time"

// Snippet represents a saved unit of code.
//
// A snippet always references exactly one Language (LanguageID) and carries
// zero or more unique Tags. The tag associations live in a join table and are
// created, replaced, and deleted together with the snippet itself.
//
// Description is optional; "no description" is the empty string rather than
// a *string, and every consumer (filter, templates, JSON) treats empty the
// same as absent.
type Snippet struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Code        string    `json:"code"`
	LanguageID  int64     `json:"languageId"`
	Tags        []Tag     `json:"tags"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// HasTag reports whether the snippet carries the tag with the given ID.
func (s *Snippet) HasTag(tagID int64) bool {
	for _, t := range s.Tags {
		if t.ID == tagID {
			return true
		}
	}
	return false
}
