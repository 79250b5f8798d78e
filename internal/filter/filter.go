// Package filter implements the pure, in-memory snippet filter.
//
// The filter consumes a snippet list that has already been loaded wholesale
// from storage and narrows it by free-text query, language selection, and tag
// selection. It never touches the database, never mutates its input, and is
// recomputed from scratch whenever the snippet list or the criteria change —
// there is no incremental state to keep in sync.
package filter

import (
	"strings"

	"github.com/sakif/snipvault/internal/model"
)

// AllLanguages is the sentinel LanguageID meaning "no language filter".
const AllLanguages int64 = 0

// Criteria is the tuple of filter inputs narrowing a snippet list.
//
// Query matching is a case-insensitive substring match using Unicode simple
// case folding (strings.ToLower). It is NOT locale-sensitive — e.g. the
// Turkish dotless i is not handled specially.
type Criteria struct {
	// Query is matched against title, description, and code. Empty means
	// no text filter.
	Query string

	// LanguageID restricts results to a single language. AllLanguages (0)
	// means no language filter.
	LanguageID int64

	// TagIDs is the set of required tags. A snippet matches only if it
	// carries every one of them (AND semantics). Empty means no tag filter.
	TagIDs []int64
}

// Active reports whether any filter criterion is set.
func (c Criteria) Active() bool {
	return c.Query != "" || c.LanguageID != AllLanguages || len(c.TagIDs) > 0
}

// Apply returns the subsequence of snippets matching the criteria, in the
// original order. Each criterion narrows the result of the previous one:
// text first, then language, then tags.
//
// With no active criteria the input slice is returned as-is. The input is
// never modified.
func Apply(snippets []model.Snippet, c Criteria) []model.Snippet {
	if !c.Active() {
		return snippets
	}

	out := snippets

	if c.Query != "" {
		q := strings.ToLower(c.Query)
		narrowed := make([]model.Snippet, 0, len(out))
		for _, s := range out {
			if matchesQuery(&s, q) {
				narrowed = append(narrowed, s)
			}
		}
		out = narrowed
	}

	if c.LanguageID != AllLanguages {
		narrowed := make([]model.Snippet, 0, len(out))
		for _, s := range out {
			if s.LanguageID == c.LanguageID {
				narrowed = append(narrowed, s)
			}
		}
		out = narrowed
	}

	if len(c.TagIDs) > 0 {
		narrowed := make([]model.Snippet, 0, len(out))
		for _, s := range out {
			if hasAllTags(&s, c.TagIDs) {
				narrowed = append(narrowed, s)
			}
		}
		out = narrowed
	}

	return out
}

// matchesQuery reports whether the lowercased query q appears in the
// snippet's title, description, or code. An empty description simply never
// matches — it does not exclude the snippet if another field matches.
func matchesQuery(s *model.Snippet, q string) bool {
	if strings.Contains(strings.ToLower(s.Title), q) {
		return true
	}
	if s.Description != "" && strings.Contains(strings.ToLower(s.Description), q) {
		return true
	}
	return strings.Contains(strings.ToLower(s.Code), q)
}

// hasAllTags reports whether the snippet's tag set is a superset of required.
func hasAllTags(s *model.Snippet, required []int64) bool {
	for _, id := range required {
		if !s.HasTag(id) {
			return false
		}
	}
	return true
}
