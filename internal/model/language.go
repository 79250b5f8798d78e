package model

// Language is a named category classifying a snippet's programming language.
//
// Languages are seeded at migration time and only ever read afterwards —
// the application never creates or deletes them through the API.
type Language struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
