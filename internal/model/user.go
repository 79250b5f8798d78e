package model

import "time"

// User represents a registered account.
//
// Two sign-in paths feed this record: local email/password registration and
// GitHub OAuth. The internal string ID (xid) is generated locally in both
// cases, so primary keys are never tied to a third party's numbering scheme.
//
// GitHubID is 0 for local accounts; PasswordHash is empty for OAuth-only
// accounts. The json:"-" tag keeps the hash out of every API response.
type User struct {
	ID           string    `json:"id"`
	Login        string    `json:"login"`
	Email        string    `json:"email"`
	GitHubID     int64     `json:"githubId,omitempty"`
	AvatarURL    string    `json:"avatarUrl,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
