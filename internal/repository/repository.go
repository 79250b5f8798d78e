// Package repository declares the storage interfaces consumed by the service
// layer. The concrete SQLite implementation lives in repository/sqlite;
// services depend only on these interfaces so tests can inject mocks.
package repository

import (
	"context"

	"github.com/sakif/snipvault/internal/model"
)

// SnippetRepository persists snippets together with their tag associations.
// A snippet and its tag links are written and removed as a unit.
type SnippetRepository interface {
	// Create inserts the snippet and its tag links, filling in ID and
	// timestamps on the passed struct. Tags must already have IDs.
	Create(ctx context.Context, snippet *model.Snippet) error

	// GetByID returns the snippet with its tags loaded, or ErrNotFound.
	GetByID(ctx context.Context, id int64) (*model.Snippet, error)

	// ListByUser returns all of the user's snippets, newest first, with
	// tags loaded. The list is returned wholesale — filtering happens
	// in memory in the service layer.
	ListByUser(ctx context.Context, userID string) ([]model.Snippet, error)

	// Update rewrites the snippet row and replaces its tag links.
	Update(ctx context.Context, snippet *model.Snippet) error

	// Delete removes the snippet's tag links first, then the snippet row,
	// respecting the join table's foreign keys.
	Delete(ctx context.Context, id int64) error
}

// LanguageRepository reads the seeded language catalogue. Languages are
// never created or deleted at runtime.
type LanguageRepository interface {
	List(ctx context.Context) ([]model.Language, error)
	GetByID(ctx context.Context, id int64) (*model.Language, error)
}

// TagRepository reads and creates tags. Tags are global, shared across
// users, deduplicated case-insensitively, and never deleted.
type TagRepository interface {
	List(ctx context.Context) ([]model.Tag, error)

	// GetOrCreate returns the tag whose name matches case-insensitively,
	// creating it if none exists. The name must already be trimmed and
	// non-empty.
	GetOrCreate(ctx context.Context, name string) (*model.Tag, error)
}

// UserRepository persists user accounts for both local password
// registration and GitHub OAuth sign-in.
type UserRepository interface {
	// Create inserts a new local account, filling in ID and timestamps.
	// Returns ErrConflict if the email or login is already taken.
	Create(ctx context.Context, user *model.User) error

	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// UpsertGitHub inserts or updates a user keyed by their GitHub ID,
	// keeping the existing internal ID on update.
	UpsertGitHub(ctx context.Context, user *model.User) error
}
