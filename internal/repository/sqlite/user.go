package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/snipvault/internal/apperror"
	"github.com/sakif/snipvault/internal/model"
	"github.com/sakif/snipvault/internal/repository"
)

// UserRepo implements repository.UserRepository.
type UserRepo struct {
	conn *sql.DB
}

// compile-time check that *UserRepo implements the interface
var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id, login, email, github_id, avatar_url, password_hash, created_at, updated_at`

// Create inserts a new local account. The partial unique index on email
// turns duplicate registrations into ErrConflict.
func (r *UserRepo) Create(ctx context.Context, user *model.User) error {
	now := time.Now()
	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.conn.ExecContext(ctx,
		`INSERT INTO users (id, login, email, github_id, avatar_url, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Login,
		user.Email,
		user.GitHubID,
		user.AvatarURL,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("an account with this email already exists")
		}
		return fmt.Errorf("sqlite: inserting user: %w", err)
	}

	return nil
}

// GetByID returns the user with the given internal ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.getBy(ctx, `WHERE id = ?`, id)
}

// GetByEmail returns the user registered under the given email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getBy(ctx, `WHERE email = ?`, email)
}

func (r *UserRepo) getBy(ctx context.Context, where string, arg any) (*model.User, error) {
	var u model.User
	err := r.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users `+where, arg,
	).Scan(
		&u.ID,
		&u.Login,
		&u.Email,
		&u.GitHubID,
		&u.AvatarURL,
		&u.PasswordHash,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", arg)
		}
		return nil, fmt.Errorf("sqlite: getting user: %w", err)
	}
	return &u, nil
}

// UpsertGitHub inserts or updates a user keyed by GitHub ID. An existing
// user keeps their internal ID; profile fields are refreshed in case the
// login, email, or avatar changed on GitHub's side.
func (r *UserRepo) UpsertGitHub(ctx context.Context, user *model.User) error {
	var existingID string
	err := r.conn.QueryRowContext(ctx,
		`SELECT id FROM users WHERE github_id = ?`, user.GitHubID,
	).Scan(&existingID)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("sqlite: looking up user by github_id %d: %w", user.GitHubID, err)
	}

	if existingID != "" {
		user.ID = existingID
		user.UpdatedAt = time.Now()
		_, err = r.conn.ExecContext(ctx,
			`UPDATE users SET login = ?, email = ?, avatar_url = ?, updated_at = ?
			 WHERE id = ?`,
			user.Login,
			user.Email,
			user.AvatarURL,
			user.UpdatedAt,
			user.ID,
		)
		if err != nil {
			return fmt.Errorf("sqlite: updating user %s: %w", user.ID, err)
		}
		return nil
	}

	now := time.Now()
	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err = r.conn.ExecContext(ctx,
		`INSERT INTO users (id, login, email, github_id, avatar_url, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, '', ?, ?)`,
		user.ID,
		user.Login,
		user.Email,
		user.GitHubID,
		user.AvatarURL,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting user (githubID=%d): %w", user.GitHubID, err)
	}

	return nil
}

// isUniqueViolation detects a SQLite UNIQUE constraint failure. The pure-Go
// driver surfaces it in the error text; matching on the constant SQLite
// message is the established workaround absent a typed error.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
