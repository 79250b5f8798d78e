package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sakif/snipvault/internal/model"
	"github.com/sakif/snipvault/internal/repository"
)

// TagRepo implements repository.TagRepository.
type TagRepo struct {
	conn *sql.DB
}

// compile-time check that *TagRepo implements the interface
var _ repository.TagRepository = (*TagRepo)(nil)

// List returns all tags ordered by name. Tags are global — the list is
// shared across users.
func (r *TagRepo) List(ctx context.Context) ([]model.Tag, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT id, name FROM tags ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing tags: %w", err)
	}
	defer rows.Close()

	tags := []model.Tag{}
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("sqlite: scanning tag row: %w", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating tags: %w", err)
	}

	return tags, nil
}

// GetOrCreate returns the tag matching name case-insensitively, creating it
// if absent. The returned tag keeps the stored casing — creating "Python"
// when "python" exists returns the existing "python" row.
//
// INSERT OR IGNORE followed by a SELECT makes the operation safe under
// concurrent creates of the same name: both requests converge on the single
// row guarded by the NOCASE unique index.
func (r *TagRepo) GetOrCreate(ctx context.Context, name string) (*model.Tag, error) {
	if _, err := r.conn.ExecContext(ctx,
		`INSERT OR IGNORE INTO tags (name) VALUES (?)`, name,
	); err != nil {
		return nil, fmt.Errorf("sqlite: creating tag %q: %w", name, err)
	}

	var tag model.Tag
	err := r.conn.QueryRowContext(ctx,
		`SELECT id, name FROM tags WHERE name = ?`, name,
	).Scan(&tag.ID, &tag.Name)
	if err != nil {
		// The NOCASE unique index guarantees the row exists after the
		// insert above, so even ErrNoRows here is a real failure.
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("sqlite: tag %q missing after insert", name)
		}
		return nil, fmt.Errorf("sqlite: getting tag %q: %w", name, err)
	}

	return &tag, nil
}
