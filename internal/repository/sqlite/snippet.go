package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sakif/snipvault/internal/apperror"
	"github.com/sakif/snipvault/internal/model"
	"github.com/sakif/snipvault/internal/repository"
)

// SnippetRepo implements repository.SnippetRepository.
type SnippetRepo struct {
	conn *sql.DB
}

// compile-time check that *SnippetRepo implements the interface
var _ repository.SnippetRepository = (*SnippetRepo)(nil)

// Create inserts a snippet and its tag links inside one transaction, so a
// snippet never exists half-tagged. Fills ID and timestamps on the passed
// struct; snippet.Tags must already carry persisted tag IDs.
func (r *SnippetRepo) Create(ctx context.Context, snippet *model.Snippet) error {
	now := time.Now()
	snippet.CreatedAt = now
	snippet.UpdatedAt = now

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO snippets (user_id, title, description, code, language_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		snippet.UserID,
		snippet.Title,
		snippet.Description,
		snippet.Code,
		snippet.LanguageID,
		snippet.CreatedAt,
		snippet.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating snippet: %w", err)
	}

	snippet.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading snippet id: %w", err)
	}

	if err := insertTagLinks(ctx, tx, snippet.ID, snippet.Tags); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing snippet create: %w", err)
	}
	return nil
}

// GetByID retrieves a single snippet with its tags loaded.
func (r *SnippetRepo) GetByID(ctx context.Context, id int64) (*model.Snippet, error) {
	var snippet model.Snippet
	err := r.conn.QueryRowContext(ctx,
		`SELECT id, user_id, title, description, code, language_id, created_at, updated_at
		 FROM snippets
		 WHERE id = ?`,
		id,
	).Scan(
		&snippet.ID,
		&snippet.UserID,
		&snippet.Title,
		&snippet.Description,
		&snippet.Code,
		&snippet.LanguageID,
		&snippet.CreatedAt,
		&snippet.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("snippet", id)
		}
		return nil, fmt.Errorf("sqlite: getting snippet %d: %w", id, err)
	}

	tags, err := r.tagsForSnippets(ctx, []int64{snippet.ID})
	if err != nil {
		return nil, err
	}
	snippet.Tags = tags[snippet.ID]
	if snippet.Tags == nil {
		snippet.Tags = []model.Tag{}
	}

	return &snippet, nil
}

// ListByUser returns all of the user's snippets, newest first, tags loaded.
// No pagination — the filter operates on the full list in memory.
func (r *SnippetRepo) ListByUser(ctx context.Context, userID string) ([]model.Snippet, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT id, user_id, title, description, code, language_id, created_at, updated_at
		 FROM snippets
		 WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing snippets: %w", err)
	}
	defer rows.Close()

	snippets := []model.Snippet{}
	ids := []int64{}
	for rows.Next() {
		var s model.Snippet
		if err := rows.Scan(
			&s.ID, &s.UserID, &s.Title, &s.Description, &s.Code,
			&s.LanguageID, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning snippet row: %w", err)
		}
		s.Tags = []model.Tag{}
		snippets = append(snippets, s)
		ids = append(ids, s.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating snippets: %w", err)
	}

	if len(snippets) == 0 {
		return snippets, nil
	}

	// One join query for all tag links instead of a query per snippet.
	tags, err := r.tagsForSnippets(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range snippets {
		if ts, ok := tags[snippets[i].ID]; ok {
			snippets[i].Tags = ts
		}
	}

	return snippets, nil
}

// Update rewrites the snippet row and replaces its tag links as a unit.
func (r *SnippetRepo) Update(ctx context.Context, snippet *model.Snippet) error {
	snippet.UpdatedAt = time.Now()

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE snippets
		 SET title = ?, description = ?, code = ?, language_id = ?, updated_at = ?
		 WHERE id = ?`,
		snippet.Title,
		snippet.Description,
		snippet.Code,
		snippet.LanguageID,
		snippet.UpdatedAt,
		snippet.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating snippet %d: %w", snippet.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("snippet", snippet.ID)
	}

	// Replace the tag associations wholesale.
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM snippet_tags WHERE snippet_id = ?`, snippet.ID,
	); err != nil {
		return fmt.Errorf("sqlite: clearing tag links for snippet %d: %w", snippet.ID, err)
	}
	if err := insertTagLinks(ctx, tx, snippet.ID, snippet.Tags); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing snippet update: %w", err)
	}
	return nil
}

// Delete removes the tag links first, then the snippet row, so the join
// table's foreign keys are never violated.
func (r *SnippetRepo) Delete(ctx context.Context, id int64) error {
	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM snippet_tags WHERE snippet_id = ?`, id,
	); err != nil {
		return fmt.Errorf("sqlite: clearing tag links for snippet %d: %w", id, err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM snippets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting snippet %d: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("snippet", id)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing snippet delete: %w", err)
	}
	return nil
}

// insertTagLinks writes the snippet_tags rows for one snippet. INSERT OR
// IGNORE tolerates duplicate tag IDs in the input.
func insertTagLinks(ctx context.Context, tx *sql.Tx, snippetID int64, tags []model.Tag) error {
	for _, tag := range tags {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO snippet_tags (snippet_id, tag_id) VALUES (?, ?)`,
			snippetID, tag.ID,
		); err != nil {
			return fmt.Errorf("sqlite: linking tag %d to snippet %d: %w", tag.ID, snippetID, err)
		}
	}
	return nil
}

// tagsForSnippets loads the tags for the given snippet IDs in one query,
// keyed by snippet ID. Tags are ordered by name for stable output.
func (r *SnippetRepo) tagsForSnippets(ctx context.Context, ids []int64) (map[int64][]model.Tag, error) {
	query := `SELECT st.snippet_id, t.id, t.name
		 FROM snippet_tags st
		 JOIN tags t ON t.id = st.tag_id
		 WHERE st.snippet_id IN (`
	args := make([]any, len(ids))
	for i, id := range ids {
		if i > 0 {
			query += ","
		}
		query += "?"
		args[i] = id
	}
	query += `) ORDER BY t.name`

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: loading snippet tags: %w", err)
	}
	defer rows.Close()

	out := make(map[int64][]model.Tag)
	for rows.Next() {
		var snippetID int64
		var tag model.Tag
		if err := rows.Scan(&snippetID, &tag.ID, &tag.Name); err != nil {
			return nil, fmt.Errorf("sqlite: scanning snippet tag row: %w", err)
		}
		out[snippetID] = append(out[snippetID], tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating snippet tags: %w", err)
	}

	return out, nil
}
