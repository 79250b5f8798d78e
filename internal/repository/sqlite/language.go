package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sakif/snipvault/internal/apperror"
	"github.com/sakif/snipvault/internal/model"
	"github.com/sakif/snipvault/internal/repository"
)

// LanguageRepo implements repository.LanguageRepository.
type LanguageRepo struct {
	conn *sql.DB
}

// compile-time check that *LanguageRepo implements the interface
var _ repository.LanguageRepository = (*LanguageRepo)(nil)

// List returns the seeded language catalogue ordered by name.
func (r *LanguageRepo) List(ctx context.Context) ([]model.Language, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT id, name FROM languages ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing languages: %w", err)
	}
	defer rows.Close()

	languages := []model.Language{}
	for rows.Next() {
		var l model.Language
		if err := rows.Scan(&l.ID, &l.Name); err != nil {
			return nil, fmt.Errorf("sqlite: scanning language row: %w", err)
		}
		languages = append(languages, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating languages: %w", err)
	}

	return languages, nil
}

// GetByID returns a single language, or ErrNotFound. The service uses this
// to reject snippets referencing a language that does not exist.
func (r *LanguageRepo) GetByID(ctx context.Context, id int64) (*model.Language, error) {
	var l model.Language
	err := r.conn.QueryRowContext(ctx,
		`SELECT id, name FROM languages WHERE id = ?`, id,
	).Scan(&l.ID, &l.Name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("language", id)
		}
		return nil, fmt.Errorf("sqlite: getting language %d: %w", id, err)
	}
	return &l, nil
}
