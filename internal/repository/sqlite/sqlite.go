// Package sqlite implements the repository interfaces on top of SQLite.
//
// We use modernc.org/sqlite, a pure-Go translation of SQLite — no CGo, no C
// compiler, trivial cross-compilation. The driver registers itself with
// database/sql under the name "sqlite" via the blank import below.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// DB owns the sql.DB connection pool and exposes one repository per
// aggregate, all sharing the pool. The server owns the lifecycle: New opens
// and migrates, Close flushes and releases the file lock on shutdown.
type DB struct {
	conn *sql.DB

	Snippets  *SnippetRepo
	Languages *LanguageRepo
	Tags      *TagRepo
	Users     *UserRepo
}

// New opens the database at dbPath (":memory:" for tests), applies the
// pragmas we rely on, and runs migrations.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Surface a bad path or permission problem now instead of on the
	// first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL allows concurrent reads while a write is in progress — needed
	// for a web server where requests overlap.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are off by default in SQLite. The snippet_tags join
	// table depends on them.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	db.Snippets = &SnippetRepo{conn: conn}
	db.Languages = &LanguageRepo{conn: conn}
	db.Tags = &TagRepo{conn: conn}
	db.Users = &UserRepo{conn: conn}

	return db, nil
}

// Close closes the connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// seedLanguages is the fixed language catalogue. INSERT OR IGNORE in
// migrate() keeps re-runs idempotent; the application never writes to the
// languages table afterwards.
var seedLanguages = []string{
	"Python", "Go", "JavaScript", "TypeScript", "Rust", "Java",
	"C", "C++", "C#", "Ruby", "PHP", "Kotlin", "Swift",
	"Shell", "SQL", "HTML", "CSS", "Other",
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it safe to
// run on every start.
//
// Tag names use COLLATE NOCASE on the unique index so "Python" and "python"
// are the same row at the database level too, not just in application code.
// (SQLite's NOCASE folds ASCII only — consistent with the filter's
// documented non-locale-aware matching.)
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			login         TEXT NOT NULL,
			email         TEXT NOT NULL DEFAULT '',
			github_id     INTEGER NOT NULL DEFAULT 0,
			avatar_url    TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL DEFAULT '',
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email
			ON users(email) WHERE email != '';
		CREATE UNIQUE INDEX IF NOT EXISTS idx_users_github_id
			ON users(github_id) WHERE github_id != 0;
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS languages (
			id   INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE
		);
	`)
	if err != nil {
		return fmt.Errorf("creating languages table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS tags (
			id   INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE COLLATE NOCASE
		);
	`)
	if err != nil {
		return fmt.Errorf("creating tags table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS snippets (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id     TEXT NOT NULL REFERENCES users(id),
			title       TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			code        TEXT NOT NULL,
			language_id INTEGER NOT NULL REFERENCES languages(id),
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_snippets_user_id ON snippets(user_id);
		CREATE INDEX IF NOT EXISTS idx_snippets_created_at ON snippets(created_at);
	`)
	if err != nil {
		return fmt.Errorf("creating snippets table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS snippet_tags (
			snippet_id INTEGER NOT NULL REFERENCES snippets(id),
			tag_id     INTEGER NOT NULL REFERENCES tags(id),
			PRIMARY KEY (snippet_id, tag_id)
		);
	`)
	if err != nil {
		return fmt.Errorf("creating snippet_tags table: %w", err)
	}

	for _, name := range seedLanguages {
		if _, err := db.conn.Exec(
			`INSERT OR IGNORE INTO languages (name) VALUES (?)`, name,
		); err != nil {
			return fmt.Errorf("seeding language %q: %w", name, err)
		}
	}

	return nil
}
