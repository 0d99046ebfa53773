package storage

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// New opens a SQLite database connection at the given path.
// It enables foreign keys and sets connection pool settings.
func New(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	// Enable foreign keys (disabled by default in SQLite)
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, err
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate runs database migrations to create the required tables.
// It is idempotent and can be run multiple times safely.
// The surrogate entry id is what the token and association tables reference;
// the externally visible (public_entry_id, tenant_id) pair only identifies a
// row for lookups.
func Migrate(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS entry (
			id TEXT PRIMARY KEY,
			public_entry_id INTEGER NOT NULL,
			tenant_id TEXT NOT NULL DEFAULT '_',
			title TEXT NOT NULL,
			summary TEXT NOT NULL DEFAULT '',
			content TEXT NOT NULL DEFAULT '',
			created_by TEXT NOT NULL DEFAULT '',
			created_date TEXT NOT NULL,
			last_modified_by TEXT NOT NULL DEFAULT '',
			last_modified_date TEXT NOT NULL,
			categories TEXT NOT NULL DEFAULT '[]',
			tags TEXT NOT NULL DEFAULT '[]',
			UNIQUE (public_entry_id, tenant_id)
		);`,
		`CREATE INDEX IF NOT EXISTS entry_last_modified_date_idx ON entry (last_modified_date DESC);`,
		`CREATE TABLE IF NOT EXISTS entry_categories (
			entry_id TEXT NOT NULL,
			name TEXT NOT NULL,
			position INTEGER NOT NULL,
			FOREIGN KEY (entry_id) REFERENCES entry(id) ON DELETE CASCADE
		);`,
		`CREATE INDEX IF NOT EXISTS entry_categories_entry_id_idx ON entry_categories (entry_id);`,
		`CREATE INDEX IF NOT EXISTS entry_categories_name_idx ON entry_categories (name);`,
		`CREATE TABLE IF NOT EXISTS entry_tags (
			entry_id TEXT NOT NULL,
			name TEXT NOT NULL,
			version TEXT,
			FOREIGN KEY (entry_id) REFERENCES entry(id) ON DELETE CASCADE
		);`,
		`CREATE INDEX IF NOT EXISTS entry_tags_entry_id_idx ON entry_tags (entry_id);`,
		`CREATE INDEX IF NOT EXISTS entry_tags_name_idx ON entry_tags (name);`,
		`CREATE TABLE IF NOT EXISTS entry_tokens (
			entry_id TEXT NOT NULL,
			token TEXT NOT NULL,
			FOREIGN KEY (entry_id) REFERENCES entry(id) ON DELETE CASCADE
		);`,
		`CREATE INDEX IF NOT EXISTS entry_tokens_token_idx ON entry_tokens (token);`,
		`CREATE INDEX IF NOT EXISTS entry_tokens_entry_id_idx ON entry_tokens (entry_id);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
