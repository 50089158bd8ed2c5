// Package store provides the durable candidate store backed by SQLite.
// There is exactly one writer (the pipeline), so no locking discipline is
// needed beyond what SQLite itself provides.
package store

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	// Registers the pure-Go "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS candidates (
	did               TEXT PRIMARY KEY,
	handle            TEXT NOT NULL,
	discovery_sources TEXT NOT NULL DEFAULT '[]',
	discovered_at     TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_candidates_handle ON candidates(handle);

CREATE TABLE IF NOT EXISTS profiles (
	did          TEXT PRIMARY KEY REFERENCES candidates(did) ON DELETE CASCADE,
	handle       TEXT NOT NULL,
	display_name TEXT NOT NULL DEFAULT '',
	description  TEXT NOT NULL DEFAULT '',
	avatar_url   TEXT NOT NULL DEFAULT '',
	fetched_at   TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS posts (
	uri        TEXT PRIMARY KEY,
	cid        TEXT NOT NULL,
	author_did TEXT NOT NULL REFERENCES candidates(did) ON DELETE CASCADE,
	created_at TIMESTAMP NOT NULL,
	text       TEXT NOT NULL DEFAULT '',
	is_repost  BOOLEAN NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_posts_author ON posts(author_did);

CREATE TABLE IF NOT EXISTS evaluations (
	did            TEXT PRIMARY KEY REFERENCES candidates(did) ON DELETE CASCADE,
	model          TEXT NOT NULL,
	run_at         TIMESTAMP NOT NULL,
	score_location REAL NOT NULL,
	score_tech     REAL NOT NULL,
	score_overall  REAL NOT NULL,
	label          TEXT NOT NULL,
	rationale      TEXT NOT NULL DEFAULT '',
	evidence       TEXT NOT NULL DEFAULT '[]',
	uncertainties  TEXT NOT NULL DEFAULT '[]'
);
CREATE INDEX IF NOT EXISTS idx_evaluations_overall ON evaluations(score_overall);

CREATE TABLE IF NOT EXISTS pipeline_runs (
	id           TEXT PRIMARY KEY,
	stage        TEXT NOT NULL,
	status       TEXT NOT NULL,
	processed    INTEGER NOT NULL DEFAULT 0,
	started_at   TIMESTAMP NOT NULL,
	completed_at TIMESTAMP
);
`

// Store wraps the SQLite connection pool.
type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

// Open connects to the SQLite database at path, creating the schema if
// needed. Use ":memory:" for an ephemeral store in tests.
func Open(path string) (*Store, error) {
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: opening database %s: %w", path, err)
	}

	// One writer drives all mutations, and a single pooled connection keeps
	// ":memory:" databases coherent across queries.
	db.SetMaxOpenConns(1)

	// SQLite ships with foreign keys off; the cascade rules depend on them.
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: enabling foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: setting WAL mode: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: creating schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// SetNow overrides the store's clock. Tests use this to control timestamps
// written by the Replace* operations.
func (s *Store) SetNow(now func() time.Time) {
	s.now = now
}
