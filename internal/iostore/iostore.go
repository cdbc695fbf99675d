// Package iostore implements store.Store for SQLite and PostgreSQL.
package iostore

import (
	"fmt"
	"path/filepath"

	"github.com/gnames/gnmsf/pkg/config"
	"github.com/gnames/gnmsf/pkg/store"
)

// SQLiteFile is the database file created in the output directory.
const SQLiteFile = "gnmsf.sqlite"

// New returns the store chosen by the output settings. The store still
// has to be opened.
func New(cfg *config.Config) (store.Store, error) {
	switch cfg.Output.Store {
	case "sqlite":
		return NewSQLite(filepath.Join(cfg.Output.Dir, SQLiteFile)), nil
	case "postgres":
		return NewPostgres(cfg.Database), nil
	default:
		return nil, ConnectionError(cfg.Output.Store,
			fmt.Errorf("unsupported store %q", cfg.Output.Store))
	}
}

// schema is valid for both SQLite and PostgreSQL.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		duration_ms BIGINT NOT NULL,
		version TEXT NOT NULL DEFAULT '',
		hits_path TEXT NOT NULL DEFAULT '',
		models_path TEXT NOT NULL DEFAULT '',
		replicons INTEGER NOT NULL DEFAULT 0,
		models INTEGER NOT NULL DEFAULT 0,
		hits INTEGER NOT NULL DEFAULT 0,
		candidates INTEGER NOT NULL DEFAULT 0,
		selected INTEGER NOT NULL DEFAULT 0,
		rejected INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS occurrences (
		run_id TEXT NOT NULL REFERENCES runs(id),
		id TEXT NOT NULL,
		model TEXT NOT NULL,
		replicon TEXT NOT NULL,
		score DOUBLE PRECISION NOT NULL,
		raw_score DOUBLE PRECISION NOT NULL,
		mandatory INTEGER NOT NULL,
		accessory INTEGER NOT NULL,
		neutral INTEGER NOT NULL,
		wholeness DOUBLE PRECISION NOT NULL,
		loci INTEGER NOT NULL,
		copies INTEGER NOT NULL DEFAULT 1,
		rationale TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (run_id, id)
	)`,
	`CREATE TABLE IF NOT EXISTS occurrence_hits (
		run_id TEXT NOT NULL,
		occurrence_id TEXT NOT NULL,
		hit_id TEXT NOT NULL,
		gene TEXT NOT NULL,
		replicon TEXT NOT NULL,
		position INTEGER NOT NULL,
		strand TEXT NOT NULL,
		score DOUBLE PRECISION NOT NULL,
		group_id TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS occurrence_hits_occurrence_idx
		ON occurrence_hits (run_id, occurrence_id)`,
	`CREATE TABLE IF NOT EXISTS diagnostics (
		run_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		reason TEXT NOT NULL,
		code INTEGER NOT NULL,
		model TEXT NOT NULL DEFAULT '',
		replicon TEXT NOT NULL DEFAULT '',
		subject TEXT NOT NULL DEFAULT '',
		details TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS diagnostics_run_idx ON diagnostics (run_id)`,
}
