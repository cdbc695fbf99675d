package iostore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gnames/gnmsf/pkg/engine"
	"github.com/gnames/gnmsf/pkg/store"
	_ "modernc.org/sqlite"
)

type sqliteStore struct {
	path string
	db   *sql.DB
}

// NewSQLite creates a store backed by a SQLite file.
func NewSQLite(path string) store.Store {
	return &sqliteStore{path: path}
}

func (s *sqliteStore) Open(ctx context.Context) error {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return ConnectionError(s.path, err)
	}
	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return ConnectionError(s.path, err)
	}
	for _, q := range schema {
		if _, err = db.ExecContext(ctx, q); err != nil {
			db.Close()
			return SchemaError(s.path, err)
		}
	}
	s.db = db
	return nil
}

func (s *sqliteStore) Save(
	ctx context.Context,
	run store.Run,
	res *engine.Result,
) error {
	if s.db == nil {
		return NotOpenError(s.path)
	}
	rows := store.NewRows(run, res)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SaveError(store.TableRuns, err)
	}
	defer tx.Rollback()

	if err = insert(ctx, tx, store.TableRuns, store.RunColumns,
		[][]any{rows.Run}); err != nil {
		return err
	}
	if err = insert(ctx, tx, store.TableOccurrences, store.OccurrenceColumns,
		rows.Occurrences); err != nil {
		return err
	}
	if err = insert(ctx, tx, store.TableOccurrenceHits,
		store.OccurrenceHitColumns, rows.OccurrenceHits); err != nil {
		return err
	}
	if err = insert(ctx, tx, store.TableDiagnostics, store.DiagnosticColumns,
		rows.Diagnostics); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return SaveError(store.TableRuns, err)
	}
	slog.Info("Saved run to SQLite", "path", s.path, "run", run.ID,
		"occurrences", len(rows.Occurrences))
	return nil
}

func insert(
	ctx context.Context,
	tx *sql.Tx,
	table string,
	columns []string,
	rows [][]any,
) error {
	if len(rows) == 0 {
		return nil
	}
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table,
		strings.Join(columns, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", "),
	)
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		return SaveError(table, err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err = stmt.ExecContext(ctx, row...); err != nil {
			return SaveError(table, err)
		}
	}
	return nil
}

func (s *sqliteStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
