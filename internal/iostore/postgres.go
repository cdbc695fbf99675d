package iostore

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gnames/gnmsf/pkg/config"
	"github.com/gnames/gnmsf/pkg/engine"
	"github.com/gnames/gnmsf/pkg/store"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgStore struct {
	cfg  config.DatabaseConfig
	pool *pgxpool.Pool
}

// NewPostgres creates a store backed by a PostgreSQL database.
func NewPostgres(cfg config.DatabaseConfig) store.Store {
	return &pgStore{cfg: cfg}
}

func (p *pgStore) dsn() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.cfg.User,
		p.cfg.Password,
		p.cfg.Host,
		p.cfg.Port,
		p.cfg.Database,
		p.cfg.SSLMode,
	)
}

func (p *pgStore) addr() string {
	return fmt.Sprintf("%s:%d/%s", p.cfg.Host, p.cfg.Port, p.cfg.Database)
}

func (p *pgStore) Open(ctx context.Context) error {
	poolConfig, err := pgxpool.ParseConfig(p.dsn())
	if err != nil {
		return ConnectionError(p.addr(), err)
	}
	poolConfig.MaxConns = 4
	poolConfig.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return ConnectionError(p.addr(), err)
	}
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return ConnectionError(p.addr(), err)
	}

	for _, q := range schema {
		if _, err = pool.Exec(ctx, q); err != nil {
			pool.Close()
			return SchemaError(p.addr(), err)
		}
	}
	p.pool = pool
	return nil
}

func (p *pgStore) Save(
	ctx context.Context,
	run store.Run,
	res *engine.Result,
) error {
	if p.pool == nil {
		return NotOpenError(p.addr())
	}
	rows := store.NewRows(run, res)

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return SaveError(store.TableRuns, err)
	}
	defer tx.Rollback(ctx)

	placeholders := make([]string, len(store.RunColumns))
	for i := range placeholders {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		store.TableRuns,
		strings.Join(store.RunColumns, ", "),
		strings.Join(placeholders, ", "),
	)
	if _, err = tx.Exec(ctx, q, rows.Run...); err != nil {
		return SaveError(store.TableRuns, err)
	}

	batches := []struct {
		table   string
		columns []string
		rows    [][]any
	}{
		{store.TableOccurrences, store.OccurrenceColumns, rows.Occurrences},
		{store.TableOccurrenceHits, store.OccurrenceHitColumns, rows.OccurrenceHits},
		{store.TableDiagnostics, store.DiagnosticColumns, rows.Diagnostics},
	}
	for _, b := range batches {
		if err = p.copyRows(ctx, tx, b.table, b.columns, b.rows); err != nil {
			return err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return SaveError(store.TableRuns, err)
	}
	slog.Info("Saved run to PostgreSQL", "database", p.addr(), "run", run.ID,
		"occurrences", len(rows.Occurrences))
	return nil
}

// copyRows performs bulk insert using pgx.CopyFrom in batches.
func (p *pgStore) copyRows(
	ctx context.Context,
	tx pgx.Tx,
	table string,
	columns []string,
	rows [][]any,
) error {
	batchSize := p.cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 5000
	}

	for i := 0; i < len(rows); i += batchSize {
		end := min(i+batchSize, len(rows))
		_, err := tx.CopyFrom(
			ctx,
			pgx.Identifier{table},
			columns,
			pgx.CopyFromRows(rows[i:end]),
		)
		if err != nil {
			return SaveError(table, err)
		}
	}
	return nil
}

func (p *pgStore) Close() error {
	if p.pool != nil {
		p.pool.Close()
		p.pool = nil
	}
	return nil
}
