package iostore_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/gnames/gn"
	"github.com/gnames/gnmsf/internal/iostore"
	"github.com/gnames/gnmsf/internal/iotesting"
	"github.com/gnames/gnmsf/pkg/config"
	"github.com/gnames/gnmsf/pkg/engine"
	"github.com/gnames/gnmsf/pkg/ent/diag"
	"github.com/gnames/gnmsf/pkg/ent/hit"
	"github.com/gnames/gnmsf/pkg/errcode"
	"github.com/gnames/gnmsf/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func result() *engine.Result {
	return &engine.Result{
		Occurrences: []engine.Occurrence{
			{ID: "o1", ModelID: "M", RepliconID: "R1", Score: 2,
				Hits: []hit.Hit{
					{ID: "p1", GeneName: "a", RepliconID: "R1", Position: 1},
					{ID: "p2", GeneName: "b", RepliconID: "R1", Position: 2},
				}},
			{ID: "o2", ModelID: "M", RepliconID: "R2", Score: 1,
				Hits: []hit.Hit{
					{ID: "p9", GeneName: "a", RepliconID: "R2", Position: 7},
				}},
		},
		Diagnostics: []diag.Diagnostic{
			{Kind: diag.Validation, Reason: diag.InvalidHit,
				Code: errcode.HitValidationError},
		},
		Stats: engine.Stats{Replicons: 2, Models: 1, Selected: 2},
	}
}

func TestNew(t *testing.T) {
	cfg := config.New()
	cfg.Output.Store = "none"
	_, err := iostore.New(cfg)
	require.Error(t, err)
	assert.Equal(t, errcode.StoreConnectionError, err.(*gn.Error).Code)

	cfg.Output.Store = "sqlite"
	s, err := iostore.New(cfg)
	require.NoError(t, err)
	assert.NotNil(t, s)

	cfg.Output.Store = "postgres"
	s, err = iostore.New(cfg)
	require.NoError(t, err)
	assert.NotNil(t, s)
}

func TestSaveNotOpen(t *testing.T) {
	s := iostore.NewSQLite(filepath.Join(t.TempDir(), "x.sqlite"))
	err := s.Save(context.Background(), store.NewRun(time.Now()), result())
	require.Error(t, err)
	assert.Equal(t, errcode.StoreConnectionError, err.(*gn.Error).Code)
}

func TestSQLite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping SQLite test in short mode")
	}

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), iostore.SQLiteFile)
	s := iostore.NewSQLite(path)
	require.NoError(t, s.Open(ctx))

	for range 2 {
		run := store.NewRun(time.Now())
		require.NoError(t, s.Save(ctx, run, result()))
	}
	require.NoError(t, s.Close())

	// tables survive reopening
	require.NoError(t, s.Open(ctx))
	require.NoError(t, s.Close())

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	counts := map[string]int{
		store.TableRuns:           2,
		store.TableOccurrences:    4,
		store.TableOccurrenceHits: 6,
		store.TableDiagnostics:    2,
	}
	for table, want := range counts {
		var got int
		err = db.QueryRow("SELECT count(*) FROM " + table).Scan(&got)
		require.NoError(t, err)
		assert.Equal(t, want, got, table)
	}

	var model string
	err = db.QueryRow(
		"SELECT model FROM occurrences WHERE id = 'o2' LIMIT 1").Scan(&model)
	require.NoError(t, err)
	assert.Equal(t, "M", model)
}

func TestSQLiteDuplicateRun(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping SQLite test in short mode")
	}

	ctx := context.Background()
	s := iostore.NewSQLite(filepath.Join(t.TempDir(), iostore.SQLiteFile))
	require.NoError(t, s.Open(ctx))
	defer s.Close()

	run := store.NewRun(time.Now())
	require.NoError(t, s.Save(ctx, run, result()))
	err := s.Save(ctx, run, result())
	require.Error(t, err)
	assert.Equal(t, errcode.StoreSaveError, err.(*gn.Error).Code)
}

func TestSQLiteBadPath(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping SQLite test in short mode")
	}

	path := filepath.Join(t.TempDir(), "missing", "dir", iostore.SQLiteFile)
	s := iostore.NewSQLite(path)
	err := s.Open(context.Background())
	require.Error(t, err)
	code := err.(*gn.Error).Code
	assert.Contains(t,
		[]any{errcode.StoreConnectionError, errcode.StoreSchemaError}, code)
}

func TestPostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping PostgreSQL test in short mode")
	}

	cfg := iotesting.GetTestConfig(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s := iostore.NewPostgres(cfg.Database)
	if err := s.Open(ctx); err != nil {
		t.Skipf("PostgreSQL is not available: %v", err)
	}
	defer s.Close()

	run := store.NewRun(time.Now())
	require.NoError(t, s.Save(ctx, run, result()))
}
