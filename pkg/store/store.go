// Package store defines how search results are persisted to a database.
// Implementations live in internal/iostore.
package store

import (
	"context"
	"time"

	"github.com/gnames/gnmsf/pkg/engine"
	"github.com/google/uuid"
)

// Store saves the results of runs.
type Store interface {
	// Open connects to the database and creates missing tables.
	Open(ctx context.Context) error

	// Save writes one run with its occurrences, claimed hits and
	// diagnostics in a single transaction.
	Save(ctx context.Context, run Run, res *engine.Result) error

	Close() error
}

// Run describes one invocation of the search.
type Run struct {
	// ID is a random UUID.
	ID         string
	StartedAt  time.Time
	Duration   time.Duration
	Version    string
	HitsPath   string
	ModelsPath string
}

// NewRun creates a run with a fresh id.
func NewRun(started time.Time) Run {
	return Run{ID: uuid.New().String(), StartedAt: started}
}

// Table names.
const (
	TableRuns           = "runs"
	TableOccurrences    = "occurrences"
	TableOccurrenceHits = "occurrence_hits"
	TableDiagnostics    = "diagnostics"
)

// Columns of the tables, in insert order.
var (
	RunColumns = []string{
		"id", "started_at", "duration_ms", "version", "hits_path",
		"models_path", "replicons", "models", "hits", "candidates",
		"selected", "rejected",
	}
	OccurrenceColumns = []string{
		"run_id", "id", "model", "replicon", "score", "raw_score",
		"mandatory", "accessory", "neutral", "wholeness", "loci", "copies",
		"rationale",
	}
	OccurrenceHitColumns = []string{
		"run_id", "occurrence_id", "hit_id", "gene", "replicon", "position",
		"strand", "score", "group_id", "role",
	}
	DiagnosticColumns = []string{
		"run_id", "kind", "reason", "code", "model", "replicon", "subject",
		"details",
	}
)

// Rows are the values of one run, ready for insertion.
type Rows struct {
	Run            []any
	Occurrences    [][]any
	OccurrenceHits [][]any
	Diagnostics    [][]any
}

// NewRows flattens a result into table rows.
func NewRows(run Run, res *engine.Result) Rows {
	st := res.Stats
	rows := Rows{
		Run: []any{
			run.ID, run.StartedAt.UTC().Format(time.RFC3339),
			run.Duration.Milliseconds(), run.Version, run.HitsPath,
			run.ModelsPath, st.Replicons, st.Models, st.Hits, st.Candidates,
			st.Selected, st.Rejected,
		},
	}

	for _, o := range res.Occurrences {
		rows.Occurrences = append(rows.Occurrences, []any{
			run.ID, o.ID, o.ModelID, o.RepliconID, o.Score, o.RawScore,
			o.Mandatory, o.Accessory, o.Neutral, o.Wholeness, o.Loci,
			o.Copies, o.Rationale,
		})
		groups := make(map[string][2]string)
		for _, f := range o.Roles {
			for _, g := range f.Genes {
				groups[g] = [2]string{f.Group, f.Role.String()}
			}
		}
		for _, h := range o.Hits {
			gr := groups[h.GeneName]
			rows.OccurrenceHits = append(rows.OccurrenceHits, []any{
				run.ID, o.ID, h.ID, h.GeneName, h.RepliconID, h.Position,
				h.Strand.String(), h.Score, gr[0], gr[1],
			})
		}
	}

	for _, d := range res.Diagnostics {
		rows.Diagnostics = append(rows.Diagnostics, []any{
			run.ID, d.Kind.String(), string(d.Reason),
			int(d.Code), d.ModelID, d.RepliconID, d.Subject,
			d.Details,
		})
	}
	return rows
}
