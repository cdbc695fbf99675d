// Package gnmsf finds macromolecular systems in annotated genomes by
// assembling similarity-search hits according to declarative system models.
package gnmsf

import (
	"context"
	"time"

	"github.com/gnames/gnmsf/pkg/engine"
	"github.com/gnames/gnmsf/pkg/ent/diag"
)

var (
	// Version of the application. It is set by build flags.
	Version = "v0.1.0"
	// Build timestamp. It is set by build flags.
	Build = "n/a"
)

// Searcher runs a complete search: it reads inputs, assembles systems and
// writes every configured output.
type Searcher interface {
	Search(ctx context.Context) (*Summary, error)
}

// Summary describes a finished search.
type Summary struct {
	// RunID identifies the run in reports and stores.
	RunID string

	Result *engine.Result

	// InputDiagnostics are model and hit table problems found before the
	// engine started. They are also part of Result.Diagnostics.
	InputDiagnostics []diag.Diagnostic

	// Reports are the written report files.
	Reports []string

	// Stored is true when the run was saved to a database.
	Stored bool

	Elapsed time.Duration
}
