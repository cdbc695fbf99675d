// Package engine assembles system occurrences out of hits and models.
//
// For each replicon and each model the engine clusters the model's hits,
// enumerates candidates and evaluates their quorum. Replicons are
// independent, so this part runs in parallel. Accepted candidates of all
// replicons then meet at the selector, which keeps the best
// non-conflicting ones.
package engine

import (
	"log/slog"
	"runtime"
	"slices"
	"sync"

	"github.com/gnames/gnmsf/pkg/candidate"
	"github.com/gnames/gnmsf/pkg/cluster"
	"github.com/gnames/gnmsf/pkg/ent/diag"
	"github.com/gnames/gnmsf/pkg/ent/hit"
	"github.com/gnames/gnmsf/pkg/ent/model"
	"github.com/gnames/gnmsf/pkg/quorum"
	"github.com/gnames/gnmsf/pkg/selector"
	"golang.org/x/sync/errgroup"
)

// Hits is the read-only view of normalized hits the engine needs.
// *hitindex.Index satisfies it.
type Hits interface {
	Len() int
	Replicons() []string
	HitsForReplicon(id string) []hit.Hit
	Diagnostics() []diag.Diagnostic
}

// Engine runs searches for the models of a catalog.
type Engine struct {
	catalog *model.Catalog

	jobs            int
	weights         quorum.Weights
	maxCandidates   int
	maxSwapRounds   int
	defaultTopology cluster.Topology
	gate            Gate
	progress        Progress
}

// New creates an Engine.
func New(cat *model.Catalog, opts ...Option) *Engine {
	res := &Engine{
		catalog:       cat,
		jobs:          runtime.NumCPU(),
		weights:       quorum.DefaultWeights(),
		maxCandidates: 10_000,
		maxSwapRounds: selector.DefaultMaxRounds,
	}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// repliconResult keeps what one replicon produced.
type repliconResult struct {
	accepted    []*candidate.Candidate
	diagnostics []diag.Diagnostic
	stats       Stats
}

// Run searches all replicons of hits. Topology gives the shape of each
// replicon; missing replicons get the default topology. The run fails only
// when there is no model to search for; every other problem ends up in the
// diagnostics of the result.
func (e *Engine) Run(hits Hits, topology map[string]cluster.Topology) (*Result, error) {
	if e.catalog == nil || e.catalog.Len() == 0 {
		return nil, NoModelsError()
	}

	reps := hits.Replicons()
	results := make([]repliconResult, len(reps))
	eval := quorum.New(e.weights)
	gen := candidate.NewGenerator(e.maxCandidates)

	var mu sync.Mutex
	var done int
	var g errgroup.Group
	g.SetLimit(e.jobs)
	for i, rep := range reps {
		g.Go(func() error {
			topo, ok := topology[rep]
			if !ok {
				topo = e.defaultTopology
			}
			res, err := e.searchReplicon(rep, hits.HitsForReplicon(rep), topo,
				eval, gen)
			if err != nil {
				return err
			}
			results[i] = res

			mu.Lock()
			defer mu.Unlock()
			done++
			if e.progress != nil {
				e.progress(done, len(reps))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{Diagnostics: hits.Diagnostics()}
	res.Stats.Replicons = len(reps)
	res.Stats.Models = e.catalog.Len()
	res.Stats.Hits = hits.Len()

	var accepted []*candidate.Candidate
	for _, r := range results {
		accepted = append(accepted, r.accepted...)
		res.Diagnostics = append(res.Diagnostics, r.diagnostics...)
		res.Stats.add(r.stats)
	}

	sel, err := selector.New(eval, selector.OptMaxRounds(e.maxSwapRounds)).
		Select(accepted)
	if err != nil {
		return nil, err
	}
	res.Diagnostics = append(res.Diagnostics, sel.Diagnostics...)
	res.Stats.Selected = len(sel.Selected)
	res.Stats.Discarded = len(sel.Discarded)
	res.Stats.SwapRounds = sel.Rounds
	res.Stats.Swaps = sel.Swaps

	for _, c := range sel.Selected {
		res.Occurrences = append(res.Occurrences, newOccurrence(c))
	}
	slices.SortFunc(res.Occurrences, compareOccurrences)
	setUsedIn(res.Occurrences)
	diag.Sort(res.Diagnostics)

	slog.Info("Search finished",
		"replicons", res.Stats.Replicons,
		"candidates", res.Stats.Candidates,
		"occurrences", len(res.Occurrences),
		"diagnostics", len(res.Diagnostics),
	)
	return res, nil
}

func (e *Engine) searchReplicon(
	rep string,
	hits []hit.Hit,
	topo cluster.Topology,
	eval quorum.Evaluator,
	gen candidate.Generator,
) (repliconResult, error) {
	var res repliconResult
	if topo.Circular && !topo.HasBounds() {
		slog.Warn("Circular replicon without bounds, clusters will not wrap",
			"replicon", rep)
	}
	hits, res.diagnostics = inBounds(hits, topo)
	if len(res.diagnostics) > 0 {
		slog.Warn("Hits outside replicon bounds skipped",
			"replicon", rep, "count", len(res.diagnostics))
	}

	for _, m := range e.catalog.Models() {
		mhits := cluster.Prepare(hits, m)
		if len(mhits) == 0 {
			continue
		}
		if e.gate != nil && !e.gate(m, rep) {
			res.stats.Excluded++
			res.diagnostics = append(res.diagnostics, diag.Diagnostic{
				Kind:       diag.Rejection,
				Reason:     diag.ModelExcluded,
				ModelID:    m.ID,
				RepliconID: rep,
				Details:    "model excluded by inter-model rules",
			})
			continue
		}

		cr := cluster.Build(mhits, m, topo)
		cands, ds := gen.Generate(m, rep, cr)
		res.diagnostics = append(res.diagnostics, ds...)
		res.stats.Truncated += len(ds)
		res.stats.Candidates += len(cands)

		for _, c := range cands {
			if err := c.Evaluate(eval); err != nil {
				return res, err
			}
			if c.State() == candidate.Accepted {
				res.accepted = append(res.accepted, c)
				res.stats.Accepted++
				continue
			}
			res.stats.Rejected++
			res.diagnostics = append(res.diagnostics, c.RejectionDiagnostic())
		}
		slog.Debug("Model searched", "model", m.ID, "replicon", rep,
			"clusters", len(cr.Clusters), "loners", len(cr.Loners),
			"candidates", len(cands))
	}
	return res, nil
}

// inBounds drops the hits placed outside the replicon bounds.
func inBounds(hits []hit.Hit, topo cluster.Topology) ([]hit.Hit, []diag.Diagnostic) {
	if !topo.HasBounds() {
		return hits, nil
	}
	var ds []diag.Diagnostic
	res := make([]hit.Hit, 0, len(hits))
	for _, h := range hits {
		if topo.Contains(h.Position) {
			res = append(res, h)
			continue
		}
		d := diag.FromError(diag.Validation, diag.InvalidHit,
			hit.OutOfBoundsError(h, topo.Min, topo.Max))
		d.RepliconID = h.RepliconID
		d.Subject = h.Key().String()
		ds = append(ds, d)
	}
	return res, ds
}

func (s *Stats) add(o Stats) {
	s.Candidates += o.Candidates
	s.Accepted += o.Accepted
	s.Rejected += o.Rejected
	s.Truncated += o.Truncated
	s.Excluded += o.Excluded
}
