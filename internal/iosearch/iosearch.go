// Package iosearch implements gnmsf.Searcher. It reads models, hits and
// topologies from files, runs the engine and writes reports, stores and
// metrics.
package iosearch

import (
	"context"
	"log/slog"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnmsf/internal/iohits"
	"github.com/gnames/gnmsf/internal/iometrics"
	"github.com/gnames/gnmsf/internal/iomodels"
	"github.com/gnames/gnmsf/internal/ioreport"
	"github.com/gnames/gnmsf/internal/iostore"
	"github.com/gnames/gnmsf/pkg/cluster"
	"github.com/gnames/gnmsf/pkg/config"
	"github.com/gnames/gnmsf/pkg/engine"
	"github.com/gnames/gnmsf/pkg/ent/diag"
	"github.com/gnames/gnmsf/pkg/ent/model"
	"github.com/gnames/gnmsf/pkg/gnmsf"
	"github.com/gnames/gnmsf/pkg/hitindex"
	"github.com/gnames/gnmsf/pkg/quorum"
	"github.com/gnames/gnmsf/pkg/store"
)

type searcher struct {
	cfg          *config.Config
	showProgress bool
}

// New creates a Searcher. When showProgress is true a progress bar over
// replicons is drawn on the terminal.
func New(cfg *config.Config, showProgress bool) gnmsf.Searcher {
	return &searcher{cfg: cfg, showProgress: showProgress}
}

// Search runs all phases of a search. Input problems that concern single
// models or rows are diagnostics; unreadable inputs, missing models and
// output failures are errors.
func (s *searcher) Search(ctx context.Context) (*gnmsf.Summary, error) {
	startTime := time.Now()
	run := store.NewRun(startTime)
	run.Version = gnmsf.Version
	run.HitsPath = s.cfg.Input.HitsPath
	run.ModelsPath = s.cfg.ModelsPath()
	slog.Info("Starting search", "run", run.ID,
		"hits", run.HitsPath, "models", run.ModelsPath)

	if run.HitsPath == "" {
		return nil, NoHitsError()
	}

	cat, inputDiags, err := LoadCatalog(run.ModelsPath, s.cfg.Input.ModelIDs)
	if err != nil {
		return nil, err
	}
	if cat.Len() == 0 {
		return nil, engine.NoModelsError()
	}

	hits, rowDiags, err := iohits.ReadHits(run.HitsPath)
	if err != nil {
		return nil, err
	}
	inputDiags = append(inputDiags, rowDiags...)

	var topo map[string]cluster.Topology
	if path := s.cfg.Input.TopologyPath; path != "" {
		if topo, err = iohits.ReadTopology(path); err != nil {
			return nil, err
		}
	}

	idx := hitindex.New(cat,
		hitindex.OptMinProfileCoverage(s.cfg.Search.MinProfileCoverage))
	kept := idx.IngestAll(hits)
	gn.Info("Read <em>%s</em> hits, kept <em>%s</em> on %d replicons",
		humanize.Comma(int64(len(hits))), humanize.Comma(int64(kept)),
		len(idx.Replicons()))

	res, err := s.runEngine(cat, idx, topo)
	if err != nil {
		return nil, err
	}
	res.Diagnostics = append(res.Diagnostics, inputDiags...)
	diag.Sort(res.Diagnostics)

	run.Duration = time.Since(startTime)
	summary := &gnmsf.Summary{
		RunID:            run.ID,
		Result:           res,
		InputDiagnostics: inputDiags,
	}

	if summary.Reports, err = ioreport.New(s.cfg.Output).Write(run.ID, res); err != nil {
		return nil, err
	}

	if s.cfg.Output.Store != "" && s.cfg.Output.Store != "none" {
		if err = s.save(ctx, run, res); err != nil {
			return nil, err
		}
		summary.Stored = true
	}

	if path := s.cfg.Output.MetricsFile; path != "" {
		m := iometrics.New()
		m.Observe(res, run.Duration, time.Now())
		if err = m.WriteFile(path); err != nil {
			return nil, err
		}
	}

	summary.Elapsed = time.Since(startTime)
	slog.Info("Search complete",
		"run", run.ID,
		"occurrences", len(res.Occurrences),
		"diagnostics", len(res.Diagnostics),
		"duration", gnfmt.TimeString(summary.Elapsed.Seconds()),
	)
	return summary, nil
}

// LoadCatalog reads model definitions and keeps the valid ones, restricted
// to ids when they are given.
func LoadCatalog(path string, ids []string) (*model.Catalog, []diag.Diagnostic, error) {
	defs, err := iomodels.New(path).Load()
	if err != nil {
		return nil, nil, err
	}
	cat, ds := model.NewCatalog(defs)
	if cat, err = cat.Select(ids); err != nil {
		return nil, nil, err
	}
	slog.Info("Models loaded", "valid", cat.Len(), "skipped", len(ds))
	return cat, ds, nil
}

func (s *searcher) runEngine(
	cat *model.Catalog,
	idx *hitindex.Index,
	topo map[string]cluster.Topology,
) (*engine.Result, error) {
	// config validation guarantees a known value
	defTopo, _ := cluster.NewTopology(s.cfg.Search.DefaultTopology)

	opts := []engine.Option{
		engine.OptJobsNumber(s.cfg.JobsNumber),
		engine.OptWeights(quorum.Weights(s.cfg.Weights)),
		engine.OptMaxCandidates(s.cfg.Search.MaxCandidates),
		engine.OptMaxSwapRounds(s.cfg.Search.MaxSwapRounds),
		engine.OptDefaultTopology(defTopo),
	}

	if s.showProgress && len(idx.Replicons()) > 0 {
		bar := newProgressBar(len(idx.Replicons()), "Replicons: ")
		defer bar.Finish()
		opts = append(opts, engine.OptProgress(func(done, _ int) {
			bar.SetCurrent(int64(done))
		}))
	}

	return engine.New(cat, opts...).Run(idx, topo)
}

func (s *searcher) save(ctx context.Context, run store.Run, res *engine.Result) error {
	st, err := iostore.New(s.cfg)
	if err != nil {
		return err
	}
	if err = st.Open(ctx); err != nil {
		return err
	}
	defer st.Close()
	return st.Save(ctx, run, res)
}

// newProgressBar creates a new progress bar with consistent
// settings.
func newProgressBar(total int, prefix string) *pb.ProgressBar {
	bar := pb.Full.Start(total)
	bar.Set("prefix", prefix)
	bar.Set(pb.CleanOnFinish, true)
	return bar
}
