/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnmsf/internal/iosearch"
	"github.com/gnames/gnmsf/pkg/config"
	"github.com/gnames/gnmsf/pkg/ent/diag"
	"github.com/gnames/gnmsf/pkg/gnmsf"
	"github.com/spf13/cobra"
)

type searchFlags struct {
	hitsPath           string
	topologyPath       string
	modelsPath         string
	modelIDs           []string
	outputDir          string
	format             string
	store              string
	metricsFile        string
	jobs               int
	minProfileCoverage float64
	maxCandidates      int
	defaultTopology    string
	quiet              bool
}

// getSearchCmd returns the search command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getSearchCmd() *cobra.Command {
	var flags searchFlags

	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "Find systems described by models in a hit table",
		Long: `Find macromolecular systems in a table of similarity-search hits.

This command:
  1. Reads model definitions (YAML file or directory of *.yaml)
  2. Reads the hit table (TSV with a header) and optional topology table
  3. Clusters hits of every model along every replicon
  4. Builds candidate systems from clusters and loner genes
  5. Checks candidates against quorum rules and scores them
  6. Selects the best set of systems that do not share hits
  7. Writes reports, and optionally a database store and metrics

Hit table columns:
  hit_id replicon position strand gene score coverage profile_coverage
  [i_evalue]

Topology table (no header):
  replicon  linear|circular  [min max]

Examples:
  # Search all models from the default models directory
  gnmsf search -i hits.tsv

  # Search secretion systems only, circular replicons listed in topo.tsv
  gnmsf search -i hits.tsv -m models/ -M TXSS -t topo.tsv

  # Save results to SQLite as well
  gnmsf search -i hits.tsv -s sqlite -o results`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runSearch(cmd, flags)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	f := searchCmd.Flags()
	f.StringVarP(&flags.hitsPath, "hits", "i", "",
		"hit table (TSV)")
	f.StringVarP(&flags.topologyPath, "topology", "t", "",
		"replicon topology table (TSV)")
	f.StringVarP(&flags.modelsPath, "models", "m", "",
		"model definitions file or directory")
	f.StringSliceVarP(&flags.modelIDs, "model-ids", "M", []string{},
		"models or model families to search (empty = all)")
	f.StringVarP(&flags.outputDir, "output", "o", "",
		"directory for reports")
	f.StringVarP(&flags.format, "format", "f", "",
		"report format: json, tsv or all")
	f.StringVarP(&flags.store, "store", "s", "",
		"save results to: none, sqlite or postgres")
	f.StringVar(&flags.metricsFile, "metrics-file", "",
		"write run metrics to a Prometheus text file")
	f.IntVarP(&flags.jobs, "jobs", "j", 0,
		"number of replicons processed concurrently")
	f.Float64VarP(&flags.minProfileCoverage, "min-profile-coverage", "c", 0,
		"drop hits covering less of their profile")
	f.IntVar(&flags.maxCandidates, "max-candidates", 0,
		"bound of candidates per model and replicon (0 = no bound)")
	f.StringVar(&flags.defaultTopology, "default-topology", "",
		"topology of unlisted replicons: linear or circular")
	f.BoolVarP(&flags.quiet, "quiet", "q", false,
		"do not show progress")

	return searchCmd
}

func searchOptions(cmd *cobra.Command, flags searchFlags) []config.Option {
	var res []config.Option
	changed := cmd.Flags().Changed

	if changed("hits") {
		res = append(res, config.OptInputHitsPath(flags.hitsPath))
	}
	if changed("topology") {
		res = append(res, config.OptInputTopologyPath(flags.topologyPath))
	}
	if changed("models") {
		res = append(res, config.OptInputModelsPath(flags.modelsPath))
	}
	if changed("model-ids") {
		res = append(res, config.OptInputModelIDs(flags.modelIDs))
	}
	if changed("output") {
		res = append(res, config.OptOutputDir(flags.outputDir))
	}
	if changed("format") {
		res = append(res, config.OptOutputFormat(flags.format))
	}
	if changed("store") {
		res = append(res, config.OptOutputStore(flags.store))
	}
	if changed("metrics-file") {
		res = append(res, config.OptOutputMetricsFile(flags.metricsFile))
	}
	if changed("jobs") {
		res = append(res, config.OptJobsNumber(flags.jobs))
	}
	if changed("min-profile-coverage") {
		res = append(res,
			config.OptSearchMinProfileCoverage(flags.minProfileCoverage))
	}
	if changed("max-candidates") {
		res = append(res, config.OptSearchMaxCandidates(flags.maxCandidates))
	}
	if changed("default-topology") {
		res = append(res,
			config.OptSearchDefaultTopology(flags.defaultTopology))
	}
	return res
}

func runSearch(cmd *cobra.Command, flags searchFlags) error {
	ctx := context.Background()

	if searchOpts := searchOptions(cmd, flags); len(searchOpts) > 0 {
		cfg.Update(searchOpts)
	}

	s := iosearch.New(cfg, !flags.quiet)
	summary, err := s.Search(ctx)
	if err != nil {
		return err
	}

	printSummary(summary)
	return nil
}

func printSummary(s *gnmsf.Summary) {
	res := s.Result
	var rejected, skipped int
	for _, d := range res.Diagnostics {
		if d.Kind == diag.Rejection {
			rejected++
		} else {
			skipped++
		}
	}

	gn.Info(`Search complete
Systems found: <em>%s</em>, rejected candidates: %s, skipped inputs: %s
Replicons: %d, models: %d, candidates: %s
Reports: <em>%s</em>
Elapsed time: <em>%s</em>
`,
		humanize.Comma(int64(len(res.Occurrences))),
		humanize.Comma(int64(rejected)),
		humanize.Comma(int64(skipped)),
		res.Stats.Replicons,
		res.Stats.Models,
		humanize.Comma(int64(res.Stats.Candidates)),
		cfg.Output.Dir,
		gnfmt.TimeString(s.Elapsed.Seconds()),
	)

	if s.Stored {
		gn.Info("Run <em>%s</em> saved to %s store", s.RunID, cfg.Output.Store)
	}
	if res.Stats.Truncated > 0 {
		gn.Warn("Candidate enumeration was truncated %d times, "+
			"see rejected.tsv", res.Stats.Truncated)
	}
}

