// Package hitindex keeps the normalized hits a run works with. It filters
// invalid records, keeps one best hit per protein and profile, and answers
// queries by replicon and by gene.
package hitindex

import (
	"log/slog"
	"slices"

	"github.com/gnames/gnmsf/pkg/ent/diag"
	"github.com/gnames/gnmsf/pkg/ent/hit"
)

// GeneSet tells which gene names are used by loaded models.
// model.Catalog satisfies it.
type GeneSet interface {
	KnownGene(name string) bool
}

// Option configures an Index.
type Option func(*Index)

// OptMinProfileCoverage drops hits whose profile coverage is below the
// given fraction.
func OptMinProfileCoverage(f float64) Option {
	return func(idx *Index) {
		idx.minProfileCoverage = f
	}
}

// Index holds the best hit per (replicon, protein, gene) key. Ingest is not
// safe for concurrent use; once ingestion is over the query methods can be
// used from many goroutines.
type Index struct {
	genes              GeneSet
	minProfileCoverage float64

	entries map[hit.Key]hit.Hit
	byRep   map[string][]hit.Key
	byGene  map[string][]hit.Key
	diags   []diag.Diagnostic
}

// New creates an empty Index for the genes of the given set.
func New(genes GeneSet, opts ...Option) *Index {
	res := &Index{
		genes:   genes,
		entries: make(map[hit.Key]hit.Hit),
		byRep:   make(map[string][]hit.Key),
		byGene:  make(map[string][]hit.Key),
	}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// Ingest adds a hit. Invalid hits, hits of genes no model uses, and hits
// below the profile coverage threshold are dropped: the returned error
// explains why and a diagnostic is recorded. A hit replaces a stored one
// with the same key only if it is better (higher score, then higher
// coverage).
func (idx *Index) Ingest(h hit.Hit) error {
	if err := h.Validate(); err != nil {
		idx.addDiag(h, diag.InvalidHit, err)
		return err
	}
	if idx.genes != nil && !idx.genes.KnownGene(h.GeneName) {
		err := hit.UnknownGeneError(h)
		idx.addDiag(h, diag.UnknownGene, err)
		return err
	}
	if h.ProfileCoverage < idx.minProfileCoverage {
		err := hit.BelowThresholdError(h, idx.minProfileCoverage)
		idx.addDiag(h, diag.BelowThreshold, err)
		return err
	}

	key := h.Key()
	old, ok := idx.entries[key]
	if !ok {
		idx.entries[key] = h
		idx.byRep[h.RepliconID] = append(idx.byRep[h.RepliconID], key)
		idx.byGene[h.GeneName] = append(idx.byGene[h.GeneName], key)
		return nil
	}
	if hit.Better(h, old) {
		slog.Debug("Hit replaced by a better one", "key", key.String(),
			"old_score", old.Score, "new_score", h.Score)
		idx.entries[key] = h
	}
	return nil
}

// IngestAll adds hits in order and returns the number of retained records.
func (idx *Index) IngestAll(hs []hit.Hit) int {
	for _, h := range hs {
		_ = idx.Ingest(h)
	}
	return idx.Len()
}

func (idx *Index) addDiag(h hit.Hit, reason diag.Reason, err error) {
	d := diag.FromError(diag.Validation, reason, err)
	d.RepliconID = h.RepliconID
	d.Subject = h.Key().String()
	idx.diags = append(idx.diags, d)
}

// Len returns the number of retained hits.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Replicons returns the ids of replicons with at least one hit, sorted.
func (idx *Index) Replicons() []string {
	res := make([]string, 0, len(idx.byRep))
	for k := range idx.byRep {
		res = append(res, k)
	}
	slices.Sort(res)
	return res
}

// HitsForReplicon returns the hits of a replicon ordered by position, gene
// name and protein id.
func (idx *Index) HitsForReplicon(id string) []hit.Hit {
	return idx.collect(idx.byRep[id])
}

// HitsForGene returns the hits of a gene across replicons, ordered by
// replicon and position.
func (idx *Index) HitsForGene(name string) []hit.Hit {
	return idx.collect(idx.byGene[name])
}

// All returns every retained hit in replicon and position order.
func (idx *Index) All() []hit.Hit {
	res := make([]hit.Hit, 0, len(idx.entries))
	for _, h := range idx.entries {
		res = append(res, h)
	}
	sortHits(res)
	return res
}

func (idx *Index) collect(keys []hit.Key) []hit.Hit {
	res := make([]hit.Hit, len(keys))
	for i, k := range keys {
		res[i] = idx.entries[k]
	}
	sortHits(res)
	return res
}

func sortHits(hs []hit.Hit) {
	slices.SortStableFunc(hs, hit.Compare)
}

// Diagnostics returns the records of every dropped hit, sorted.
func (idx *Index) Diagnostics() []diag.Diagnostic {
	res := slices.Clone(idx.diags)
	diag.Sort(res)
	return res
}
