package candidate

import (
	"log/slog"

	"github.com/gnames/gnmsf/pkg/cluster"
	"github.com/gnames/gnmsf/pkg/ent/diag"
	"github.com/gnames/gnmsf/pkg/ent/hit"
	"github.com/gnames/gnmsf/pkg/ent/model"
)

// Generator enumerates candidates. The zero value has no bound.
type Generator struct {
	// MaxCandidates caps the candidates of one model on one replicon.
	// Zero means no cap.
	MaxCandidates int
}

// NewGenerator creates a Generator with the given bound.
func NewGenerator(maxCandidates int) Generator {
	return Generator{MaxCandidates: max(maxCandidates, 0)}
}

type groupSet map[string]struct{}

func (s groupSet) union(other groupSet) groupSet {
	res := make(groupSet, len(s)+len(other))
	for k := range s {
		res[k] = struct{}{}
	}
	for k := range other {
		res[k] = struct{}{}
	}
	return res
}

// coverage keeps the mandatory and the mandatory-or-accessory groups a set
// of hits fulfills.
type coverage struct {
	mand  groupSet
	total groupSet
}

func (c coverage) union(o coverage) coverage {
	return coverage{mand: c.mand.union(o.mand), total: c.total.union(o.total)}
}

// within tells if every group of c is already in o.
func (c coverage) within(o coverage) bool {
	for k := range c.total {
		if _, ok := o.total[k]; !ok {
			return false
		}
	}
	return true
}

func (c coverage) reaches(m *model.Model) bool {
	return len(c.mand) >= m.MinMandatory && len(c.total) >= m.MinTotal
}

func coverageOf(m *model.Model, hits []hit.Hit) coverage {
	res := coverage{mand: groupSet{}, total: groupSet{}}
	for _, h := range hits {
		grp, ok := m.GroupOf(h.GeneName)
		if !ok {
			continue
		}
		switch grp.Role {
		case model.Mandatory:
			res.mand[grp.ID] = struct{}{}
			res.total[grp.ID] = struct{}{}
		case model.Accessory:
			res.total[grp.ID] = struct{}{}
		}
	}
	return res
}

// lonerGroup holds the standalone loner hits that can fill one group.
type lonerGroup struct {
	id   string
	hits []hit.Hit
}

// run is the state of one enumeration.
type run struct {
	m      *model.Model
	repID  string
	limit  int
	res    []*Candidate
	full   bool
	groups []lonerGroup
}

// Generate enumerates the candidates of a model on one replicon from the
// clustering of its hits.
//
// Every eligible cluster (one holding a mandatory or accessory gene) is a
// candidate. Multi-locus models also get combinations of eligible clusters,
// walked by increasing size, in lexicographic order within a size, and
// capped by MaxLoci. A cluster is only added to a combination when it fills
// a group the combination misses. A combination is dropped, together with
// all its extensions, when even the clusters after it and all the loners
// could not reach the quorum. Each cluster set is then extended with every choice of
// standalone loner hits for the groups it does not fill yet. Models with
// loner genes also get candidates made of loners only.
//
// The result is deterministic. When MaxCandidates is reached the enumeration
// stops and a ResourceExhaustion diagnostic is returned.
func (g Generator) Generate(
	m *model.Model,
	repID string,
	cr cluster.Result,
) ([]*Candidate, []diag.Diagnostic) {
	r := &run{m: m, repID: repID, limit: g.MaxCandidates}

	var eligible []cluster.Cluster
	var covs []coverage
	for _, c := range cr.Clusters {
		cov := coverageOf(m, c.Hits)
		if len(cov.total) == 0 {
			continue
		}
		eligible = append(eligible, c)
		covs = append(covs, cov)
	}

	r.groups = lonerGroups(m, cr.Loners)
	var lonerHits []hit.Hit
	for _, lg := range r.groups {
		lonerHits = append(lonerHits, lg.hits...)
	}
	lonerCov := coverageOf(m, lonerHits)

	n := len(eligible)
	suffix := make([]coverage, n+1)
	suffix[n] = lonerCov
	for i := n - 1; i >= 0; i-- {
		suffix[i] = suffix[i+1].union(covs[i])
	}

	maxLoci := 1
	if m.MultiLocus {
		maxLoci = n
		if m.MaxLoci > 0 {
			maxLoci = min(m.MaxLoci, n)
		}
	}

	// Cluster sets are walked by size so that a truncated enumeration
	// still holds every single cluster before any combination.
	level := make([]node, n)
	for i := range n {
		level[i] = node{idx: []int{i}, cov: covs[i]}
	}
	for len(level) > 0 && !r.full {
		var next []node
		for _, nd := range level {
			if r.full {
				break
			}
			cls := make([]cluster.Cluster, len(nd.idx))
			for i, ci := range nd.idx {
				cls[i] = eligible[ci]
			}
			r.extend(cls)

			if len(nd.idx) >= maxLoci || !r.feasible(nd, maxLoci, suffix, lonerCov) {
				continue
			}
			for j := nd.last() + 1; j < n; j++ {
				// a cluster filling no new group only adds claimed hits
				if covs[j].within(nd.cov) {
					continue
				}
				idx := make([]int, len(nd.idx)+1)
				copy(idx, nd.idx)
				idx[len(nd.idx)] = j
				child := node{idx: idx, cov: nd.cov.union(covs[j])}
				if !r.feasible(child, maxLoci, suffix, lonerCov) {
					continue
				}
				// every node emits at least one candidate
				if r.limit > 0 && len(next) >= r.limit {
					break
				}
				next = append(next, child)
			}
		}
		level = next
	}

	if !r.full && m.HasLoners() && len(r.groups) > 0 && lonerCov.reaches(m) {
		r.extend(nil)
	}

	var ds []diag.Diagnostic
	if r.full {
		slog.Debug("Candidate enumeration truncated",
			"model", m.ID, "replicon", repID, "limit", r.limit)
		d := diag.FromError(diag.ResourceExhaustion, diag.EnumerationTruncated,
			TruncatedError(m.ID, repID, r.limit))
		d.ModelID = m.ID
		d.RepliconID = repID
		ds = append(ds, d)
	}
	return r.res, ds
}

// node is a set of eligible cluster indexes in increasing order.
type node struct {
	idx []int
	cov coverage
}

func (nd node) last() int {
	return nd.idx[len(nd.idx)-1]
}

// feasible tells if the node, the clusters it can still grow with and all
// the loners could reach the quorum.
func (r *run) feasible(
	nd node,
	maxLoci int,
	suffix []coverage,
	lonerCov coverage,
) bool {
	bound := nd.cov.union(lonerCov)
	if len(nd.idx) < maxLoci {
		bound = nd.cov.union(suffix[nd.last()+1])
	}
	return bound.reaches(r.m)
}

// lonerGroups collects standalone loners of mandatory and accessory groups
// in the model's group order.
func lonerGroups(m *model.Model, loners []hit.Hit) []lonerGroup {
	byGroup := make(map[string][]hit.Hit)
	for _, h := range loners {
		grp, ok := m.GroupOf(h.GeneName)
		if !ok || (grp.Role != model.Mandatory && grp.Role != model.Accessory) {
			continue
		}
		byGroup[grp.ID] = append(byGroup[grp.ID], h)
	}
	var res []lonerGroup
	for _, grp := range m.Groups() {
		if hs, ok := byGroup[grp.ID]; ok {
			res = append(res, lonerGroup{id: grp.ID, hits: hs})
		}
	}
	return res
}

// extend emits the cluster set alone and with every choice of loners for
// the groups it leaves open. An empty cluster set is only emitted with at
// least one loner.
func (r *run) extend(cls []cluster.Cluster) {
	filled := make(groupSet)
	for _, c := range cls {
		for _, h := range c.Hits {
			if grp, ok := r.m.GroupOf(h.GeneName); ok {
				filled[grp.ID] = struct{}{}
			}
		}
	}
	var open []lonerGroup
	for _, lg := range r.groups {
		if _, ok := filled[lg.id]; !ok {
			open = append(open, lg)
		}
	}

	// choice[i] == 0 means no loner for open[i], otherwise the hit
	// open[i].hits[choice[i]-1].
	choice := make([]int, len(open))
	for {
		var loners []hit.Hit
		for i, ch := range choice {
			if ch > 0 {
				loners = append(loners, open[i].hits[ch-1])
			}
		}
		if len(cls) > 0 || len(loners) > 0 {
			if r.limit > 0 && len(r.res) >= r.limit {
				r.full = true
				return
			}
			r.res = append(r.res, New(r.m, r.repID, len(r.res), cls, loners))
		}

		i := len(choice) - 1
		for ; i >= 0; i-- {
			choice[i]++
			if choice[i] <= len(open[i].hits) {
				break
			}
			choice[i] = 0
		}
		if i < 0 {
			return
		}
	}
}
