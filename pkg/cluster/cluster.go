// Package cluster groups the hits of one model on one replicon into
// spatially coherent clusters.
package cluster

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gnames/gnmsf/pkg/ent/hit"
)

// Genes is the part of a model the builder needs. *model.Model satisfies it.
type Genes interface {
	Has(name string) bool
	IsLoner(name string) bool
	MaxSpace(a, b string) int
}

// Topology describes the shape of a replicon.
type Topology struct {
	// Circular replicons allow clusters to wrap around their ends.
	Circular bool `json:"circular"`

	// Min and Max are the first and last gene positions of the replicon.
	// They are needed to measure distances across the wrap. Zero Max means
	// the bounds are unknown.
	Min int `json:"min,omitempty"`
	Max int `json:"max,omitempty"`
}

// HasBounds reports whether Min and Max are set.
func (t Topology) HasBounds() bool {
	return t.Max > 0 && t.Max >= t.Min
}

// Contains reports whether a position lies within the bounds. Every
// position is contained when the bounds are unknown.
func (t Topology) Contains(pos int) bool {
	return !t.HasBounds() || (pos >= t.Min && pos <= t.Max)
}

// NewTopology parses "linear" or "circular".
func NewTopology(kind string) (Topology, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "linear", "":
		return Topology{}, nil
	case "circular":
		return Topology{Circular: true}, nil
	default:
		return Topology{}, fmt.Errorf("unknown topology %q", kind)
	}
}

func (t Topology) String() string {
	if t.Circular {
		return "circular"
	}
	return "linear"
}

// Cluster is a set of hits of one replicon that are close enough to belong
// to the same locus. Hits are ordered by position.
type Cluster struct {
	// Index is the rank of the cluster on its replicon.
	Index int
	Hits  []hit.Hit
	// Wraps is true when the cluster spans the end of a circular replicon.
	Wraps bool
}

// Start returns the position the cluster starts at, following the replicon
// direction.
func (c Cluster) Start() int {
	if len(c.Hits) == 0 {
		return 0
	}
	if c.Wraps {
		return c.Hits[c.wrapAt()].Position
	}
	return c.Hits[0].Position
}

// wrapAt returns the index of the first hit after the largest gap, which is
// where a wrapped cluster starts.
func (c Cluster) wrapAt() int {
	var at, gap int
	for i := 1; i < len(c.Hits); i++ {
		if d := c.Hits[i].Position - c.Hits[i-1].Position; d > gap {
			at, gap = i, d
		}
	}
	return at
}

func (c Cluster) String() string {
	return fmt.Sprintf("cluster %d (%d hits from %d)", c.Index, len(c.Hits),
		c.Start())
}

// Result is the outcome of clustering one replicon for one model.
type Result struct {
	// Clusters are disjoint and cover every non-loner hit once.
	Clusters []Cluster
	// Loners are loner hits that did not fall next to any cluster.
	Loners []hit.Hit
}

// Prepare keeps the hits of the model's genes and, where several of them
// share a position, the best one. The result is ordered by position.
func Prepare(hits []hit.Hit, m Genes) []hit.Hit {
	res := make([]hit.Hit, 0, len(hits))
	for _, h := range hits {
		if m.Has(h.GeneName) {
			res = append(res, h)
		}
	}
	sortHits(res)
	if len(res) < 2 {
		return res
	}
	out := res[:1]
	for _, h := range res[1:] {
		last := &out[len(out)-1]
		if last.Position != h.Position {
			out = append(out, h)
			continue
		}
		if hit.Better(h, *last) {
			*last = h
		}
	}
	return out
}

// Build clusters hits of one replicon. Hits may come in any order. Non-loner
// hits start a new cluster when the distance to the previous non-loner hit
// exceeds the allowed space. Loner hits never split or join clusters; a loner
// close to a cluster is added to the nearest one, the others are returned as
// standalone loners.
func Build(hits []hit.Hit, m Genes, topo Topology) Result {
	hs := slices.Clone(hits)
	sortHits(hs)

	var core, loners []hit.Hit
	for _, h := range hs {
		if m.IsLoner(h.GeneName) {
			loners = append(loners, h)
			continue
		}
		core = append(core, h)
	}

	var res Result
	for i, h := range core {
		if i == 0 || !collocates(core[i-1], h, m) {
			res.Clusters = append(res.Clusters, Cluster{})
		}
		c := &res.Clusters[len(res.Clusters)-1]
		c.Hits = append(c.Hits, h)
	}

	if topo.Circular && topo.HasBounds() && len(res.Clusters) > 1 {
		first := res.Clusters[0]
		last := res.Clusters[len(res.Clusters)-1]
		if wrapCollocates(last.Hits[len(last.Hits)-1], first.Hits[0], m, topo) {
			merged := Cluster{
				Hits:  append(slices.Clone(first.Hits), last.Hits...),
				Wraps: true,
			}
			res.Clusters = append([]Cluster{merged},
				res.Clusters[1:len(res.Clusters)-1]...)
		}
	}

	for _, l := range loners {
		best, bestDist := -1, 0
		for ci, c := range res.Clusters {
			d, ok := nearest(l, c, m, topo)
			if ok && (best < 0 || d < bestDist) {
				best, bestDist = ci, d
			}
		}
		if best < 0 {
			res.Loners = append(res.Loners, l)
			continue
		}
		res.Clusters[best].Hits = append(res.Clusters[best].Hits, l)
	}

	for i := range res.Clusters {
		res.Clusters[i].Index = i
		sortHits(res.Clusters[i].Hits)
	}
	return res
}

// distance is the number of genes between two hits with a.Position <=
// b.Position.
func distance(a, b hit.Hit) int {
	return b.Position - a.Position - 1
}

func collocates(a, b hit.Hit, m Genes) bool {
	return distance(a, b) <= m.MaxSpace(a.GeneName, b.GeneName)
}

// wrapDistance is the number of genes between the last hit and the first hit
// going over the end of a circular replicon. Both hits must lie within the
// bounds.
func wrapDistance(last, first hit.Hit, topo Topology) int {
	return (topo.Max - last.Position) + (first.Position - topo.Min)
}

// canWrap reports whether the distance between two hits may be measured
// over the end of the replicon.
func canWrap(a, b hit.Hit, topo Topology) bool {
	return topo.Circular && topo.HasBounds() &&
		topo.Contains(a.Position) && topo.Contains(b.Position)
}

func wrapCollocates(last, first hit.Hit, m Genes, topo Topology) bool {
	if !canWrap(last, first, topo) {
		return false
	}
	return wrapDistance(last, first, topo) <=
		m.MaxSpace(last.GeneName, first.GeneName)
}

// nearest returns the smallest distance between a loner and the hits of a
// cluster it collocates with.
func nearest(l hit.Hit, c Cluster, m Genes, topo Topology) (int, bool) {
	var res int
	var ok bool
	for _, h := range c.Hits {
		a, b := h, l
		if b.Position < a.Position {
			a, b = b, a
		}
		d := distance(a, b)
		if canWrap(a, b, topo) {
			d = min(d, wrapDistance(b, a, topo))
		}
		if d > m.MaxSpace(h.GeneName, l.GeneName) {
			continue
		}
		if !ok || d < res {
			res, ok = d, true
		}
	}
	return res, ok
}

func sortHits(hs []hit.Hit) {
	slices.SortStableFunc(hs, hit.Compare)
}
