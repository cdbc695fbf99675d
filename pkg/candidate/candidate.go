// Package candidate enumerates the possible occurrences of a model on a
// replicon and tracks each of them from generation to final selection.
package candidate

import (
	"fmt"
	"math"
	"slices"

	"github.com/gnames/gnmsf/pkg/cluster"
	"github.com/gnames/gnmsf/pkg/ent/diag"
	"github.com/gnames/gnmsf/pkg/ent/hit"
	"github.com/gnames/gnmsf/pkg/ent/model"
	"github.com/gnames/gnmsf/pkg/quorum"
)

// State is a step of a candidate life cycle.
type State int

const (
	// Generated candidates wait for evaluation.
	Generated State = iota
	// Accepted candidates passed quorum and wait for conflict resolution.
	Accepted
	// Rejected candidates failed quorum. Terminal.
	Rejected
	// Selected candidates are final occurrences. Terminal.
	Selected
	// Discarded candidates lost a conflict. Terminal.
	Discarded
)

var stateNames = map[State]string{
	Generated: "generated",
	Accepted:  "accepted",
	Rejected:  "rejected",
	Selected:  "selected",
	Discarded: "discarded",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "unknown"
}

// IsTerminal reports whether no transition leaves the state.
func (s State) IsTerminal() bool {
	return s == Rejected || s == Selected || s == Discarded
}

// Candidate pairs a model with the clusters and loner hits of one replicon.
type Candidate struct {
	// Seq is the enumeration rank of the candidate for its model and
	// replicon.
	Seq        int
	Model      *model.Model
	RepliconID string
	Clusters   []cluster.Cluster
	Loners     []hit.Hit

	// Verdict is set by Evaluate.
	Verdict quorum.Verdict

	state State
	hits  []hit.Hit
}

// New creates a candidate in the Generated state.
func New(
	m *model.Model,
	repID string,
	seq int,
	cls []cluster.Cluster,
	loners []hit.Hit,
) *Candidate {
	res := &Candidate{
		Seq:        seq,
		Model:      m,
		RepliconID: repID,
		Clusters:   cls,
		Loners:     loners,
	}
	for _, c := range cls {
		res.hits = append(res.hits, c.Hits...)
	}
	res.hits = append(res.hits, loners...)
	slices.SortFunc(res.hits, hit.Compare)
	res.hits = slices.CompactFunc(res.hits, func(a, b hit.Hit) bool {
		return a.Key() == b.Key()
	})
	return res
}

// ID identifies the candidate within a run.
func (c *Candidate) ID() string {
	return fmt.Sprintf("%s@%s#%d", c.Model.ID, c.RepliconID, c.Seq)
}

// Hits returns the claimed hits ordered by position.
func (c *Candidate) Hits() []hit.Hit {
	return c.hits
}

// FirstPosition returns the smallest claimed position.
func (c *Candidate) FirstPosition() int {
	if len(c.hits) == 0 {
		return 0
	}
	return c.hits[0].Position
}

// Loci returns the number of clusters holding more than one hit.
// Single-hit clusters and standalone loners are not counted.
func (c *Candidate) Loci() int {
	var res int
	for _, cl := range c.Clusters {
		if len(cl.Hits) > 1 {
			res++
		}
	}
	return res
}

// Copies estimates how many copies of the system the claimed hits hold:
// the median number of hits per mandatory group, rounded half to even and
// never below one. Mandatory groups without hits count as zero.
func (c *Candidate) Copies() int {
	counts := make(map[string]int)
	for _, h := range c.Hits() {
		if grp, ok := c.Model.GroupOf(h.GeneName); ok && grp.Role == model.Mandatory {
			counts[grp.ID]++
		}
	}
	var ns []float64
	for _, grp := range c.Model.Groups() {
		if grp.Role == model.Mandatory {
			ns = append(ns, float64(counts[grp.ID]))
		}
	}
	if len(ns) == 0 {
		return 1
	}
	slices.Sort(ns)
	med := ns[len(ns)/2]
	if len(ns)%2 == 0 {
		med = (ns[len(ns)/2-1] + med) / 2
	}
	return max(1, int(math.RoundToEven(med)))
}

// Composition returns the gene names of each cluster, followed by one
// entry per standalone loner.
func (c *Candidate) Composition() [][]string {
	res := make([][]string, 0, len(c.Clusters)+len(c.Loners))
	for _, cl := range c.Clusters {
		genes := make([]string, len(cl.Hits))
		for i, h := range cl.Hits {
			genes[i] = h.GeneName
		}
		res = append(res, genes)
	}
	for _, h := range c.Loners {
		res = append(res, []string{h.GeneName})
	}
	return res
}

// State returns the current state.
func (c *Candidate) State() State {
	return c.state
}

// Evaluate applies quorum rules and moves the candidate to Accepted or
// Rejected.
func (c *Candidate) Evaluate(e quorum.Evaluator) error {
	if c.state != Generated {
		return StateError(c, Accepted)
	}
	c.Verdict = e.Evaluate(c.Model, c.hits)
	if c.Verdict.Accepted {
		c.state = Accepted
	} else {
		c.state = Rejected
	}
	return nil
}

// Select moves an accepted candidate to Selected.
func (c *Candidate) Select() error {
	return c.move(Accepted, Selected)
}

// Discard moves an accepted candidate to Discarded.
func (c *Candidate) Discard() error {
	return c.move(Accepted, Discarded)
}

func (c *Candidate) move(from, to State) error {
	if c.state != from {
		return StateError(c, to)
	}
	c.state = to
	return nil
}

// Diagnostic describes why the candidate was excluded.
func (c *Candidate) Diagnostic(reason diag.Reason, details string) diag.Diagnostic {
	return diag.Diagnostic{
		Kind:       diag.Rejection,
		Reason:     reason,
		ModelID:    c.Model.ID,
		RepliconID: c.RepliconID,
		Subject:    c.ID(),
		Details:    details,
	}
}

// RejectionDiagnostic explains a failed quorum.
func (c *Candidate) RejectionDiagnostic() diag.Diagnostic {
	return c.Diagnostic(c.Verdict.Reason, c.Verdict.Details+"; "+c.describe())
}

func (c *Candidate) describe() string {
	res := fmt.Sprintf("%d clusters, %d loners, positions", len(c.Clusters),
		len(c.Loners))
	for i, h := range c.hits {
		sep := ","
		if i == 0 {
			sep = ""
		}
		res += fmt.Sprintf("%s %d:%s", sep, h.Position, h.GeneName)
	}
	return res
}
