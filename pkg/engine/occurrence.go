package engine

import (
	"cmp"
	"strings"

	"github.com/gnames/gnmsf/pkg/candidate"
	"github.com/gnames/gnmsf/pkg/ent/diag"
	"github.com/gnames/gnmsf/pkg/ent/hit"
	"github.com/gnames/gnmsf/pkg/quorum"
	"github.com/gnames/gnuuid"
)

// Occurrence is a selected system: a model found on a replicon with the
// hits it claims.
type Occurrence struct {
	// ID is a UUID v5 built from the model, the replicon and the claimed
	// hits, so the same system gets the same ID in every run.
	ID         string    `json:"id"`
	ModelID    string    `json:"model"`
	RepliconID string    `json:"replicon"`
	Hits       []hit.Hit `json:"hits"`

	Score     float64 `json:"score"`
	RawScore  float64 `json:"raw_score"`
	Mandatory int     `json:"mandatory"`
	Accessory int     `json:"accessory"`
	Neutral   int     `json:"neutral"`
	Wholeness float64 `json:"wholeness"`
	// Loci is the number of clusters holding more than one hit.
	Loci int `json:"loci"`
	// Copies estimates how many copies of the system the hits hold.
	Copies int `json:"occurrence"`
	// Clusters lists the gene names of each cluster, then one entry per
	// standalone loner.
	Clusters [][]string `json:"clusters"`
	// UsedIn maps a claimed hit key to the IDs of the selected occurrences
	// of other models that claim it too.
	UsedIn map[string][]string `json:"used_in,omitempty"`

	Roles     []quorum.Fill `json:"roles"`
	Rationale string        `json:"rationale"`
}

// FirstPosition returns the smallest claimed position.
func (o Occurrence) FirstPosition() int {
	if len(o.Hits) == 0 {
		return 0
	}
	return o.Hits[0].Position
}

func newOccurrence(c *candidate.Candidate) Occurrence {
	keys := make([]string, 0, len(c.Hits())+2)
	keys = append(keys, c.Model.ID, c.RepliconID)
	for _, h := range c.Hits() {
		keys = append(keys, h.Key().String())
	}
	v := c.Verdict
	return Occurrence{
		ID:         gnuuid.New(strings.Join(keys, "|")).String(),
		ModelID:    c.Model.ID,
		RepliconID: c.RepliconID,
		Hits:       c.Hits(),
		Score:      v.Score,
		RawScore:   v.RawScore,
		Mandatory:  v.Mandatory,
		Accessory:  v.Accessory,
		Neutral:    v.Neutral,
		Wholeness:  v.Wholeness,
		Loci:       c.Loci(),
		Copies:     c.Copies(),
		Clusters:   c.Composition(),
		Roles:      v.Fills,
		Rationale:  v.Details,
	}
}

// setUsedIn fills UsedIn of every occurrence from the hits shared with
// occurrences of other models.
func setUsedIn(occs []Occurrence) {
	type user struct {
		model, id string
	}
	users := make(map[hit.Key][]user)
	for _, o := range occs {
		for _, h := range o.Hits {
			users[h.Key()] = append(users[h.Key()], user{model: o.ModelID, id: o.ID})
		}
	}
	for i := range occs {
		o := &occs[i]
		for _, h := range o.Hits {
			var ids []string
			for _, u := range users[h.Key()] {
				if u.model != o.ModelID {
					ids = append(ids, u.id)
				}
			}
			if len(ids) == 0 {
				continue
			}
			if o.UsedIn == nil {
				o.UsedIn = make(map[string][]string)
			}
			o.UsedIn[h.Key().String()] = ids
		}
	}
}

func compareOccurrences(a, b Occurrence) int {
	return cmp.Or(
		cmp.Compare(a.RepliconID, b.RepliconID),
		cmp.Compare(a.FirstPosition(), b.FirstPosition()),
		cmp.Compare(a.ModelID, b.ModelID),
		cmp.Compare(a.ID, b.ID),
	)
}

// Stats counts what happened during a run.
type Stats struct {
	Replicons  int `json:"replicons"`
	Models     int `json:"models"`
	Hits       int `json:"hits"`
	Candidates int `json:"candidates"`
	Accepted   int `json:"accepted"`
	Rejected   int `json:"rejected"`
	Selected   int `json:"selected"`
	Discarded  int `json:"discarded"`
	Truncated  int `json:"truncated"`
	Excluded   int `json:"excluded"`
	SwapRounds int `json:"swap_rounds"`
	Swaps      int `json:"swaps"`
}

// Result is the output of a run.
type Result struct {
	Occurrences []Occurrence      `json:"occurrences"`
	Diagnostics []diag.Diagnostic `json:"diagnostics"`
	Stats       Stats             `json:"stats"`
}
