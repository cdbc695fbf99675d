// Package quorum decides whether a set of hits fulfills a model and scores
// the hits that do.
package quorum

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/gnames/gnmsf/pkg/ent/diag"
	"github.com/gnames/gnmsf/pkg/ent/hit"
	"github.com/gnames/gnmsf/pkg/ent/model"
)

// Weights scale hit scores according to the role a hit fulfills.
type Weights struct {
	Mandatory        float64 `mapstructure:"mandatory" yaml:"mandatory"`
	Accessory        float64 `mapstructure:"accessory" yaml:"accessory"`
	Neutral          float64 `mapstructure:"neutral" yaml:"neutral"`
	Itself           float64 `mapstructure:"itself" yaml:"itself"`
	Exchangeable     float64 `mapstructure:"exchangeable" yaml:"exchangeable"`
	LonerMultiSystem float64 `mapstructure:"loner_multi_system" yaml:"loner_multi_system"`
}

// DefaultWeights returns the standard weighting scheme.
func DefaultWeights() Weights {
	return Weights{
		Mandatory:        1.0,
		Accessory:        0.5,
		Neutral:          0.0,
		Itself:           1.0,
		Exchangeable:     0.8,
		LonerMultiSystem: 0.7,
	}
}

func (w Weights) role(r model.Role) float64 {
	switch r {
	case model.Mandatory:
		return w.Mandatory
	case model.Accessory:
		return w.Accessory
	case model.Neutral:
		return w.Neutral
	default:
		return 0
	}
}

// Fill is a role slot of a model together with the genes that fulfill it.
type Fill struct {
	Group string     `json:"group"`
	Role  model.Role `json:"role"`
	Genes []string   `json:"genes"`
}

// Verdict is the outcome of an evaluation.
type Verdict struct {
	Accepted bool        `json:"accepted"`
	Reason   diag.Reason `json:"reason,omitempty"`
	Details  string      `json:"details,omitempty"`

	// Mandatory, Accessory and Neutral count distinct groups.
	Mandatory int `json:"mandatory"`
	Accessory int `json:"accessory"`
	Neutral   int `json:"neutral"`
	// Total is Mandatory plus Accessory.
	Total     int      `json:"total"`
	Forbidden []string `json:"forbidden,omitempty"`

	Score float64 `json:"score"`
	// RawScore sums the best unweighted hit score of every counted group.
	RawScore float64 `json:"raw_score"`
	// Wholeness is the fraction of mandatory and accessory groups present.
	Wholeness float64 `json:"wholeness"`

	Fills []Fill `json:"roles"`
}

// Evaluator applies quorum rules. It has no state besides its weights and
// can be shared by goroutines.
type Evaluator struct {
	w Weights
}

// New creates an Evaluator.
func New(w Weights) Evaluator {
	return Evaluator{w: w}
}

// Weights returns the weights in use.
func (e Evaluator) Weights() Weights {
	return e.w
}

type slot struct {
	group model.Group
	genes []string
	best  float64
	raw   float64
	seen  bool
}

// Evaluate checks hits against the model. The result depends only on the
// model and the set of hits, not on their order. Hits of genes the model
// does not know are ignored.
func (e Evaluator) Evaluate(m *model.Model, hits []hit.Hit) Verdict {
	groups := m.Groups()
	slots := make(map[string]*slot, len(groups))
	for _, g := range groups {
		slots[g.ID] = &slot{group: g}
	}

	for _, h := range hits {
		grp, ok := m.GroupOf(h.GeneName)
		if !ok {
			continue
		}
		s := slots[grp.ID]
		if !slices.Contains(s.genes, h.GeneName) {
			s.genes = append(s.genes, h.GeneName)
		}
		w := e.hitScore(m, grp, h)
		if !s.seen || w > s.best {
			s.best = w
		}
		if !s.seen || h.Score > s.raw {
			s.raw = h.Score
		}
		s.seen = true
	}

	var res Verdict
	for _, g := range groups {
		s := slots[g.ID]
		if !s.seen {
			continue
		}
		slices.Sort(s.genes)
		res.Fills = append(res.Fills, Fill{Group: g.ID, Role: g.Role, Genes: s.genes})
		switch g.Role {
		case model.Mandatory:
			res.Mandatory++
		case model.Accessory:
			res.Accessory++
		case model.Neutral:
			res.Neutral++
		case model.Forbidden:
			res.Forbidden = append(res.Forbidden, s.genes...)
			continue
		}
		res.Score += s.best
		if g.Role != model.Neutral {
			res.RawScore += s.raw
		}
	}
	res.Total = res.Mandatory + res.Accessory
	if all := m.GroupCount(model.Mandatory) + m.GroupCount(model.Accessory); all > 0 {
		res.Wholeness = float64(res.Total) / float64(all)
	}

	switch {
	case len(res.Forbidden) > 0:
		res.Reason = diag.ForbiddenGenePresent
		res.Details = "forbidden genes present: " + strings.Join(res.Forbidden, ", ")
	case res.Mandatory < m.MinMandatory:
		res.Reason = diag.QuorumNotMet
		res.Details = fmt.Sprintf(
			"%d mandatory roles found, %d required", res.Mandatory, m.MinMandatory)
	case res.Total < m.MinTotal:
		res.Reason = diag.QuorumNotMet
		res.Details = fmt.Sprintf(
			"%d mandatory and accessory roles found, %d required",
			res.Total, m.MinTotal)
	default:
		res.Accepted = true
		res.Details = fmt.Sprintf(
			"%d/%d mandatory, %d/%d total roles",
			res.Mandatory, m.MinMandatory, res.Total, m.MinTotal)
	}
	return res
}

func (e Evaluator) hitScore(m *model.Model, grp model.Group, h hit.Hit) float64 {
	res := h.Score * e.w.role(grp.Role)
	if grp.Reference == h.GeneName {
		res *= e.w.Itself
	} else {
		res *= e.w.Exchangeable
	}
	if g, _ := m.Gene(h.GeneName); g.Loner && g.MultiSystem {
		res *= e.w.LonerMultiSystem
	}
	return res
}

// Compare ranks verdicts: higher score first, then more mandatory roles,
// then more roles in total, then higher raw score. It returns a negative
// number when a ranks before b.
func Compare(a, b Verdict) int {
	return cmp.Or(
		cmp.Compare(b.Score, a.Score),
		cmp.Compare(b.Mandatory, a.Mandatory),
		cmp.Compare(b.Total, a.Total),
		cmp.Compare(b.RawScore, a.RawScore),
	)
}
