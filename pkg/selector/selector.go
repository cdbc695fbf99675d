// Package selector picks the best set of non-conflicting occurrences among
// accepted candidates.
//
// Two candidates conflict when they claim the same hit and the gene of
// that hit is not multi_system in both models. Finding the best set is a
// maximum-weight independent set problem, so the selector uses a greedy
// pass followed by bounded local exchanges. For the same input it always
// returns the same output.
package selector

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/gnames/gnmsf/pkg/candidate"
	"github.com/gnames/gnmsf/pkg/ent/diag"
	"github.com/gnames/gnmsf/pkg/ent/hit"
	"github.com/gnames/gnmsf/pkg/quorum"
)

// DefaultMaxRounds is the default cap on local exchange rounds.
const DefaultMaxRounds = 64

const epsilon = 1e-9

// Option configures a Selector.
type Option func(*Selector)

// OptMaxRounds sets the cap on local exchange rounds. Zero disables the
// local exchange.
func OptMaxRounds(n int) Option {
	return func(s *Selector) {
		s.maxRounds = max(n, 0)
	}
}

// Selector resolves conflicts between accepted candidates.
type Selector struct {
	eval      quorum.Evaluator
	maxRounds int
}

// New creates a Selector that rechecks winners with the given evaluator.
func New(eval quorum.Evaluator, opts ...Option) *Selector {
	res := &Selector{eval: eval, maxRounds: DefaultMaxRounds}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// Result is the outcome of a selection.
type Result struct {
	// Selected candidates in rank order.
	Selected []*candidate.Candidate
	// Discarded candidates in rank order.
	Discarded   []*candidate.Candidate
	Diagnostics []diag.Diagnostic
	// Rounds is the number of local exchange rounds performed.
	Rounds int
	// Swaps is the number of improving exchanges applied.
	Swaps int
}

// Compare ranks candidates: better verdict first, then model id, replicon,
// first position, fewer hits and enumeration rank.
func Compare(a, b *candidate.Candidate) int {
	return cmp.Or(
		quorum.Compare(a.Verdict, b.Verdict),
		cmp.Compare(a.Model.ID, b.Model.ID),
		cmp.Compare(a.RepliconID, b.RepliconID),
		cmp.Compare(a.FirstPosition(), b.FirstPosition()),
		cmp.Compare(len(a.Hits()), len(b.Hits())),
		cmp.Compare(a.Seq, b.Seq),
	)
}

// state is the working data of one selection. Candidates are referred to by
// their rank.
type state struct {
	cands     []*candidate.Candidate
	conflicts [][]int
	in        []bool
	// acc counts the accepted candidates conflicting with each candidate.
	acc []int
	// mark and stamp flag the neighbours of picked candidates in improve.
	mark  []int
	stamp int
}

func (st *state) set(i int, in bool) {
	if st.in[i] == in {
		return
	}
	st.in[i] = in
	d := 1
	if !in {
		d = -1
	}
	for _, j := range st.conflicts[i] {
		st.acc[j] += d
	}
}

// Select moves every accepted candidate to Selected or Discarded. Only
// candidates in the Accepted state are allowed.
func (s *Selector) Select(cands []*candidate.Candidate) (*Result, error) {
	for _, c := range cands {
		if c.State() != candidate.Accepted {
			return nil, candidate.StateError(c, candidate.Selected)
		}
	}
	st := &state{cands: slices.Clone(cands)}
	slices.SortStableFunc(st.cands, Compare)
	st.conflicts = conflicts(st.cands)
	st.in = make([]bool, len(st.cands))
	st.acc = make([]int, len(st.cands))
	st.mark = make([]int, len(st.cands))

	for i := range st.cands {
		if st.acc[i] == 0 {
			st.set(i, true)
		}
	}

	res := &Result{}
	for res.Rounds < s.maxRounds {
		res.Rounds++
		if !st.improve() {
			break
		}
		res.Swaps++
	}
	slog.Debug("Conflicts resolved", "candidates", len(st.cands),
		"rounds", res.Rounds, "swaps", res.Swaps)

	for i, c := range st.cands {
		if !st.in[i] {
			continue
		}
		// the verdict is recomputed from the final claimed hits
		v := s.eval.Evaluate(c.Model, c.Hits())
		if !v.Accepted {
			st.in[i] = false
			if err := c.Discard(); err != nil {
				return nil, err
			}
			res.Discarded = append(res.Discarded, c)
			res.Diagnostics = append(res.Diagnostics,
				c.Diagnostic(diag.FailedRecheck, v.Details))
			continue
		}
		c.Verdict = v
		if err := c.Select(); err != nil {
			return nil, err
		}
		res.Selected = append(res.Selected, c)
	}

	for i, c := range st.cands {
		if st.in[i] || c.State() != candidate.Accepted {
			continue
		}
		if err := c.Discard(); err != nil {
			return nil, err
		}
		res.Discarded = append(res.Discarded, c)
		res.Diagnostics = append(res.Diagnostics,
			c.Diagnostic(diag.LostToConflict, st.lossDetails(i)))
	}
	diag.Sort(res.Diagnostics)
	return res, nil
}

// conflicts builds the adjacency lists of the conflict graph from the
// claims on each hit.
func conflicts(cands []*candidate.Candidate) [][]int {
	type claim struct {
		idx   int
		multi bool
	}
	claims := make(map[hit.Key][]claim)
	for i, c := range cands {
		for _, h := range c.Hits() {
			k := h.Key()
			claims[k] = append(claims[k], claim{
				idx:   i,
				multi: c.Model.IsMultiSystem(h.GeneName),
			})
		}
	}

	res := make([][]int, len(cands))
	// seen[j] == i+1 when j is already a neighbour of i
	seen := make([]int, len(cands))
	for i, c := range cands {
		for _, h := range c.Hits() {
			multi := c.Model.IsMultiSystem(h.GeneName)
			for _, cl := range claims[h.Key()] {
				j := cl.idx
				if j == i || seen[j] == i+1 || (multi && cl.multi) {
					continue
				}
				seen[j] = i + 1
				res[i] = append(res[i], j)
			}
		}
		slices.Sort(res[i])
	}
	return res
}

// improve applies the first improving exchange found, going from the
// lowest ranked accepted candidate up. An exchange replaces an accepted
// candidate a by rejected candidates that conflict with a alone and not
// with each other, when their summed score is strictly higher.
func (st *state) improve() bool {
	for a := len(st.cands) - 1; a >= 0; a-- {
		if !st.in[a] {
			continue
		}
		st.stamp++
		var picked []int
		var sum float64
		for _, r := range st.conflicts[a] {
			// a is the only accepted conflict of r
			if st.in[r] || st.acc[r] != 1 || st.mark[r] == st.stamp {
				continue
			}
			picked = append(picked, r)
			sum += st.cands[r].Verdict.Score
			for _, j := range st.conflicts[r] {
				st.mark[j] = st.stamp
			}
		}
		if len(picked) == 0 || sum <= st.cands[a].Verdict.Score+epsilon {
			continue
		}
		slog.Debug("Exchange improves selection",
			"out", st.cands[a].ID(), "in", len(picked),
			"gain", sum-st.cands[a].Verdict.Score)
		st.set(a, false)
		for _, p := range picked {
			st.set(p, true)
		}
		return true
	}
	return false
}

func (st *state) lossDetails(i int) string {
	var winners []string
	for _, j := range st.conflicts[i] {
		if st.in[j] {
			winners = append(winners, st.cands[j].ID())
		}
	}
	return fmt.Sprintf("score %.3f, conflicts with %s",
		st.cands[i].Verdict.Score, strings.Join(winners, ", "))
}
