package selector_test

import (
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gnmsf/pkg/candidate"
	"github.com/gnames/gnmsf/pkg/cluster"
	"github.com/gnames/gnmsf/pkg/ent/diag"
	"github.com/gnames/gnmsf/pkg/ent/hit"
	"github.com/gnames/gnmsf/pkg/ent/model"
	"github.com/gnames/gnmsf/pkg/errcode"
	"github.com/gnames/gnmsf/pkg/quorum"
	"github.com/gnames/gnmsf/pkg/selector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var eval = quorum.New(quorum.DefaultWeights())

func h(gene string, pos int, score float64) hit.Hit {
	return hit.Hit{
		ID:         "prot" + string(rune('A'+pos)),
		GeneName:   gene,
		RepliconID: "R1",
		Position:   pos,
		Score:      score,
	}
}

func twoGeneModel(t *testing.T, id, g1, g2 string, multi bool) *model.Model {
	m, err := model.New(model.Model{
		ID:                id,
		MinMandatory:      1,
		MinTotal:          1,
		InterGeneMaxSpace: 10,
		Genes: []model.Gene{
			{Name: g1, Role: model.Mandatory, MultiSystem: multi},
			{Name: g2, Role: model.Mandatory},
		},
	})
	require.NoError(t, err)
	return m
}

func accepted(t *testing.T, m *model.Model, seq int, hs ...hit.Hit) *candidate.Candidate {
	c := candidate.New(m, "R1", seq, []cluster.Cluster{{Hits: hs}}, nil)
	require.NoError(t, c.Evaluate(eval))
	require.Equal(t, candidate.Accepted, c.State())
	return c
}

func ids(cs []*candidate.Candidate) []string {
	res := make([]string, len(cs))
	for i, c := range cs {
		res[i] = c.ID()
	}
	return res
}

func TestSharedGene(t *testing.T) {
	e := h("E", 5, 20)
	tests := []struct {
		msg      string
		multi    bool
		selected []string
		lost     []string
	}{
		{"multi system", true, []string{"test/M1@R1#0", "test/M2@R1#0"}, nil},
		{"exclusive", false, []string{"test/M1@R1#0"}, []string{"test/M2@R1#0"}},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			m1 := twoGeneModel(t, "test/M1", "E", "X", tt.multi)
			m2 := twoGeneModel(t, "test/M2", "E", "Y", tt.multi)
			c1 := accepted(t, m1, 0, e, h("X", 6, 10))
			c2 := accepted(t, m2, 0, e, h("Y", 7, 5))

			res, err := selector.New(eval).Select([]*candidate.Candidate{c2, c1})
			require.NoError(t, err)
			assert.Equal(t, tt.selected, ids(res.Selected))
			assert.Equal(t, tt.lost, nilIfEmpty(ids(res.Discarded)))
			for _, c := range res.Selected {
				assert.Equal(t, candidate.Selected, c.State())
			}
			if len(tt.lost) > 0 {
				require.Len(t, res.Diagnostics, 1)
				d := res.Diagnostics[0]
				assert.Equal(t, diag.LostToConflict, d.Reason)
				assert.Equal(t, "test/M2", d.ModelID)
				assert.Contains(t, d.Details, "test/M1@R1#0")
			}
		})
	}
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}

func exchangeCandidates(t *testing.T) []*candidate.Candidate {
	ma := twoGeneModel(t, "test/Ma", "A", "B", false)
	mb := twoGeneModel(t, "test/Mb", "A", "E", false)
	mc := twoGeneModel(t, "test/Mc", "B", "F", false)
	a1, b2 := h("A", 1, 5), h("B", 2, 5)
	return []*candidate.Candidate{
		accepted(t, ma, 0, a1, b2),
		accepted(t, mb, 0, a1, h("E", 9, 4)),
		accepted(t, mc, 0, b2, h("F", 10, 4)),
	}
}

func TestLocalExchange(t *testing.T) {
	res, err := selector.New(eval).Select(exchangeCandidates(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"test/Mb@R1#0", "test/Mc@R1#0"}, ids(res.Selected))
	assert.Equal(t, []string{"test/Ma@R1#0"}, ids(res.Discarded))
	assert.Equal(t, 1, res.Swaps)
	assert.Equal(t, 2, res.Rounds)

	res, err = selector.New(eval, selector.OptMaxRounds(0)).
		Select(exchangeCandidates(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"test/Ma@R1#0"}, ids(res.Selected))
	assert.Len(t, res.Diagnostics, 2)
}

func TestWideExchange(t *testing.T) {
	hub := twoGeneModel(t, "test/Hub", "G", "H", false)
	small := twoGeneModel(t, "test/S", "G", "X", false)

	n := 50
	// the hub ranks first and blocks every small candidate
	hubHits := []hit.Hit{h("H", 0, 6)}
	var cs []*candidate.Candidate
	for i := 1; i <= n; i++ {
		g := h("G", i, 5)
		hubHits = append(hubHits, g)
		cs = append(cs, accepted(t, small, i, g, h("X", 100+i, 5)))
	}
	cs = append(cs, accepted(t, hub, 0, hubHits...))

	res, err := selector.New(eval).Select(cs)
	require.NoError(t, err)
	assert.Len(t, res.Selected, n)
	assert.Equal(t, []string{"test/Hub@R1#0"}, ids(res.Discarded))
	assert.Equal(t, 1, res.Swaps)
	for _, c := range res.Selected {
		assert.Equal(t, "test/S", c.Model.ID)
	}
}

func TestSelectDeterministic(t *testing.T) {
	want, err := selector.New(eval).Select(exchangeCandidates(t))
	require.NoError(t, err)

	cs := exchangeCandidates(t)
	reversed := []*candidate.Candidate{cs[2], cs[1], cs[0]}
	got, err := selector.New(eval).Select(reversed)
	require.NoError(t, err)
	assert.Equal(t, ids(want.Selected), ids(got.Selected))
	assert.Equal(t, want.Diagnostics, got.Diagnostics)
}

func TestConflictFree(t *testing.T) {
	res, err := selector.New(eval).Select(exchangeCandidates(t))
	require.NoError(t, err)
	claimed := make(map[hit.Key]string)
	for _, c := range res.Selected {
		for _, h := range c.Hits() {
			prev, ok := claimed[h.Key()]
			assert.False(t, ok, "%s claimed by %s and %s", h.Key(), prev, c.ID())
			claimed[h.Key()] = c.ID()
		}
	}
}

func TestSelectRequiresAccepted(t *testing.T) {
	m := twoGeneModel(t, "test/M1", "E", "X", false)
	c := candidate.New(m, "R1", 0, []cluster.Cluster{{Hits: []hit.Hit{
		h("E", 1, 1)}}}, nil)
	_, err := selector.New(eval).Select([]*candidate.Candidate{c})
	require.Error(t, err)
	assert.Equal(t, errcode.CandidateStateError, err.(*gn.Error).Code)
}
