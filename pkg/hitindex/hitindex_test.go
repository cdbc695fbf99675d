package hitindex_test

import (
	"math"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gnmsf/pkg/ent/diag"
	"github.com/gnames/gnmsf/pkg/ent/hit"
	"github.com/gnames/gnmsf/pkg/errcode"
	"github.com/gnames/gnmsf/pkg/hitindex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type genes map[string]bool

func (g genes) KnownGene(name string) bool { return g[name] }

var known = genes{"gspD": true, "gspE": true, "pilQ": true}

func h(rep, id, gene string, pos int, score float64) hit.Hit {
	return hit.Hit{
		ID:              id,
		GeneName:        gene,
		RepliconID:      rep,
		Position:        pos,
		Score:           score,
		Coverage:        0.8,
		ProfileCoverage: 0.9,
	}
}

func TestIngestDominance(t *testing.T) {
	idx := hitindex.New(known)
	base := h("R1", "p1", "gspD", 3, 50)
	require.NoError(t, idx.Ingest(base))

	lower := base
	lower.Score = 10
	require.NoError(t, idx.Ingest(lower))
	assert.Equal(t, 50.0, idx.HitsForReplicon("R1")[0].Score)

	higher := base
	higher.Score = 70
	require.NoError(t, idx.Ingest(higher))
	require.NoError(t, idx.Ingest(higher))
	assert.Equal(t, 1, idx.Len())
	assert.Equal(t, 70.0, idx.HitsForReplicon("R1")[0].Score)

	sameScore := higher
	sameScore.Coverage = 0.95
	require.NoError(t, idx.Ingest(sameScore))
	assert.Equal(t, 0.95, idx.HitsForReplicon("R1")[0].Coverage)

	tie := sameScore
	tie.Strand = hit.Reverse
	require.NoError(t, idx.Ingest(tie))
	assert.Equal(t, hit.UnknownStrand, idx.HitsForReplicon("R1")[0].Strand,
		"earlier hit wins a full tie")

	// same protein, another profile is a separate record
	require.NoError(t, idx.Ingest(h("R1", "p1", "gspE", 3, 5)))
	assert.Equal(t, 2, idx.Len())
}

func TestIngestDropped(t *testing.T) {
	idx := hitindex.New(known, hitindex.OptMinProfileCoverage(0.5))

	bad := h("R1", "p1", "gspD", 3, math.NaN())
	unknown := h("R1", "p2", "tadZ", 4, 10)
	low := h("R1", "p3", "gspE", 5, 10)
	low.ProfileCoverage = 0.2

	tests := []struct {
		msg    string
		hit    hit.Hit
		code   gn.ErrorCode
		reason diag.Reason
	}{
		{"invalid", bad, errcode.HitValidationError, diag.InvalidHit},
		{"unknown", unknown, errcode.HitUnknownGeneError, diag.UnknownGene},
		{"below", low, errcode.HitBelowThresholdError, diag.BelowThreshold},
	}
	for _, tt := range tests {
		err := idx.Ingest(tt.hit)
		require.Error(t, err, tt.msg)
		assert.Equal(t, tt.code, err.(*gn.Error).Code, tt.msg)
	}
	assert.Equal(t, 0, idx.Len())

	ds := idx.Diagnostics()
	require.Len(t, ds, 3)
	reasons := make(map[diag.Reason]diag.Diagnostic)
	for _, d := range ds {
		assert.Equal(t, diag.Validation, d.Kind)
		assert.Equal(t, "R1", d.RepliconID)
		reasons[d.Reason] = d
	}
	for _, tt := range tests {
		d, ok := reasons[tt.reason]
		require.True(t, ok, tt.msg)
		assert.Equal(t, tt.code, d.Code, tt.msg)
		assert.Equal(t, tt.hit.Key().String(), d.Subject)
	}
}

func TestQueries(t *testing.T) {
	idx := hitindex.New(known)
	n := idx.IngestAll([]hit.Hit{
		h("R2", "q9", "pilQ", 9, 10),
		h("R1", "p7", "gspE", 7, 10),
		h("R1", "p2", "gspD", 2, 10),
		h("R2", "q1", "gspD", 1, 10),
		h("R1", "p2", "gspE", 2, 10),
	})
	assert.Equal(t, 5, n)
	assert.Equal(t, []string{"R1", "R2"}, idx.Replicons())

	r1 := idx.HitsForReplicon("R1")
	require.Len(t, r1, 3)
	assert.Equal(t, "gspD", r1[0].GeneName)
	assert.Equal(t, "gspE", r1[1].GeneName)
	assert.Equal(t, 7, r1[2].Position)

	gspD := idx.HitsForGene("gspD")
	require.Len(t, gspD, 2)
	assert.Equal(t, "R1", gspD[0].RepliconID)
	assert.Equal(t, "R2", gspD[1].RepliconID)

	assert.Empty(t, idx.HitsForReplicon("R3"))
	assert.Len(t, idx.All(), 5)
}
