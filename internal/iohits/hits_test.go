package iohits_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gnmsf/internal/iohits"
	"github.com/gnames/gnmsf/pkg/cluster"
	"github.com/gnames/gnmsf/pkg/ent/diag"
	"github.com/gnames/gnmsf/pkg/ent/hit"
	"github.com/gnames/gnmsf/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const table = `# normalized hits
hit_id	replicon	position	strand	gene	score	coverage	profile_coverage	i_evalue
p1	R1	10	+	gspD	120.5	0.9	0.8	1e-30
p2	R1	11	-	gspE	80	0.7	0.6	2.5e-12
p3	R1	x	+	gspC	50	0.5	0.5	1e-5
p4	R1	14	?!	gspC	50	0.5	0.5	1e-5

p5	R2	3	.	gspD	99	1	1
`

func TestParseHits(t *testing.T) {
	hits, ds, err := iohits.ParseHits(strings.NewReader(table), "hits.tsv")
	require.NoError(t, err)
	require.Len(t, hits, 3)

	assert.Equal(t, hit.Hit{
		ID: "p1", RepliconID: "R1", Position: 10, Strand: hit.Forward,
		GeneName: "gspD", Score: 120.5, Coverage: 0.9, ProfileCoverage: 0.8,
		IEvalue: 1e-30,
	}, hits[0])
	assert.Equal(t, hit.Reverse, hits[1].Strand)
	assert.Equal(t, "p5", hits[2].ID)
	assert.Equal(t, hit.UnknownStrand, hits[2].Strand)
	assert.Zero(t, hits[2].IEvalue)

	require.Len(t, ds, 2)
	for _, d := range ds {
		assert.Equal(t, diag.Validation, d.Kind)
		assert.Equal(t, diag.InvalidHit, d.Reason)
		assert.Equal(t, errcode.HitTableReadError, d.Code)
		assert.Equal(t, "R1", d.RepliconID)
	}
	assert.Equal(t, "hits.tsv:5", ds[0].Subject)
	assert.Contains(t, ds[0].Details, "position")
	assert.Equal(t, "hits.tsv:6", ds[1].Subject)
	assert.Contains(t, ds[1].Details, "strand")
}

func TestParseHitsColumnOrder(t *testing.T) {
	in := "gene\tscore\tcoverage\tprofile_coverage\thit_id\treplicon\tposition\tstrand\n" +
		"gspD\t10\t0.5\t0.5\tp1\tR1\t1\t+\n"
	hits, ds, err := iohits.ParseHits(strings.NewReader(in), "x")
	require.NoError(t, err)
	assert.Empty(t, ds)
	require.Len(t, hits, 1)
	assert.Equal(t, "gspD", hits[0].GeneName)
	assert.Equal(t, 1, hits[0].Position)
}

func TestParseHitsErrors(t *testing.T) {
	tests := []struct {
		msg string
		in  string
	}{
		{"empty", ""},
		{"only comments", "# nothing\n"},
		{"missing columns", "hit_id\treplicon\tposition\n"},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			_, _, err := iohits.ParseHits(strings.NewReader(tt.in), "x")
			require.Error(t, err)
			assert.Equal(t, errcode.HitTableReadError, err.(*gn.Error).Code)
		})
	}
}

func TestReadHitsFile(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}

	path := filepath.Join(t.TempDir(), "hits.tsv")
	require.NoError(t, os.WriteFile(path, []byte(table), 0644))
	hits, ds, err := iohits.ReadHits(path)
	require.NoError(t, err)
	assert.Len(t, hits, 3)
	assert.Len(t, ds, 2)

	_, _, err = iohits.ReadHits(filepath.Join(t.TempDir(), "none.tsv"))
	require.Error(t, err)
	assert.Equal(t, errcode.HitTableReadError, err.(*gn.Error).Code)
}

func TestParseTopology(t *testing.T) {
	in := "# replicons\nR1\tcircular\t1\t4500\nR2\tlinear\nR3\tCircular\n"
	topo, err := iohits.ParseTopology(strings.NewReader(in), "topo.tsv")
	require.NoError(t, err)
	assert.Equal(t, map[string]cluster.Topology{
		"R1": {Circular: true, Min: 1, Max: 4500},
		"R2": {},
		"R3": {Circular: true},
	}, topo)
	assert.True(t, topo["R1"].HasBounds())
	assert.False(t, topo["R3"].HasBounds())
}

func TestParseTopologyErrors(t *testing.T) {
	tests := []struct {
		msg string
		in  string
	}{
		{"bad kind", "R1\tround\n"},
		{"three fields", "R1\tcircular\t1\n"},
		{"bad min", "R1\tcircular\tx\t10\n"},
		{"bad bounds", "R1\tcircular\t10\t1\n"},
		{"duplicate", "R1\tlinear\nR1\tcircular\n"},
		{"empty id", "\tlinear\n"},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			_, err := iohits.ParseTopology(strings.NewReader(tt.in), "t")
			require.Error(t, err)
			assert.Equal(t, errcode.TopologyReadError, err.(*gn.Error).Code)
		})
	}
}
