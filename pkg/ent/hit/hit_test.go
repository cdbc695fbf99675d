package hit_test

import (
	"math"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gnmsf/pkg/ent/hit"
	"github.com/gnames/gnmsf/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validHit() hit.Hit {
	return hit.Hit{
		ID:              "ESCO001_0001",
		GeneName:        "gspD",
		RepliconID:      "ESCO001",
		Position:        10,
		Strand:          hit.Forward,
		Score:           120.5,
		Coverage:        0.9,
		ProfileCoverage: 0.8,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		msg    string
		mutate func(*hit.Hit)
		field  string
	}{
		{"valid", func(*hit.Hit) {}, ""},
		{"empty id", func(h *hit.Hit) { h.ID = " " }, "id"},
		{"empty gene", func(h *hit.Hit) { h.GeneName = "" }, "gene"},
		{"empty replicon", func(h *hit.Hit) { h.RepliconID = "" }, "replicon"},
		{"negative position", func(h *hit.Hit) { h.Position = -1 }, "position"},
		{"nan score", func(h *hit.Hit) { h.Score = math.NaN() }, "score"},
		{"inf score", func(h *hit.Hit) { h.Score = math.Inf(1) }, "score"},
		{"coverage above 1", func(h *hit.Hit) { h.Coverage = 1.2 }, "coverage"},
		{"negative coverage", func(h *hit.Hit) { h.Coverage = -0.1 }, "coverage"},
		{"profile coverage", func(h *hit.Hit) { h.ProfileCoverage = 2 },
			"profile_coverage"},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			h := validHit()
			tt.mutate(&h)
			err := h.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			gnErr, ok := err.(*gn.Error)
			require.True(t, ok, "error should be *gn.Error")
			assert.Equal(t, errcode.HitValidationError, gnErr.Code)
			assert.Contains(t, gnErr.Err.Error(), tt.field)
		})
	}
}

func TestNewStrand(t *testing.T) {
	tests := []struct {
		in   string
		want hit.Strand
		err  bool
	}{
		{"+", hit.Forward, false},
		{"1", hit.Forward, false},
		{"-", hit.Reverse, false},
		{"-1", hit.Reverse, false},
		{".", hit.UnknownStrand, false},
		{"", hit.UnknownStrand, false},
		{"x", hit.UnknownStrand, true},
	}
	for _, tt := range tests {
		s, err := hit.NewStrand(tt.in)
		if tt.err {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, s, tt.in)
	}
	assert.Equal(t, "+", hit.Forward.String())
	assert.Equal(t, "-", hit.Reverse.String())
	assert.Equal(t, ".", hit.UnknownStrand.String())
}

func TestBetter(t *testing.T) {
	a := validHit()
	b := validHit()
	assert.False(t, hit.Better(a, b), "equal hits")

	b.Score = 10
	assert.True(t, hit.Better(a, b))
	assert.False(t, hit.Better(b, a))

	b.Score = a.Score
	b.Coverage = 0.95
	assert.True(t, hit.Better(b, a), "coverage breaks score ties")
}

func TestLessAndKey(t *testing.T) {
	a := validHit()
	b := validHit()
	b.Position = 11
	assert.True(t, hit.Less(a, b))
	assert.False(t, hit.Less(b, a))

	b.Position = a.Position
	b.GeneName = "gspE"
	assert.True(t, hit.Less(a, b))

	assert.Equal(t, "ESCO001:ESCO001_0001:gspD", a.Key().String())
	assert.NotEqual(t, a.Key(), b.Key())
}
