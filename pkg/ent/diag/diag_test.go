package diag_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gnmsf/pkg/ent/diag"
	"github.com/gnames/gnmsf/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromError(t *testing.T) {
	d := diag.FromError(diag.Validation, diag.InvalidHit, nil)
	assert.Equal(t, errcode.UnknownError, d.Code)
	assert.Empty(t, d.Details)

	d = diag.FromError(diag.Validation, diag.InvalidHit, errors.New("bad row"))
	assert.Equal(t, errcode.UnknownError, d.Code)
	assert.Equal(t, "bad row", d.Details)

	gnErr := &gn.Error{
		Code: errcode.HitValidationError,
		Msg:  "Hit <em>%s</em> skipped",
		Vars: []any{"h1"},
		Err:  errors.New("invalid hit h1"),
	}
	d = diag.FromError(diag.Validation, diag.InvalidHit, gnErr)
	assert.Equal(t, errcode.HitValidationError, d.Code)
	assert.Equal(t, "invalid hit h1", d.Details)
}

func TestSort(t *testing.T) {
	ds := []diag.Diagnostic{
		{Kind: diag.Rejection, RepliconID: "R1", ModelID: "A", Subject: "c2"},
		{Kind: diag.Validation, RepliconID: "R2", Subject: "h1"},
		{Kind: diag.Rejection, RepliconID: "R1", ModelID: "A", Subject: "c1"},
		{Kind: diag.Validation, RepliconID: "R1", Subject: "h9"},
	}
	diag.Sort(ds)

	var got []string
	for _, d := range ds {
		got = append(got, d.Subject)
	}
	assert.Equal(t, []string{"h9", "h1", "c1", "c2"}, got)
}

func TestKindJSON(t *testing.T) {
	assert.Equal(t, "rejected", diag.Rejection.String())
	assert.Equal(t, "unknown", diag.Kind(42).String())

	data, err := json.Marshal(diag.Diagnostic{
		Kind:   diag.ResourceExhaustion,
		Reason: diag.EnumerationTruncated,
	})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"kind":"resource_exhaustion"`)
	assert.Contains(t, string(data), `"reason":"enumeration_truncated"`)
}
