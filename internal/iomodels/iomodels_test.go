package iomodels_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gnmsf/internal/iomodels"
	"github.com/gnames/gnmsf/pkg/ent/diag"
	"github.com/gnames/gnmsf/pkg/ent/model"
	"github.com/gnames/gnmsf/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDir(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}

	defs, err := iomodels.New("testdata").Load()
	require.NoError(t, err)
	require.Len(t, defs, 2)

	t2ss := defs[0]
	assert.Equal(t, "TXSS/T2SS", t2ss.ID, "id comes from the file path")
	assert.Equal(t, 5, t2ss.InterGeneMaxSpace)
	assert.Equal(t, 2, t2ss.MinMandatory)
	assert.Equal(t, 3, t2ss.MinTotal)
	require.Len(t, t2ss.Genes, 6)

	ex := t2ss.Genes[1]
	assert.Equal(t, "gspD_2", ex.Name)
	assert.Equal(t, model.Mandatory, ex.Role)
	assert.Equal(t, "gspD", ex.GroupID())

	gspE := t2ss.Genes[2]
	require.NotNil(t, gspE.InterGeneMaxSpace)
	assert.Equal(t, 2, *gspE.InterGeneMaxSpace)

	gspO := t2ss.Genes[4]
	assert.True(t, gspO.Loner)
	assert.True(t, gspO.MultiSystem)
	assert.Equal(t, model.Forbidden, t2ss.Genes[5].Role)

	t4p := defs[1]
	assert.Equal(t, "TXSS/T4P", t4p.ID)
	assert.True(t, t4p.MultiLocus)
	assert.Equal(t, 3, t4p.MaxLoci)
	assert.Equal(t, 1, t4p.MinMandatory, "defaults to mandatory groups")
	assert.Equal(t, 1, t4p.MinTotal)

	cat, ds := model.NewCatalog(defs)
	assert.Empty(t, ds)
	assert.Equal(t, 2, cat.Len())
	m, ok := cat.Model("TXSS/T2SS")
	require.True(t, ok)
	assert.True(t, m.IsExchangeable("gspD_2"))
}

func TestLoadFile(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}

	tests := []struct {
		msg     string
		content string
		models  int
		diags   []diag.Reason
	}{
		{
			msg: "two models",
			content: `
models:
  - id: A/one
    genes:
      - {name: a1, presence: mandatory}
  - id: A/two
    genes:
      - {name: a1, presence: mandatory}
      - {name: a2, presence: allowed}
`,
			models: 2,
		},
		{
			msg: "bad presence",
			content: `
models:
  - id: B/bad
    genes:
      - {name: b1, presence: sometimes}
`,
			models: 0,
			diags:  []diag.Reason{diag.InvalidModel},
		},
		{
			msg: "exchangeable changes role",
			content: `
models:
  - id: C/mixed
    genes:
      - name: c1
        presence: mandatory
        exchangeables:
          - {name: c2, presence: accessory}
`,
			models: 0,
			diags:  []diag.Reason{diag.InconsistentModel},
		},
		{
			msg:     "empty file",
			content: "",
			models:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "models.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			defs, err := iomodels.New(path).Load()
			require.NoError(t, err)
			cat, ds := model.NewCatalog(defs)
			assert.Equal(t, tt.models, cat.Len())
			var reasons []diag.Reason
			for _, d := range ds {
				reasons = append(reasons, d.Reason)
			}
			assert.Equal(t, tt.diags, reasons)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad,
		[]byte("models:\n  - id: X\n    colour: red\n"), 0644))
	empty := filepath.Join(dir, "empty")
	require.NoError(t, os.Mkdir(empty, 0755))

	tests := []struct {
		msg  string
		path string
	}{
		{"missing path", filepath.Join(dir, "nope")},
		{"unknown field", bad},
		{"no yaml files", empty},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			_, err := iomodels.New(tt.path).Load()
			require.Error(t, err)
			assert.Equal(t, errcode.ModelDefinitionReadError,
				err.(*gn.Error).Code)
		})
	}
}
