package cmd

import (
	"testing"

	"github.com/gnames/gnmsf/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSearchCmd_Flags(t *testing.T) {
	cmd := getSearchCmd()
	require.NotNil(t, cmd)
	assert.Equal(t, "search", cmd.Use)
	assert.NotNil(t, cmd.RunE)
	assert.Contains(t, cmd.Long, "hit_id replicon position")

	tests := []struct {
		name, short string
	}{
		{"hits", "i"},
		{"topology", "t"},
		{"models", "m"},
		{"model-ids", "M"},
		{"output", "o"},
		{"format", "f"},
		{"store", "s"},
		{"metrics-file", ""},
		{"jobs", "j"},
		{"min-profile-coverage", "c"},
		{"max-candidates", ""},
		{"default-topology", ""},
		{"quiet", "q"},
	}
	for _, tt := range tests {
		flag := cmd.Flags().Lookup(tt.name)
		require.NotNil(t, flag, tt.name)
		assert.Equal(t, tt.short, flag.Shorthand, tt.name)
	}
}

func TestSearchOptions(t *testing.T) {
	cmd := getSearchCmd()
	require.NoError(t, cmd.ParseFlags([]string{
		"-i", "hits.tsv",
		"-M", "TXSS,CAS",
		"-s", "sqlite",
		"-j", "3",
		"-c", "0.3",
		"--default-topology", "circular",
	}))

	var flags searchFlags
	flags.hitsPath, _ = cmd.Flags().GetString("hits")
	flags.modelIDs, _ = cmd.Flags().GetStringSlice("model-ids")
	flags.store, _ = cmd.Flags().GetString("store")
	flags.jobs, _ = cmd.Flags().GetInt("jobs")
	flags.minProfileCoverage, _ = cmd.Flags().GetFloat64("min-profile-coverage")
	flags.defaultTopology, _ = cmd.Flags().GetString("default-topology")

	opts := searchOptions(cmd, flags)
	assert.Len(t, opts, 6, "only changed flags become options")

	c := config.New()
	c.Update(opts)
	assert.Equal(t, "hits.tsv", c.Input.HitsPath)
	assert.Equal(t, []string{"TXSS", "CAS"}, c.Input.ModelIDs)
	assert.Equal(t, "sqlite", c.Output.Store)
	assert.Equal(t, 3, c.JobsNumber)
	assert.Equal(t, 0.3, c.Search.MinProfileCoverage)
	assert.Equal(t, "circular", c.Search.DefaultTopology)
	assert.Equal(t, "all", c.Output.Format, "unchanged flags keep config")
}
