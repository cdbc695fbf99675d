package iometrics_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gnames/gn"
	"github.com/gnames/gnmsf/internal/iometrics"
	"github.com/gnames/gnmsf/pkg/engine"
	"github.com/gnames/gnmsf/pkg/ent/diag"
	"github.com/gnames/gnmsf/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func observed() *iometrics.Metrics {
	m := iometrics.New()
	res := &engine.Result{
		Occurrences: []engine.Occurrence{
			{ModelID: "TXSS/T2SS"}, {ModelID: "TXSS/T2SS"}, {ModelID: "TXSS/T4P"},
		},
		Diagnostics: []diag.Diagnostic{
			{Kind: diag.Rejection, Reason: diag.QuorumNotMet},
			{Kind: diag.Validation, Reason: diag.InvalidModel},
		},
		Stats: engine.Stats{Replicons: 2, Models: 3, Hits: 40, Accepted: 5,
			Rejected: 1, Selected: 3, Discarded: 2},
	}
	m.Observe(res, 2*time.Second, time.Unix(1700000000, 0))
	return m
}

func TestObserve(t *testing.T) {
	m := observed()
	mfs, err := m.Registry().Gather()
	require.NoError(t, err)

	values := make(map[string]float64)
	for _, mf := range mfs {
		for _, metric := range mf.GetMetric() {
			key := mf.GetName()
			for _, l := range metric.GetLabel() {
				key += "|" + l.GetValue()
			}
			switch {
			case metric.GetGauge() != nil:
				values[key] = metric.GetGauge().GetValue()
			case metric.GetCounter() != nil:
				values[key] = metric.GetCounter().GetValue()
			}
		}
	}

	assert.Equal(t, 2.0, values["gnmsf_run_duration_seconds"])
	assert.Equal(t, 1700000000.0, values["gnmsf_run_timestamp_seconds"])
	assert.Equal(t, 40.0, values["gnmsf_hits"])
	assert.Equal(t, 2.0, values["gnmsf_occurrences_total|TXSS/T2SS"])
	assert.Equal(t, 1.0, values["gnmsf_occurrences_total|TXSS/T4P"])
	assert.Equal(t, 5.0, values["gnmsf_candidates_total|accepted"])
	assert.Equal(t, 1.0, values["gnmsf_diagnostics_total|rejected|quorum_not_met"])
	assert.Equal(t, 1.0,
		values["gnmsf_diagnostics_total|validation_error|invalid_model"])
}

func TestWriteFile(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}

	m := observed()
	path := filepath.Join(t.TempDir(), "gnmsf.prom")
	require.NoError(t, m.WriteFile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# TYPE gnmsf_hits gauge")
	assert.Contains(t, string(data), `gnmsf_occurrences_total{model="TXSS/T2SS"} 2`)

	err = m.WriteFile(filepath.Join(t.TempDir(), "no", "such", "dir.prom"))
	require.Error(t, err)
	assert.Equal(t, errcode.MetricsWriteError, err.(*gn.Error).Code)
}
