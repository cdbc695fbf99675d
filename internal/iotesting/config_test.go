package iotesting_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/gnmsf/internal/iotesting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTestConfig(t *testing.T) {
	t.Setenv("GNMSF_DATABASE_HOST", "db.example.org")
	t.Setenv("GNMSF_DATABASE_PORT", "6543")

	cfg := iotesting.GetTestConfig(t)
	assert.Equal(t, iotesting.TestDatabaseName, cfg.Database.Database)
	assert.Equal(t, "db.example.org", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, filepath.Join(cfg.HomeDir, "out"), cfg.Output.Dir)
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := iotesting.WriteFile(t, dir, "a/b.tsv", "x\ty\n")
	assert.Equal(t, filepath.Join(dir, "a", "b.tsv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "x\ty\n", string(data))
}
