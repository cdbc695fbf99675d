package iologger_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gnmsf/internal/iologger"
	"github.com/gnames/gnmsf/pkg/config"
	"github.com/gnames/gnmsf/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitFile(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}
	defer slog.SetDefault(slog.Default())

	dir := t.TempDir()
	cfg := config.LogConfig{Format: "json", Level: "debug", Destination: "file"}

	closer, err := iologger.Init(dir, cfg, false)
	require.NoError(t, err)
	slog.Debug("first message")
	require.NoError(t, closer.Close())

	closer, err = iologger.Init(dir, cfg, true)
	require.NoError(t, err)
	slog.Info("second message")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(filepath.Join(dir, iologger.LogFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), "first message")
	assert.Contains(t, string(data), "second message")
	assert.Contains(t, string(data), `"level":"DEBUG"`)
}

func TestInitBadDir(t *testing.T) {
	cfg := config.LogConfig{Destination: "file"}
	closer, err := iologger.Init(filepath.Join(t.TempDir(), "missing"), cfg, false)
	require.Error(t, err)
	require.NotNil(t, closer)
	assert.Equal(t, errcode.CreateLogFileError, err.(*gn.Error).Code)
}

func TestInitStderr(t *testing.T) {
	defer slog.SetDefault(slog.Default())
	closer, err := iologger.Init("", config.LogConfig{
		Format: "text", Level: "warn", Destination: "stderr",
	}, false)
	require.NoError(t, err)
	assert.NoError(t, closer.Close())
	assert.False(t, slog.Default().Enabled(t.Context(), slog.LevelInfo))
}
