package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePaths(t *testing.T) {
	base := t.TempDir()
	cfg := Default()
	cfg.Paths.BaseDir = base

	paths, err := cfg.ResolvePaths()
	require.NoError(t, err)

	assert.Equal(t, base, paths.BaseDir)
	assert.Equal(t, filepath.Join(base, "data"), paths.DataDir)
	assert.Equal(t, filepath.Join(base, "data", "reports"), paths.ReportsDir)
	assert.Equal(t, filepath.Join(base, "logs"), paths.LogsDir)
	assert.Equal(t, filepath.Join(base, "data", DefaultSnapshotGlob), paths.SnapshotPattern)
}

func TestResolvePaths_AbsoluteDirsKept(t *testing.T) {
	base := t.TempDir()
	reports := filepath.Join(t.TempDir(), "out")

	cfg := Default()
	cfg.Paths.BaseDir = base
	cfg.Paths.ReportsDir = reports

	paths, err := cfg.ResolvePaths()
	require.NoError(t, err)
	assert.Equal(t, reports, paths.ReportsDir)
}

func TestResolvePaths_ExecutableDirFallback(t *testing.T) {
	cfg := Default()
	paths, err := cfg.ResolvePaths()
	require.NoError(t, err)

	exeDir, err := ExecutableDir()
	require.NoError(t, err)
	assert.Equal(t, exeDir, paths.BaseDir)
}

func TestPaths_EnsureDirectories(t *testing.T) {
	cfg := Default()
	cfg.Paths.BaseDir = t.TempDir()
	paths, err := cfg.ResolvePaths()
	require.NoError(t, err)

	require.NoError(t, paths.EnsureDirectories())
	for _, dir := range []string{paths.DataDir, paths.ReportsDir, paths.LogsDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestPaths_OutputFiles(t *testing.T) {
	p := &Paths{ReportsDir: "/r", LogsDir: "/l"}

	assert.Equal(t, filepath.Join("/r", "solar_berlin_yearly.csv"), p.YearlyCSVPath("solar_berlin_yearly"))
	assert.Equal(t, filepath.Join("/r", "solar_berlin_yearly_2005.csv"), p.YearlySinceCSVPath("solar_berlin_yearly", 2005))
	assert.Equal(t, filepath.Join("/r", "solar_berlin_yearly.xlsx"), p.WorkbookPath("solar_berlin_yearly"))
	assert.Equal(t, filepath.Join("/l", "run.log"), p.GetLogPath("run.log"))
	assert.Equal(t, "/abs/run.log", p.GetLogPath("/abs/run.log"))
}
