package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "solarstock/internal/errors"
)

func createSnapshot(t *testing.T, root, version string) string {
	t.Helper()
	dir := filepath.Join(root, "dataversion-"+version)
	require.NoError(t, os.MkdirAll(dir, 0755))
	path := filepath.Join(dir, "bnetza_mastr_solar_raw.csv")
	require.NoError(t, os.WriteFile(path, []byte("EinheitBetriebsstatus\n"), 0644))
	return path
}

func TestFindSnapshots(t *testing.T) {
	root := t.TempDir()
	createSnapshot(t, root, "2024-01-31")
	createSnapshot(t, root, "2023-06-01")
	createSnapshot(t, root, "2024-11-02")
	// a directory matching the pattern is ignored
	require.NoError(t, os.MkdirAll(filepath.Join(root, "dataversion-2025-01-01", "bnetza_mastr_solar_raw.csv"), 0755))

	files, err := NewDiscovery(nil).FindSnapshots(filepath.Join(root, "dataversion-*", "bnetza_mastr_solar_raw.csv"))
	require.NoError(t, err)
	require.Len(t, files, 3)

	var versions []string
	for _, f := range files {
		versions = append(versions, f.Version)
		assert.Equal(t, "bnetza_mastr_solar_raw.csv", f.Name)
		assert.Positive(t, f.Size)
	}
	assert.Equal(t, []string{"2023-06-01", "2024-01-31", "2024-11-02"}, versions)
}

func TestLatestSnapshot(t *testing.T) {
	root := t.TempDir()
	createSnapshot(t, root, "2024-01-31")
	want := createSnapshot(t, root, "2024-11-02")

	latest, err := NewDiscovery(nil).LatestSnapshot(filepath.Join(root, "dataversion-*", "*.csv"))
	require.NoError(t, err)
	assert.Equal(t, want, latest.Path)
	assert.Equal(t, "2024-11-02", latest.Version)
}

func TestLatestSnapshot_NoMatch(t *testing.T) {
	_, err := NewDiscovery(nil).LatestSnapshot(filepath.Join(t.TempDir(), "dataversion-*", "*.csv"))
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrTypeNotFound, apperrors.TypeOf(err))
}

func TestFindSnapshots_BadPattern(t *testing.T) {
	_, err := NewDiscovery(nil).FindSnapshots("[")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrTypeValidation, apperrors.TypeOf(err))
}

func TestResolveInput(t *testing.T) {
	root := t.TempDir()
	snapshot := createSnapshot(t, root, "2024-01-31")
	explicit := filepath.Join(root, "solar_berlin_cleaned.csv")
	require.NoError(t, os.WriteFile(explicit, []byte("x"), 0644))
	pattern := filepath.Join(root, "dataversion-*", "*.csv")

	d := NewDiscovery(nil)

	got, err := d.ResolveInput(explicit, pattern)
	require.NoError(t, err)
	assert.Equal(t, explicit, got, "explicit input wins")

	got, err = d.ResolveInput("", pattern)
	require.NoError(t, err)
	assert.Equal(t, snapshot, got)

	_, err = d.ResolveInput(filepath.Join(root, "missing.csv"), pattern)
	assert.Equal(t, apperrors.ErrTypeNotFound, apperrors.TypeOf(err))

	_, err = d.ResolveInput(root, pattern)
	assert.Equal(t, apperrors.ErrTypeValidation, apperrors.TypeOf(err))
}

func TestGetLatestFile(t *testing.T) {
	_, ok := GetLatestFile(nil)
	assert.False(t, ok)

	latest, ok := GetLatestFile([]FileInfo{{Name: "a"}, {Name: "b"}})
	assert.True(t, ok)
	assert.Equal(t, "b", latest.Name)
}
