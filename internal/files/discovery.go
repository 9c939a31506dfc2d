package files

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	apperrors "solarstock/internal/errors"
)

// snapshotDirPrefix marks data version directories of the register export, e.g. dataversion-2024-01-31
const snapshotDirPrefix = "dataversion-"

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
	// Version is the data version taken from a dataversion-* parent directory, if any
	Version string
}

// Discovery locates register extracts on disk
type Discovery struct {
	logger *slog.Logger
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(logger *slog.Logger) *Discovery {
	if logger == nil {
		logger = slog.Default()
	}
	return &Discovery{logger: logger.With("component", "discovery")}
}

// FindSnapshots returns the regular files matching pattern in ascending
// lexicographic path order
func (d *Discovery) FindSnapshots(pattern string) ([]FileInfo, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, apperrors.NewAppValidationError(fmt.Sprintf("invalid snapshot pattern %q: %v", pattern, err))
	}
	sort.Strings(matches)

	var files []FileInfo
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil || info.IsDir() {
			continue
		}
		files = append(files, FileInfo{
			Path:    match,
			Name:    info.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
			Version: snapshotVersion(match),
		})
	}
	return files, nil
}

// LatestSnapshot returns the lexicographically last file matching pattern.
// With date-named version directories this is the newest export.
func (d *Discovery) LatestSnapshot(pattern string) (FileInfo, error) {
	files, err := d.FindSnapshots(pattern)
	if err != nil {
		return FileInfo{}, err
	}
	latest, ok := GetLatestFile(files)
	if !ok {
		return FileInfo{}, apperrors.NewNotFoundError("snapshot matching " + pattern)
	}

	d.logger.Info("Selected register snapshot",
		slog.String("path", latest.Path),
		slog.String("version", latest.Version),
		slog.Int("candidates", len(files)))

	return latest, nil
}

// ResolveInput returns explicit when set, otherwise the latest snapshot matching pattern
func (d *Discovery) ResolveInput(explicit, pattern string) (string, error) {
	if explicit != "" {
		info, err := os.Stat(explicit)
		if err != nil {
			return "", apperrors.NewNotFoundError("input file " + explicit)
		}
		if info.IsDir() {
			return "", apperrors.NewAppValidationError(fmt.Sprintf("input %s is a directory", explicit))
		}
		return explicit, nil
	}

	latest, err := d.LatestSnapshot(pattern)
	if err != nil {
		return "", err
	}
	return latest.Path, nil
}

// GetLatestFile returns the last file of a lexicographically sorted list
func GetLatestFile(files []FileInfo) (FileInfo, bool) {
	if len(files) == 0 {
		return FileInfo{}, false
	}
	return files[len(files)-1], true
}

// snapshotVersion extracts the version suffix of the nearest dataversion-* ancestor
func snapshotVersion(path string) string {
	dir := filepath.Dir(path)
	for {
		if base := filepath.Base(dir); strings.HasPrefix(base, snapshotDirPrefix) {
			return strings.TrimPrefix(base, snapshotDirPrefix)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
