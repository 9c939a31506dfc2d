package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the resolved, absolute application paths
type Paths struct {
	BaseDir    string
	DataDir    string
	ReportsDir string
	LogsDir    string

	// SnapshotPattern is the absolute glob used to discover register extracts
	SnapshotPattern string
}

// ExecutableDir returns the directory containing the running binary
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get executable path: %v", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("failed to resolve executable symlinks: %v", err)
	}

	return filepath.Dir(exe), nil
}

// ResolvePaths turns the configured, possibly relative directories into absolute paths.
// Relative paths are anchored at BaseDir, or at the executable directory when
// BaseDir is empty.
func (c *Config) ResolvePaths() (*Paths, error) {
	base := c.Paths.BaseDir
	if base == "" {
		exeDir, err := ExecutableDir()
		if err != nil {
			return nil, err
		}
		base = exeDir
	}

	base, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory: %w", err)
	}

	dataDir := anchor(base, c.Paths.DataDir)

	return &Paths{
		BaseDir:         base,
		DataDir:         dataDir,
		ReportsDir:      anchor(dataDir, c.Paths.ReportsDir),
		LogsDir:         anchor(base, c.Paths.LogsDir),
		SnapshotPattern: anchor(dataDir, c.Paths.SnapshotGlob),
	}, nil
}

func anchor(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// EnsureDirectories creates the output directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.DataDir, p.ReportsDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}
		slog.Debug("Ensured directory exists", slog.String("directory", dir))
	}
	return nil
}

// GetReportPath returns the path for a report file
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetLogPath returns the path for a log file
func (p *Paths) GetLogPath(filename string) string {
	if filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(p.LogsDir, filename)
}

// YearlyCSVPath returns the full-history series file for an output name
func (p *Paths) YearlyCSVPath(outputName string) string {
	return p.GetReportPath(outputName + ".csv")
}

// YearlySinceCSVPath returns the cutoff slice file for an output name
func (p *Paths) YearlySinceCSVPath(outputName string, cutoff int) string {
	return p.GetReportPath(fmt.Sprintf("%s_%d.csv", outputName, cutoff))
}

// WorkbookPath returns the XLSX workbook file for an output name
func (p *Paths) WorkbookPath(outputName string) string {
	return p.GetReportPath(outputName + ".xlsx")
}

// LogPathResolution logs the resolved paths for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("Path resolution summary",
		slog.Group("directories",
			slog.String("base", p.BaseDir),
			slog.String("data", p.DataDir),
			slog.String("reports", p.ReportsDir),
			slog.String("logs", p.LogsDir),
		),
		slog.String("snapshot_pattern", p.SnapshotPattern))
}
