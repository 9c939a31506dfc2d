package exporter

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solarstock/internal/config"
)

func setupTestWriter(t *testing.T) (*CSVWriter, string) {
	t.Helper()
	tempDir := t.TempDir()
	writer := NewCSVWriter(&config.Paths{ReportsDir: filepath.Join(tempDir, "reports")}, nil)
	return writer, tempDir
}

func TestCSVWriter_WriteCSV(t *testing.T) {
	writer, tempDir := setupTestWriter(t)

	tests := []struct {
		name     string
		filePath string
		options  WriteOptions
		validate func(t *testing.T, content []byte)
	}{
		{
			name:     "basic write with headers",
			filePath: "test_basic.csv",
			options: WriteOptions{
				Headers: []string{"year", "additions_count"},
				Records: [][]string{{"2010", "1"}, {"2011", "0"}},
			},
			validate: func(t *testing.T, content []byte) {
				lines := strings.Split(strings.TrimSpace(string(content)), "\n")
				assert.Len(t, lines, 3)
				assert.Equal(t, "year,additions_count", lines[0])
				assert.Equal(t, "2010,1", lines[1])
			},
		},
		{
			name:     "write with BOM prefix",
			filePath: "test_bom.csv",
			options: WriteOptions{
				Headers:   []string{"status"},
				Records:   [][]string{{"Endgültig stillgelegt"}},
				BOMPrefix: true,
			},
			validate: func(t *testing.T, content []byte) {
				assert.True(t, bytes.HasPrefix(content, utf8BOM))
				lines := strings.Split(strings.TrimSpace(string(content[3:])), "\n")
				assert.Equal(t, "status", lines[0])
				assert.Equal(t, "Endgültig stillgelegt", lines[1])
			},
		},
		{
			name:     "quotes fields with separators",
			filePath: "test_quotes.csv",
			options: WriteOptions{
				Records: [][]string{{"a,b", `say "hi"`}},
			},
			validate: func(t *testing.T, content []byte) {
				assert.Equal(t, "\"a,b\",\"say \"\"hi\"\"\"\n", string(content))
			},
		},
		{
			name:     "empty records",
			filePath: "test_empty.csv",
			options: WriteOptions{
				Headers: []string{"Col1", "Col2"},
			},
			validate: func(t *testing.T, content []byte) {
				assert.Equal(t, "Col1,Col2\n", string(content))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fullPath, err := writer.WriteCSV(tt.filePath, tt.options)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(tempDir, "reports", tt.filePath), fullPath)

			content, err := os.ReadFile(fullPath)
			require.NoError(t, err)
			tt.validate(t, content)
		})
	}
}

func TestCSVWriter_TruncateAndAppend(t *testing.T) {
	writer, _ := setupTestWriter(t)

	path, err := writer.WriteSimpleCSV("series.csv", []string{"h"}, [][]string{{"1"}, {"2"}})
	require.NoError(t, err)
	_, err = writer.WriteSimpleCSV("series.csv", []string{"h"}, [][]string{{"3"}})
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "\xEF\xBB\xBFh\n3\n", string(content), "rewrite replaces the file")

	_, err = writer.WriteCSV("series.csv", WriteOptions{Records: [][]string{{"4"}}, Append: true, BOMPrefix: true})
	require.NoError(t, err)

	content, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "\xEF\xBB\xBFh\n3\n4\n", string(content), "append writes no header or BOM")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files left behind")
}

func TestCSVWriter_ResolvePath(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "out.csv")

	withPaths := NewCSVWriter(&config.Paths{ReportsDir: "/reports"}, nil)
	assert.Equal(t, abs, withPaths.resolvePath(abs))
	assert.Equal(t, filepath.Join("/reports", "x.csv"), withPaths.resolvePath("x.csv"))

	withoutPaths := NewCSVWriter(nil, nil)
	assert.Equal(t, "x.csv", withoutPaths.resolvePath("x.csv"))
}

func TestCSVWriter_ErrorScenarios(t *testing.T) {
	tempDir := t.TempDir()
	blocker := filepath.Join(tempDir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	writer := NewCSVWriter(nil, nil)
	_, err := writer.WriteSimpleCSV(filepath.Join(blocker, "nested.csv"), []string{"h"}, nil)
	assert.Error(t, err, "parent is a regular file")
}
