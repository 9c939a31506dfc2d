package dataprocessing

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "solarstock/internal/errors"
	"solarstock/pkg/contracts/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// RawRow maps source column names to the unparsed cell text of one record
type RawRow map[string]string

// Table is a loaded register extract
type Table struct {
	Source  string
	Columns []string
	Rows    []RawRow
}

// Loader reads register extracts from CSV or XLSX files
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a loader; a nil logger uses slog.Default()
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger.With("component", "loader")}
}

// LoadFile reads the extract at path. Files ending in .xlsx are read as
// workbooks, everything else as CSV.
func (l *Loader) LoadFile(ctx context.Context, path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open input file", err).WithContext("path", path)
	}
	defer f.Close()

	var table *Table
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		table, err = ReadWorkbook(f)
	default:
		table, err = ReadCSV(f)
	}
	if err != nil {
		if appErr, ok := err.(*apperrors.AppError); ok {
			return nil, appErr.WithContext("path", path)
		}
		return nil, err
	}
	table.Source = path

	l.logger.InfoContext(ctx, "Loaded register extract",
		slog.String("path", path),
		slog.Int("columns", len(table.Columns)),
		slog.Int("records", len(table.Rows)))

	return table, nil
}

// ReadCSV parses a comma separated extract with a header row.
// A leading UTF-8 byte order mark is skipped.
func ReadCSV(r io.Reader) (*Table, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, apperrors.NewParsingError("input has no header row", nil)
	}
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read header row", err)
	}

	columns := normalizeHeader(header)
	if err := checkColumns(columns); err != nil {
		return nil, err
	}

	table := &Table{Columns: columns}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.NewParsingError("failed to read CSV record", err)
		}
		table.Rows = append(table.Rows, toRawRow(columns, record))
	}

	return table, nil
}

// ReadWorkbook parses the first sheet of an XLSX workbook with a header row.
// Cell values are read raw, so date cells arrive as Excel serial numbers.
func ReadWorkbook(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to open workbook", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewParsingError("workbook has no sheets", nil)
	}

	rows, err := f.Rows(sheets[0])
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to read sheet %q", sheets[0]), err)
	}
	defer rows.Close()

	var table *Table
	for rows.Next() {
		cells, err := rows.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, apperrors.NewParsingError("failed to read workbook row", err)
		}

		if table == nil {
			columns := normalizeHeader(cells)
			if err := checkColumns(columns); err != nil {
				return nil, err
			}
			table = &Table{Columns: columns}
			continue
		}

		if isBlank(cells) {
			continue
		}
		table.Rows = append(table.Rows, toRawRow(table.Columns, cells))
	}
	if err := rows.Error(); err != nil {
		return nil, apperrors.NewParsingError("failed to iterate workbook rows", err)
	}

	if table == nil {
		return nil, apperrors.NewParsingError("input has no header row", nil)
	}
	return table, nil
}

func normalizeHeader(header []string) []string {
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(h)
	}
	return columns
}

// checkColumns fails on the first required column missing from the header
func checkColumns(columns []string) error {
	present := make(map[string]bool, len(columns))
	for _, c := range columns {
		present[c] = true
	}
	for _, required := range domain.RequiredColumns {
		if !present[required] {
			return apperrors.NewParsingError(fmt.Sprintf("missing required column %q", required), nil).
				WithContext("column", required)
		}
	}
	return nil
}

// toRawRow maps cells onto columns; short rows leave the remaining columns empty
func toRawRow(columns, cells []string) RawRow {
	row := make(RawRow, len(columns))
	for i, name := range columns {
		if name == "" {
			continue
		}
		if _, seen := row[name]; seen {
			continue // first occurrence of a duplicated header wins
		}
		if i < len(cells) {
			row[name] = cells[i]
		} else {
			row[name] = ""
		}
	}
	return row
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
