package exporter

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"solarstock/internal/config"
	"solarstock/pkg/contracts/domain"
)

// SeriesExporter writes the yearly capacity series as CSV
type SeriesExporter struct {
	csvWriter *CSVWriter
	precision int32
	logger    *slog.Logger
}

// NewSeriesExporter creates an exporter formatting capacities with precision decimals
func NewSeriesExporter(paths *config.Paths, precision int32, logger *slog.Logger) *SeriesExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SeriesExporter{
		csvWriter: NewCSVWriter(paths, logger),
		precision: precision,
		logger:    logger.With("component", "series_exporter"),
	}
}

// ExportOptions selects the files written for a series
type ExportOptions struct {
	// FullPath is the file for the complete history
	FullPath string
	// CutoffPath is the file for the years from Cutoff on; empty skips it
	CutoffPath string
	Cutoff     int
}

// Headers returns the output columns
func (e *SeriesExporter) Headers() []string {
	headers := make([]string, len(domain.YearRowColumns))
	copy(headers, domain.YearRowColumns)
	return headers
}

// RowToCSV converts one year row into CSV fields in column order
func (e *SeriesExporter) RowToCSV(row domain.YearRow) []string {
	return []string{
		formatYear(row.Year),
		formatCapacity(row.AdditionsCapacity, e.precision),
		formatInt(row.AdditionsCount),
		formatCapacity(row.RemovalsCapacity, e.precision),
		formatInt(row.RemovalsCount),
		formatCapacity(row.NetCapacity, e.precision),
		formatInt(row.NetCount),
		formatCapacity(row.CumAdditionsCapacity, e.precision),
		formatCapacity(row.CumRemovalsCapacity, e.precision),
		formatCapacity(row.StockCapacity, e.precision),
		formatInt(row.CumAdditionsCount),
		formatInt(row.CumRemovalsCount),
		formatInt(row.StockCount),
		formatDate(row.DownloadDate),
	}
}

// Records converts rows to CSV records
func (e *SeriesExporter) Records(rows []domain.YearRow) [][]string {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, e.RowToCSV(row))
	}
	return records
}

// WriteTo encodes rows as CSV with BOM and header to out
func (e *SeriesExporter) WriteTo(out io.Writer, rows []domain.YearRow) error {
	return Encode(out, WriteOptions{
		Headers:   e.Headers(),
		Records:   e.Records(rows),
		BOMPrefix: true,
	})
}

// Export writes the full series and, when requested, the cutoff slice.
// It returns the paths written.
func (e *SeriesExporter) Export(ctx context.Context, series *domain.Series, opts ExportOptions) ([]string, error) {
	if series == nil || series.Len() == 0 {
		return nil, fmt.Errorf("refusing to export an empty series")
	}

	var written []string

	full, err := e.csvWriter.WriteSimpleCSV(opts.FullPath, e.Headers(), e.Records(series.Rows))
	if err != nil {
		return written, fmt.Errorf("failed to write yearly series: %w", err)
	}
	written = append(written, full)

	if opts.CutoffPath != "" {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		since := series.Since(opts.Cutoff)
		path, err := e.csvWriter.WriteSimpleCSV(opts.CutoffPath, e.Headers(), e.Records(since))
		if err != nil {
			return written, fmt.Errorf("failed to write series since %d: %w", opts.Cutoff, err)
		}
		written = append(written, path)
	}

	e.logger.InfoContext(ctx, "Exported yearly series",
		slog.Any("files", written),
		slog.Int("years", series.Len()),
		slog.Int("cutoff", opts.Cutoff))

	return written, nil
}
