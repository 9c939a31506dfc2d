// Package exporter writes the yearly capacity series.
//
// CSVWriter: core CSV writing with headers, optional UTF-8 BOM for Excel
// compatibility and replace-on-success file writes.
//
// SeriesExporter: converts domain.YearRow values to CSV rows in the published
// column order and writes the full history plus the cutoff slice.
//
// WorkbookExporter: writes both tables as sheets of one XLSX workbook.
//
// Example usage:
//
//	exp := exporter.NewSeriesExporter(paths, 3, logger)
//	files, err := exp.Export(ctx, series, exporter.ExportOptions{
//	    FullPath:   "solar_berlin_yearly.csv",
//	    CutoffPath: "solar_berlin_yearly_2005.csv",
//	    Cutoff:     2005,
//	})
package exporter
