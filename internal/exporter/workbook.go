package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"solarstock/pkg/contracts/domain"
)

// FullSheetName is the workbook sheet holding the complete history
const FullSheetName = "yearly"

// CutoffSheetName returns the sheet name of the slice starting at cutoff
func CutoffSheetName(cutoff int) string {
	return fmt.Sprintf("yearly_since_%d", cutoff)
}

// WorkbookExporter writes the series into an XLSX workbook
type WorkbookExporter struct {
	precision int32
	logger    *slog.Logger
}

// NewWorkbookExporter creates a workbook exporter
func NewWorkbookExporter(precision int32, logger *slog.Logger) *WorkbookExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookExporter{precision: precision, logger: logger.With("component", "workbook_exporter")}
}

// Export writes a workbook with the full series sheet and the cutoff sheet to path
func (e *WorkbookExporter) Export(ctx context.Context, path string, series *domain.Series, cutoff int) error {
	if series == nil || series.Len() == 0 {
		return fmt.Errorf("refusing to export an empty series")
	}

	f := excelize.NewFile()
	defer f.Close()

	capacityStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: capacityFormat(e.precision)})
	if err != nil {
		return fmt.Errorf("failed to create capacity style: %w", err)
	}

	if err := f.SetSheetName(f.GetSheetName(0), FullSheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := e.writeSheet(f, FullSheetName, series.Rows, capacityStyle); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	cutoffSheet := CutoffSheetName(cutoff)
	if _, err := f.NewSheet(cutoffSheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", cutoffSheet, err)
	}
	if err := e.writeSheet(f, cutoffSheet, series.Since(cutoff), capacityStyle); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	e.logger.InfoContext(ctx, "Exported workbook",
		slog.String("path", path),
		slog.Int("years", series.Len()),
		slog.String("cutoff_sheet", cutoffSheet))

	return nil
}

func (e *WorkbookExporter) writeSheet(f *excelize.File, sheet string, rows []domain.YearRow, capacityStyle int) error {
	header := make([]interface{}, len(domain.YearRowColumns))
	for i, c := range domain.YearRowColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header of %s: %w", sheet, err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{
			row.Year,
			e.number(row.AdditionsCapacity),
			row.AdditionsCount,
			e.number(row.RemovalsCapacity),
			row.RemovalsCount,
			e.number(row.NetCapacity),
			row.NetCount,
			e.number(row.CumAdditionsCapacity),
			e.number(row.CumRemovalsCapacity),
			e.number(row.StockCapacity),
			row.CumAdditionsCount,
			row.CumRemovalsCount,
			row.StockCount,
			formatDate(row.DownloadDate),
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, row.Year, err)
		}
	}

	if len(rows) == 0 {
		return nil
	}

	// capacity columns B, D, F, H, I, J
	last := len(rows) + 1
	for _, col := range []string{"B", "D", "F", "H", "I", "J"} {
		if err := f.SetCellStyle(sheet, fmt.Sprintf("%s2", col), fmt.Sprintf("%s%d", col, last), capacityStyle); err != nil {
			return fmt.Errorf("failed to style %s column %s: %w", sheet, col, err)
		}
	}
	return nil
}

// number rounds to the output precision before handing the value to the sheet as float
func (e *WorkbookExporter) number(d decimal.Decimal) float64 {
	return d.Round(e.precision).InexactFloat64()
}

func capacityFormat(precision int32) *string {
	format := "0"
	if precision > 0 {
		format += "."
		for i := int32(0); i < precision; i++ {
			format += "0"
		}
	}
	return &format
}
