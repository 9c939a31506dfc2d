package dataprocessing

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	apperrors "solarstock/internal/errors"
	"solarstock/pkg/contracts/domain"
)

// YearRange derives the year axis bounds. The lower bound is the earliest
// known commissioning year over all records; the upper bound is the latest
// known commissioning or decommissioning year. ok is false when no record
// has a known commissioning date.
func YearRange(records []domain.UnitRecord) (minYear, maxYear int, ok bool) {
	for _, rec := range records {
		if rec.CommissioningDate.Known() {
			y := rec.CommissioningDate.Year()
			if !ok || y < minYear {
				minYear = y
			}
			if !ok || y > maxYear {
				maxYear = y
			}
			ok = true
		}
	}
	if !ok {
		return 0, 0, false
	}

	for _, rec := range records {
		if rec.DecommissioningDate.Known() && rec.DecommissioningDate.Year() > maxYear {
			maxYear = rec.DecommissioningDate.Year()
		}
	}
	return minYear, maxYear, true
}

// SnapshotDate returns the first known download date in input order
func SnapshotDate(records []domain.UnitRecord) domain.Date {
	for _, rec := range records {
		if rec.DownloadDate.Known() {
			return rec.DownloadDate
		}
	}
	return domain.UnknownDate()
}

// BuildSeries joins both flow tables onto the dense axis minYear..maxYear and
// folds the cumulative columns in ascending year order. Years missing from a
// table contribute zero. It returns the series and the number of removal
// units whose year lies before minYear and therefore has no row.
func BuildSeries(minYear, maxYear int, flows *Flows, downloadDate domain.Date) (*domain.Series, int64) {
	if flows == nil {
		flows = &Flows{}
	}
	series := &domain.Series{
		Rows:         make([]domain.YearRow, 0, maxYear-minYear+1),
		MinYear:      minYear,
		MaxYear:      maxYear,
		DownloadDate: downloadDate,
	}

	var outOfRange int64
	for year, f := range flows.Removals {
		if year < minYear {
			outOfRange += f.Count
		}
	}

	cumAddCap, cumRemCap := decimal.Zero, decimal.Zero
	var cumAddCount, cumRemCount int64

	for year := minYear; year <= maxYear; year++ {
		add := zeroFilled(flows.Additions, year)
		rem := zeroFilled(flows.Removals, year)

		cumAddCap = cumAddCap.Add(add.CapacityKW)
		cumRemCap = cumRemCap.Add(rem.CapacityKW)
		cumAddCount += add.Count
		cumRemCount += rem.Count

		series.Rows = append(series.Rows, domain.YearRow{
			Year:                 year,
			AdditionsCapacity:    add.CapacityKW,
			AdditionsCount:       add.Count,
			RemovalsCapacity:     rem.CapacityKW,
			RemovalsCount:        rem.Count,
			NetCapacity:          add.CapacityKW.Sub(rem.CapacityKW),
			NetCount:             add.Count - rem.Count,
			CumAdditionsCapacity: cumAddCap,
			CumRemovalsCapacity:  cumRemCap,
			StockCapacity:        cumAddCap.Sub(cumRemCap),
			CumAdditionsCount:    cumAddCount,
			CumRemovalsCount:     cumRemCount,
			StockCount:           cumAddCount - cumRemCount,
			DownloadDate:         downloadDate,
		})
	}

	return series, outOfRange
}

func zeroFilled(table FlowTable, year int) domain.Flow {
	if f, ok := table[year]; ok {
		return f
	}
	return domain.Flow{CapacityKW: decimal.Zero}
}

// Reconciler turns flow tables into the dense yearly series
type Reconciler struct {
	logger *slog.Logger
}

// NewReconciler creates a reconciler; a nil logger uses slog.Default()
func NewReconciler(logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{logger: logger.With("component", "reconciler")}
}

// Reconcile builds the series for records and their flows. It fails with an
// EmptyInputError when no record has a known commissioning date.
func (r *Reconciler) Reconcile(ctx context.Context, records []domain.UnitRecord, flows *Flows, diag *Diagnostics) (*domain.Series, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	minYear, maxYear, ok := YearRange(records)
	if !ok {
		return nil, &apperrors.EmptyInputError{Records: len(records)}
	}

	series, outOfRange := BuildSeries(minYear, maxYear, flows, SnapshotDate(records))

	if diag != nil {
		diag.MinYear = minYear
		diag.MaxYear = maxYear
		diag.OutOfRangeRemovals = int(outOfRange)
	}

	last := series.Rows[len(series.Rows)-1]
	r.logger.InfoContext(ctx, "Reconciled yearly series",
		slog.Int("min_year", minYear),
		slog.Int("max_year", maxYear),
		slog.Int("years", series.Len()),
		slog.String("stock_capacity_kw", last.StockCapacity.String()),
		slog.Int64("stock_count", last.StockCount),
		slog.String("download_date", series.DownloadDate.String()))

	if outOfRange > 0 {
		r.logger.WarnContext(ctx, "Removals dated before the first commissioning year were dropped",
			slog.Int64("count", outOfRange),
			slog.Int("min_year", minYear))
	}

	return series, nil
}
