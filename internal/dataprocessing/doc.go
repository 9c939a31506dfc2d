// Package dataprocessing turns a register extract of solar units into the
// yearly capacity flow and stock series.
//
// # Stages
//
//	Loader      CSV/XLSX file    -> []RawRow
//	Normalizer  []RawRow         -> []domain.UnitRecord + Diagnostics
//	Aggregator  []UnitRecord     -> Flows (additions and removals per year)
//	Reconciler  Flows + records  -> domain.Series
//
// Additions are units with status "In Betrieb" keyed by commissioning year.
// Removals are units with status "Endgültig stillgelegt" keyed by
// decommissioning year. The reconciler lays both onto a dense year axis that
// starts at the earliest known commissioning year and ends at the latest
// known event year, fills absent years with zero and folds the cumulative
// and stock columns.
//
// # Usage
//
//	table, err := dataprocessing.NewLoader(logger).LoadFile(ctx, "solar_berlin_cleaned.csv")
//	if err != nil {
//	    return err
//	}
//	records, diag := dataprocessing.NewNormalizer(logger).Normalize(ctx, table.Rows)
//	flows, err := dataprocessing.NewAggregator(logger).Aggregate(ctx, records, diag)
//	if err != nil {
//	    return err
//	}
//	series, err := dataprocessing.NewReconciler(logger).Reconcile(ctx, records, flows, diag)
//	if errors.Is(err, apperrors.ErrEmptyInput) {
//	    // no year axis; nothing to export
//	}
//
// In the application these stages run as steps of the operations pipeline.
//
// # Error Handling
//
// Malformed dates and capacities never fail a run. They degrade to unknown
// and are counted in Diagnostics. The only fatal data condition is an input
// without any known commissioning date, reported as *errors.EmptyInputError.
// Capacity sums use exact decimal arithmetic, so results do not depend on
// record order.
package dataprocessing
