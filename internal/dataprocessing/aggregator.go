package dataprocessing

import (
	"context"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	apperrors "solarstock/internal/errors"
	"solarstock/pkg/contracts/domain"
)

// ctxCheckInterval is how many records a partition scans between cancellation checks
const ctxCheckInterval = 4096

// FlowTable maps a year to the aggregated flow of that year. It is sparse:
// years without qualifying records are absent.
type FlowTable map[int]domain.Flow

// Years returns the years present in the table in ascending order
func (t FlowTable) Years() []int {
	years := make([]int, 0, len(t))
	for y := range t {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// Total sums the table over all years
func (t FlowTable) Total() domain.Flow {
	var total domain.Flow
	for _, f := range t {
		total = total.Merge(f)
	}
	return total
}

// Flows holds both partitions of a record set
type Flows struct {
	Additions FlowTable
	Removals  FlowTable
}

// partitionStats is the per-partition share of the diagnostics, merged after both partitions finish
type partitionStats struct {
	inconsistent  map[string]int
	undatedActive int
	samples       []error
}

// Aggregator reduces unit records to yearly additions and removals
type Aggregator struct {
	logger *slog.Logger
}

// NewAggregator creates an aggregator; a nil logger uses slog.Default()
func NewAggregator(logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{logger: logger.With("component", "aggregator")}
}

// Aggregate builds the additions partition (active units by commissioning
// year) and the removals partition (permanently decommissioned units by
// decommissioning year). The two partitions are computed concurrently.
// Inconsistent records are counted into diag, which may be nil.
func (a *Aggregator) Aggregate(ctx context.Context, records []domain.UnitRecord, diag *Diagnostics) (*Flows, error) {
	var (
		flows        Flows
		addStats     partitionStats
		removalStats partitionStats
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		flows.Additions, addStats, err = aggregateAdditions(gctx, records)
		return err
	})
	g.Go(func() error {
		var err error
		flows.Removals, removalStats, err = aggregateRemovals(gctx, records)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if diag != nil {
		for _, stats := range []partitionStats{addStats, removalStats} {
			for kind, n := range stats.inconsistent {
				diag.InconsistentRecords[kind] += n
			}
			diag.UndatedActive += stats.undatedActive
			for _, s := range stats.samples {
				diag.addSample(s)
			}
		}
	}

	added, removed := flows.Additions.Total(), flows.Removals.Total()
	a.logger.InfoContext(ctx, "Aggregated annual flows",
		slog.Int("addition_years", len(flows.Additions)),
		slog.Int64("additions_count", added.Count),
		slog.String("additions_capacity_kw", added.CapacityKW.String()),
		slog.Int("removal_years", len(flows.Removals)),
		slog.Int64("removals_count", removed.Count),
		slog.String("removals_capacity_kw", removed.CapacityKW.String()),
		slog.Int("undated_active", addStats.undatedActive),
		slog.Int("inconsistent_records", sumCounts(removalStats.inconsistent)))

	return &flows, nil
}

func aggregateAdditions(ctx context.Context, records []domain.UnitRecord) (FlowTable, partitionStats, error) {
	table := make(FlowTable)
	stats := partitionStats{}

	for i, rec := range records {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, stats, err
			}
		}
		if !rec.Status.IsActive() {
			continue
		}
		if !rec.CommissioningDate.Known() {
			stats.undatedActive++
			continue
		}
		year := rec.CommissioningDate.Year()
		table[year] = table[year].Add(rec.CapacityKW)
	}

	return table, stats, nil
}

func aggregateRemovals(ctx context.Context, records []domain.UnitRecord) (FlowTable, partitionStats, error) {
	table := make(FlowTable)
	stats := partitionStats{inconsistent: make(map[string]int)}

	for i, rec := range records {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, stats, err
			}
		}

		decommissioned := rec.Status.IsDecommissioned()
		dated := rec.DecommissioningDate.Known()

		switch {
		case decommissioned && dated:
			year := rec.DecommissioningDate.Year()
			table[year] = table[year].Add(rec.CapacityKW)
		case decommissioned:
			stats.flag(apperrors.InconsistencyMissingDecommissioningDate, rec)
		case dated:
			stats.flag(apperrors.InconsistencyUnexpectedDecommissioning, rec)
		}
	}

	return table, stats, nil
}

func (s *partitionStats) flag(kind string, rec domain.UnitRecord) {
	s.inconsistent[kind]++
	if len(s.samples) < maxDiagnosticSamples {
		s.samples = append(s.samples, &apperrors.InconsistentRecordWarning{
			Kind:   kind,
			UnitID: rec.UnitID,
			Status: string(rec.Status),
		})
	}
}
