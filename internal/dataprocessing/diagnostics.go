package dataprocessing

import (
	"context"
	"log/slog"
	"sort"
)

// maxDiagnosticSamples bounds the sample messages kept per run
const maxDiagnosticSamples = 20

// Diagnostics is the run report of the normalize, aggregate and reconcile stages
type Diagnostics struct {
	TotalRecords int            `json:"total_records"`
	StatusCounts map[string]int `json:"status_counts"`

	// MalformedDates counts non-empty unparsable values per date column
	MalformedDates map[string]int `json:"malformed_dates"`
	// MissingDates counts empty values per date column
	MissingDates    map[string]int `json:"missing_dates"`
	UnknownCapacity int            `json:"unknown_capacity"`

	InconsistentRecords map[string]int `json:"inconsistent_records"`
	UndatedActive       int            `json:"undated_active"`
	OutOfRangeRemovals  int            `json:"out_of_range_removals"`

	MinYear int `json:"min_year,omitempty"`
	MaxYear int `json:"max_year,omitempty"`

	Samples []string `json:"samples,omitempty"`
}

// NewDiagnostics returns an empty report
func NewDiagnostics() *Diagnostics {
	return &Diagnostics{
		StatusCounts:        make(map[string]int),
		MalformedDates:      make(map[string]int),
		MissingDates:        make(map[string]int),
		InconsistentRecords: make(map[string]int),
	}
}

// TotalMalformed sums malformed values over all date columns
func (d *Diagnostics) TotalMalformed() int {
	return sumCounts(d.MalformedDates)
}

// TotalInconsistent sums inconsistent records over all kinds
func (d *Diagnostics) TotalInconsistent() int {
	return sumCounts(d.InconsistentRecords)
}

func (d *Diagnostics) addSample(err error) {
	if len(d.Samples) < maxDiagnosticSamples {
		d.Samples = append(d.Samples, err.Error())
	}
}

// LogSummary writes the report to the logger. Inconsistent records are logged at WARN.
func (d *Diagnostics) LogSummary(ctx context.Context, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.InfoContext(ctx, "Run diagnostics",
		slog.Int("total_records", d.TotalRecords),
		slog.Any("status_counts", d.StatusCounts),
		slog.Any("malformed_dates", d.MalformedDates),
		slog.Any("missing_dates", d.MissingDates),
		slog.Int("unknown_capacity", d.UnknownCapacity),
		slog.Int("undated_active", d.UndatedActive),
		slog.Int("min_year", d.MinYear),
		slog.Int("max_year", d.MaxYear))

	if n := d.TotalInconsistent(); n > 0 {
		logger.WarnContext(ctx, "Inconsistent records excluded or flagged",
			slog.Int("count", n),
			slog.Any("by_kind", d.InconsistentRecords))
	}
	if d.OutOfRangeRemovals > 0 {
		logger.WarnContext(ctx, "Removals before first commissioning year dropped",
			slog.Int("count", d.OutOfRangeRemovals),
			slog.Int("min_year", d.MinYear))
	}
}

// SortedStatuses returns the observed statuses in a stable order
func (d *Diagnostics) SortedStatuses() []string {
	statuses := make([]string, 0, len(d.StatusCounts))
	for s := range d.StatusCounts {
		statuses = append(statuses, s)
	}
	sort.Strings(statuses)
	return statuses
}

func sumCounts(m map[string]int) int {
	total := 0
	for _, n := range m {
		total += n
	}
	return total
}
