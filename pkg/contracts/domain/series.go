package domain

import (
	"github.com/shopspring/decimal"
)

// Flow is the capacity sum and unit count of one flow category in one year
type Flow struct {
	CapacityKW decimal.Decimal `json:"capacity_kw"`
	Count      int64           `json:"count"`
}

// Add returns the flow extended by one unit of the given capacity
func (f Flow) Add(capacityKW decimal.Decimal) Flow {
	return Flow{
		CapacityKW: f.CapacityKW.Add(capacityKW),
		Count:      f.Count + 1,
	}
}

// Merge returns the sum of two flows
func (f Flow) Merge(other Flow) Flow {
	return Flow{
		CapacityKW: f.CapacityKW.Add(other.CapacityKW),
		Count:      f.Count + other.Count,
	}
}

// YearRow is one year of the reconciled capacity series
type YearRow struct {
	Year int `json:"year"`

	AdditionsCapacity decimal.Decimal `json:"additions_capacity"`
	AdditionsCount    int64           `json:"additions_count"`
	RemovalsCapacity  decimal.Decimal `json:"removals_capacity"`
	RemovalsCount     int64           `json:"removals_count"`

	NetCapacity decimal.Decimal `json:"net_capacity"`
	NetCount    int64           `json:"net_count"`

	CumAdditionsCapacity decimal.Decimal `json:"cum_additions_capacity"`
	CumRemovalsCapacity  decimal.Decimal `json:"cum_removals_capacity"`
	StockCapacity        decimal.Decimal `json:"stock_capacity"`

	CumAdditionsCount int64 `json:"cum_additions_count"`
	CumRemovalsCount  int64 `json:"cum_removals_count"`
	StockCount        int64 `json:"stock_count"`

	DownloadDate Date `json:"download_date"`
}

// YearRowColumns is the output column order of a YearRow
var YearRowColumns = []string{
	"year",
	"additions_capacity",
	"additions_count",
	"removals_capacity",
	"removals_count",
	"net_capacity",
	"net_count",
	"cum_additions_capacity",
	"cum_removals_capacity",
	"stock_capacity",
	"cum_additions_count",
	"cum_removals_count",
	"stock_count",
	"download_date",
}

// Series is the dense, ascending yearly capacity series
type Series struct {
	Rows         []YearRow `json:"rows"`
	MinYear      int       `json:"min_year"`
	MaxYear      int       `json:"max_year"`
	DownloadDate Date      `json:"download_date"`
}

// Len returns the number of years in the series
func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Rows)
}

// Since returns the rows for years >= cutoff. The rows are shared with the
// full series, so cumulative values are those of the full history.
func (s *Series) Since(cutoff int) []YearRow {
	if s == nil || len(s.Rows) == 0 {
		return nil
	}
	if cutoff <= s.MinYear {
		return s.Rows
	}
	if cutoff > s.MaxYear {
		return []YearRow{}
	}
	return s.Rows[cutoff-s.MinYear:]
}

// Row returns the row for a year
func (s *Series) Row(year int) (YearRow, bool) {
	if s == nil || year < s.MinYear || year > s.MaxYear || len(s.Rows) == 0 {
		return YearRow{}, false
	}
	return s.Rows[year-s.MinYear], true
}
