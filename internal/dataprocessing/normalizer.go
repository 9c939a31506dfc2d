package dataprocessing

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/unicode/norm"

	apperrors "solarstock/internal/errors"
	"solarstock/pkg/contracts/domain"
)

// Accepted calendar years; parsed dates outside the range are treated as malformed
const (
	minSupportedYear = 1800
	maxSupportedYear = 2200
)

// dateLayouts are tried in order. time.Parse accepts a fractional second after
// the seconds field even when the layout omits it.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"02.01.2006",
	"2.1.2006",
	"02.01.2006 15:04:05",
	"02.01.2006 15:04",
	"2006/01/02",
}

var (
	yearOnly     = regexp.MustCompile(`^\d{4}$`)
	compactISO   = regexp.MustCompile(`^\d{8}$`)
	serialNumber = regexp.MustCompile(`^\d+(\.\d+)?$`)
)

// Excel stores day 2958465 as 9999-12-31
const maxExcelSerial = 2958465

// ParseDate parses a register date value. It returns false for empty and
// for unparsable input; the zero Date is returned in both cases.
func ParseDate(value string) (domain.Date, bool) {
	s := strings.TrimSpace(value)
	if s == "" {
		return domain.UnknownDate(), false
	}

	if yearOnly.MatchString(s) {
		year, _ := strconv.Atoi(s)
		return checkedDate(time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC))
	}

	// YYYYMMDD takes precedence over an Excel serial of the same digits
	if compactISO.MatchString(s) {
		if t, err := time.Parse("20060102", s); err == nil {
			return checkedDate(t)
		}
	}

	if serialNumber.MatchString(s) {
		serial, err := strconv.ParseFloat(s, 64)
		if err != nil || serial < 1 || serial > maxExcelSerial {
			return domain.UnknownDate(), false
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return domain.UnknownDate(), false
		}
		return checkedDate(t)
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return checkedDate(t)
		}
	}
	return domain.UnknownDate(), false
}

func checkedDate(t time.Time) (domain.Date, bool) {
	if t.Year() < minSupportedYear || t.Year() > maxSupportedYear {
		return domain.UnknownDate(), false
	}
	return domain.DateOf(t), true
}

// ParseCapacity parses a non-negative power value in kW. Both "." and ","
// are accepted as decimal separator; with both present the last one is the
// decimal separator and the other a thousands separator.
func ParseCapacity(value string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(value)
	if s == "" {
		return decimal.Zero, false
	}

	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")
	switch {
	case lastDot >= 0 && lastComma >= 0 && lastComma > lastDot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case lastDot >= 0 && lastComma >= 0:
		s = strings.ReplaceAll(s, ",", "")
	case lastComma >= 0:
		s = strings.Replace(s, ",", ".", 1)
	}

	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero, false
	}
	return d, true
}

// NormalizeStatus trims and NFC-normalizes a status value so decomposed
// umlauts compare equal to the canonical vocabulary
func NormalizeStatus(value string) domain.UnitStatus {
	return domain.UnitStatus(norm.NFC.String(strings.TrimSpace(value)))
}

// Normalizer turns raw rows into typed unit records
type Normalizer struct {
	logger *slog.Logger
}

// NewNormalizer creates a normalizer; a nil logger uses slog.Default()
func NewNormalizer(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{logger: logger.With("component", "normalizer")}
}

// Normalize converts every row. Malformed values degrade to unknown and are
// counted in the returned diagnostics; no row is ever rejected.
func (n *Normalizer) Normalize(ctx context.Context, rows []RawRow) ([]domain.UnitRecord, *Diagnostics) {
	diag := NewDiagnostics()
	records := make([]domain.UnitRecord, 0, len(rows))

	for i, row := range rows {
		// data rows start at line 2 of the source, after the header
		records = append(records, n.normalizeRow(ctx, i+2, row, diag))
	}
	diag.TotalRecords = len(records)

	n.logger.InfoContext(ctx, "Normalized unit records",
		slog.Int("records", len(records)),
		slog.Int("malformed_dates", diag.TotalMalformed()),
		slog.Int("unknown_capacity", diag.UnknownCapacity))

	return records, diag
}

func (n *Normalizer) normalizeRow(ctx context.Context, line int, row RawRow, diag *Diagnostics) domain.UnitRecord {
	rec := domain.UnitRecord{
		UnitID: strings.TrimSpace(row[domain.ColumnUnitID]),
		Status: NormalizeStatus(row[domain.ColumnStatus]),
	}
	diag.StatusCounts[string(rec.Status)]++

	rec.CommissioningDate = n.parseDateField(ctx, line, domain.ColumnCommissioningDate, row, diag)
	rec.DecommissioningDate = n.parseDateField(ctx, line, domain.ColumnDecommissioningDate, row, diag)
	rec.DownloadDate = n.parseDateField(ctx, line, domain.ColumnDownloadDate, row, diag)

	rec.CapacityKW, rec.CapacityKnown = ParseCapacity(row[domain.ColumnCapacity])
	if !rec.CapacityKnown {
		diag.UnknownCapacity++
	}

	return rec
}

func (n *Normalizer) parseDateField(ctx context.Context, line int, field string, row RawRow, diag *Diagnostics) domain.Date {
	raw := row[field]
	d, ok := ParseDate(raw)
	if ok {
		return d
	}

	if strings.TrimSpace(raw) == "" {
		diag.MissingDates[field]++
		return d
	}

	malformed := &apperrors.MalformedDateError{Field: field, Value: raw, Row: line}
	diag.MalformedDates[field]++
	diag.addSample(malformed)
	n.logger.DebugContext(ctx, "Malformed date degraded to unknown", slog.String("error", malformed.Error()))
	return d
}
