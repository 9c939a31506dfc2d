package exporter

import (
	"strconv"

	"github.com/shopspring/decimal"

	"solarstock/pkg/contracts/domain"
)

// formatCapacity formats a kW value with a fixed number of decimal places
func formatCapacity(d decimal.Decimal, precision int32) string {
	return d.StringFixed(precision)
}

// formatInt formats an int64 value for CSV output
func formatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}

// formatYear formats a calendar year
func formatYear(year int) string {
	return strconv.Itoa(year)
}

// formatDate formats a date as YYYY-MM-DD, empty when unknown
func formatDate(d domain.Date) string {
	return d.String()
}
