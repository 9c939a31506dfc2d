package dataprocessing

import (
	"time"

	"github.com/shopspring/decimal"

	"solarstock/pkg/contracts/domain"
)

// unit builds a record; a zero year means the date is unknown
func unit(status domain.UnitStatus, commissioned, decommissioned int, capacity string) domain.UnitRecord {
	rec := domain.UnitRecord{
		Status:        status,
		CapacityKW:    decimal.RequireFromString(capacity),
		CapacityKnown: true,
		DownloadDate:  domain.NewDate(2024, time.January, 31),
	}
	if commissioned != 0 {
		rec.CommissioningDate = domain.NewDate(commissioned, time.June, 15)
	}
	if decommissioned != 0 {
		rec.DecommissioningDate = domain.NewDate(decommissioned, time.March, 1)
	}
	return rec
}

func active(year int, capacity string) domain.UnitRecord {
	return unit(domain.StatusActive, year, 0, capacity)
}

func removed(commissioned, decommissioned int, capacity string) domain.UnitRecord {
	return unit(domain.StatusDecommissioned, commissioned, decommissioned, capacity)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
