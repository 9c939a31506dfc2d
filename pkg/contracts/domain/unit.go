package domain

import (
	"github.com/shopspring/decimal"
)

// UnitStatus is the operating status of a generation unit as published in the register
type UnitStatus string

const (
	StatusActive         UnitStatus = "In Betrieb"
	StatusDecommissioned UnitStatus = "Endgültig stillgelegt"
	StatusSuspended      UnitStatus = "Vorübergehend stillgelegt"
	StatusPlanned        UnitStatus = "In Planung"
)

// IsActive reports whether the unit counts towards additions
func (s UnitStatus) IsActive() bool {
	return s == StatusActive
}

// IsDecommissioned reports whether the unit counts towards removals
func (s UnitStatus) IsDecommissioned() bool {
	return s == StatusDecommissioned
}

// Source column names of the register extract
const (
	ColumnUnitID              = "EinheitMastrNummer"
	ColumnStatus              = "EinheitBetriebsstatus"
	ColumnCommissioningDate   = "Inbetriebnahmedatum"
	ColumnDecommissioningDate = "DatumEndgueltigeStilllegung"
	ColumnCapacity            = "Bruttoleistung"
	ColumnDownloadDate        = "DatumDownload"
)

// RequiredColumns lists the columns every input extract must carry
var RequiredColumns = []string{
	ColumnStatus,
	ColumnCommissioningDate,
	ColumnDecommissioningDate,
	ColumnCapacity,
	ColumnDownloadDate,
}

// UnitRecord is one physical generation unit after normalization.
// Unknown dates are represented by the zero Date.
type UnitRecord struct {
	UnitID              string          `json:"unit_id,omitempty"`
	Status              UnitStatus      `json:"status"`
	CommissioningDate   Date            `json:"commissioning_date"`
	DecommissioningDate Date            `json:"decommissioning_date"`
	CapacityKW          decimal.Decimal `json:"capacity_kw"`
	CapacityKnown       bool            `json:"capacity_known"`
	DownloadDate        Date            `json:"download_date"`
}
