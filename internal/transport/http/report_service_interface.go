package http

import (
	"solarstock/internal/dataprocessing"
	"solarstock/internal/services"
	"solarstock/pkg/contracts/domain"
)

// ReportServiceInterface defines the read operations the report handler needs
type ReportServiceInterface interface {
	Current() (*services.Report, error)
	Series(from int) (*services.Report, []domain.YearRow, error)
	Diagnostics() (*dataprocessing.Diagnostics, error)
}
