package services

import (
	"context"
	"log/slog"

	"solarstock/internal/dataprocessing"
	"solarstock/internal/infrastructure"
	"solarstock/internal/operations"
)

// OperationService runs the pipeline and publishes successful results
type OperationService struct {
	manager *operations.Manager
	reports *ReportService
	logger  *slog.Logger
}

// NewOperationService creates a service over manager. reports may be nil
// when nothing is served.
func NewOperationService(manager *operations.Manager, reports *ReportService, logger *slog.Logger) *OperationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &OperationService{
		manager: manager,
		reports: reports,
		logger:  logger.With(slog.String("service", "operation")),
	}
}

// Run executes one reconciliation. The run report is logged whether or not
// the run succeeds; only a completed run is published.
func (s *OperationService) Run(ctx context.Context, req operations.OperationRequest) (*operations.OperationResponse, error) {
	resp, err := s.manager.Execute(ctx, req)
	if resp != nil && resp.State != nil {
		if diag, ok := operations.Artifact[*dataprocessing.Diagnostics](resp.State, operations.ContextKeyDiagnostics); ok {
			diag.LogSummary(infrastructure.WithTraceID(ctx, resp.ID), s.logger)
		}
	}
	if err != nil {
		return resp, err
	}

	if s.reports != nil {
		if perr := s.reports.Publish(resp); perr != nil {
			s.logger.ErrorContext(ctx, "Failed to publish report",
				slog.String("run_id", resp.ID),
				slog.String("error", perr.Error()))
			return resp, perr
		}
	}
	return resp, nil
}
