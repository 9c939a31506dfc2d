package services

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"solarstock/internal/dataprocessing"
	apperrors "solarstock/internal/errors"
	"solarstock/internal/operations"
	"solarstock/pkg/contracts/domain"
)

// Report is the published result of one successful run
type Report struct {
	RunID       string                      `json:"run_id"`
	Source      string                      `json:"source"`
	CompletedAt time.Time                   `json:"completed_at"`
	Outputs     []string                    `json:"outputs,omitempty"`
	Series      *domain.Series              `json:"-"`
	Diagnostics *dataprocessing.Diagnostics `json:"-"`
}

// ReportService holds the latest published report for read-only serving
type ReportService struct {
	mu     sync.RWMutex
	report *Report
	logger *slog.Logger
}

// NewReportService creates an empty report service
func NewReportService(logger *slog.Logger) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportService{logger: logger.With(slog.String("service", "report"))}
}

// Publish replaces the current report with the artifacts of a completed run
func (s *ReportService) Publish(resp *operations.OperationResponse) error {
	if resp == nil || resp.State == nil {
		return fmt.Errorf("no operation state to publish")
	}
	if resp.Status != operations.OperationStatusCompleted {
		return fmt.Errorf("operation %s did not complete: %s", resp.ID, resp.Status)
	}

	series, ok := operations.Artifact[*domain.Series](resp.State, operations.ContextKeySeries)
	if !ok || series.Len() == 0 {
		return fmt.Errorf("operation %s produced no series", resp.ID)
	}
	diag, _ := operations.Artifact[*dataprocessing.Diagnostics](resp.State, operations.ContextKeyDiagnostics)
	source, _ := operations.Artifact[string](resp.State, operations.ContextKeyInputPath)
	outputs, _ := operations.Artifact[[]string](resp.State, operations.ContextKeyOutputs)

	report := &Report{
		RunID:       resp.ID,
		Source:      source,
		CompletedAt: time.Now().UTC(),
		Outputs:     outputs,
		Series:      series,
		Diagnostics: diag,
	}

	s.mu.Lock()
	s.report = report
	s.mu.Unlock()

	s.logger.Info("Report published",
		slog.String("run_id", report.RunID),
		slog.String("source", report.Source),
		slog.Int("years", series.Len()))
	return nil
}

// Current returns the latest report or a not-found error before the first publish
func (s *ReportService) Current() (*Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.report == nil {
		return nil, apperrors.NewNotFoundError("report")
	}
	return s.report, nil
}

// Series returns the rows of the current report from year from on; from 0
// returns the whole series
func (s *ReportService) Series(from int) (*Report, []domain.YearRow, error) {
	report, err := s.Current()
	if err != nil {
		return nil, nil, err
	}
	if from == 0 {
		return report, report.Series.Rows, nil
	}
	return report, report.Series.Since(from), nil
}

// Diagnostics returns the run report of the current report
func (s *ReportService) Diagnostics() (*dataprocessing.Diagnostics, error) {
	report, err := s.Current()
	if err != nil {
		return nil, err
	}
	if report.Diagnostics == nil {
		return dataprocessing.NewDiagnostics(), nil
	}
	return report.Diagnostics, nil
}

// Ready reports whether a report has been published
func (s *ReportService) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report != nil
}
