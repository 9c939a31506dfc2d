package services

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solarstock/internal/dataprocessing"
	apperrors "solarstock/internal/errors"
	"solarstock/internal/infrastructure"
	"solarstock/internal/operations"
	"solarstock/internal/shared/testutil"
	"solarstock/pkg/contracts/domain"
)

func testSeries() *domain.Series {
	rows := make([]domain.YearRow, 0, 3)
	stock := decimal.Zero
	for year := 2010; year <= 2012; year++ {
		stock = stock.Add(decimal.NewFromInt(2))
		rows = append(rows, domain.YearRow{
			Year:                 year,
			AdditionsCapacity:    decimal.NewFromInt(2),
			AdditionsCount:       1,
			NetCapacity:          decimal.NewFromInt(2),
			NetCount:             1,
			CumAdditionsCapacity: stock,
			StockCapacity:        stock,
		})
	}
	return &domain.Series{Rows: rows, MinYear: 2010, MaxYear: 2012}
}

// artifactStep places fixed artifacts into the operation state, or fails with err
type artifactStep struct {
	operations.BaseStage
	series *domain.Series
	err    error
}

func newArtifactStep(series *domain.Series, err error) *artifactStep {
	return &artifactStep{
		BaseStage: operations.NewBaseStage("reconcile", "Reconcile", nil),
		series:    series,
		err:       err,
	}
}

func (s *artifactStep) Execute(ctx context.Context, state *operations.OperationState) error {
	diag := dataprocessing.NewDiagnostics()
	diag.TotalRecords = 3
	state.SetContext(operations.ContextKeyDiagnostics, diag)
	state.SetContext(operations.ContextKeyInputPath, "/data/extract.csv")
	if s.err != nil {
		return s.err
	}
	state.SetContext(operations.ContextKeySeries, s.series)
	return nil
}

func newService(t *testing.T, step operations.Step) (*OperationService, *ReportService) {
	t.Helper()
	manager := operations.NewManager(nil, nil, nil)
	require.NoError(t, manager.RegisterStage(step))
	reports := NewReportService(nil)
	return NewOperationService(manager, reports, nil), reports
}

func TestOperationService_RunPublishes(t *testing.T) {
	svc, reports := newService(t, newArtifactStep(testSeries(), nil))
	assert.False(t, reports.Ready())

	resp, err := svc.Run(context.Background(), operations.OperationRequest{ID: "run-42"})
	require.NoError(t, err)
	assert.Equal(t, operations.OperationStatusCompleted, resp.Status)

	require.True(t, reports.Ready())
	report, err := reports.Current()
	require.NoError(t, err)
	assert.Equal(t, "run-42", report.RunID)
	assert.Equal(t, "/data/extract.csv", report.Source)

	_, rows, err := reports.Series(2011)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 2011, rows[0].Year)

	_, all, err := reports.Series(0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	diag, err := reports.Diagnostics()
	require.NoError(t, err)
	assert.Equal(t, 3, diag.TotalRecords)
}

func TestOperationService_FailedRunIsNotPublished(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	manager := operations.NewManager(nil, nil, logger)
	require.NoError(t, manager.RegisterStage(newArtifactStep(nil, &apperrors.EmptyInputError{Records: 3})))
	reports := NewReportService(logger)
	svc := NewOperationService(manager, reports, logger)

	_, err := svc.Run(context.Background(), operations.OperationRequest{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrEmptyInput))
	assert.False(t, reports.Ready())

	// Diagnostics are reported even when the run fails.
	summary := testutil.AssertLogged(t, logs, slog.LevelInfo, "Run diagnostics")
	assert.Equal(t, int64(3), summary.Attrs["total_records"])
	testutil.AssertLogged(t, logs, slog.LevelError, "stage_failed")
}

func TestOperationService_DiagnosticsCarryRunID(t *testing.T) {
	var buf bytes.Buffer
	logger := infrastructure.NewLogger(&buf, "info")
	manager := operations.NewManager(nil, nil, logger)
	require.NoError(t, manager.RegisterStage(newArtifactStep(testSeries(), nil)))
	svc := NewOperationService(manager, NewReportService(logger), logger)

	_, err := svc.Run(context.Background(), operations.OperationRequest{ID: "run-7"})
	require.NoError(t, err)

	var summary string
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.Contains(line, "Run diagnostics") {
			summary = line
		}
	}
	require.NotEmpty(t, summary, "diagnostics summary logged")
	assert.Contains(t, summary, `"trace_id":"run-7"`)
}

func TestReportService_NotFoundBeforePublish(t *testing.T) {
	reports := NewReportService(nil)

	_, err := reports.Current()
	assert.Equal(t, apperrors.ErrTypeNotFound, apperrors.TypeOf(err))

	_, _, err = reports.Series(2000)
	assert.Error(t, err)

	_, err = reports.Diagnostics()
	assert.Error(t, err)

	assert.Error(t, reports.Publish(nil))
}

func TestHealthService(t *testing.T) {
	reports := NewReportService(nil)
	hs := NewHealthService("1.0.0", reports)

	status := hs.HealthCheck(context.Background())
	assert.Equal(t, "degraded", status.Status)
	assert.Equal(t, "not_ready", status.Services["report"].Status)

	svc, _ := newService(t, newArtifactStep(testSeries(), nil))
	svc.reports = reports
	_, err := svc.Run(context.Background(), operations.OperationRequest{})
	require.NoError(t, err)

	status = hs.HealthCheck(context.Background())
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, "1.0.0", status.Version)
	assert.Equal(t, "ready", status.Services["report"].Status)
}
