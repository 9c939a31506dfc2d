package operations

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"solarstock/internal/config"
	"solarstock/internal/dataprocessing"
	apperrors "solarstock/internal/errors"
	"solarstock/pkg/contracts/domain"
)

const extractHeader = "EinheitMastrNummer,EinheitBetriebsstatus,Inbetriebnahmedatum,DatumEndgueltigeStilllegung,Bruttoleistung,DatumDownload\n"

const scenarioExtract = extractHeader +
	"SEE1,In Betrieb,2010-03-01,,\"5,0\",2024-01-31\n" +
	"SEE2,Endgültig stillgelegt,2010-05-01,2012-07-01,\"3,0\",2024-01-31\n" +
	"SEE3,In Betrieb,kaputt,,\"1,0\",2024-01-31\n"

func writeSnapshot(t *testing.T, dir, content string) string {
	t.Helper()
	snapshotDir := filepath.Join(dir, "dataversion-2024-01-31")
	require.NoError(t, os.MkdirAll(snapshotDir, 0755))
	path := filepath.Join(snapshotDir, "bnetza_mastr_solar_raw.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func testOptions(dir string) PipelineOptions {
	return PipelineOptions{
		Paths: &config.Paths{
			BaseDir:         dir,
			DataDir:         dir,
			ReportsDir:      filepath.Join(dir, "reports"),
			LogsDir:         filepath.Join(dir, "logs"),
			SnapshotPattern: filepath.Join(dir, "dataversion-*", "bnetza_mastr_solar_raw.csv"),
		},
		Pipeline: config.PipelineConfig{
			Region:            "Berlin",
			CutoffYear:        2011,
			CapacityPrecision: 3,
			OutputName:        "solar_test_yearly",
			WriteCutoff:       true,
			StepTimeout:       time.Minute,
		},
	}
}

func runPipeline(t *testing.T, opts PipelineOptions, req OperationRequest) (*OperationResponse, error) {
	t.Helper()
	m, err := NewPipeline(opts)
	require.NoError(t, err)
	assert.Equal(t, []string{StepIDLoad, StepIDNormalize, StepIDAggregate, StepIDReconcile, StepIDExport}, m.registry.ListIDs())
	assert.Equal(t, opts.Pipeline.StepTimeout, m.config.StepTimeout)
	return m.Execute(context.Background(), req)
}

func TestPipeline_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, dir, scenarioExtract)
	opts := testOptions(dir)

	resp, err := runPipeline(t, opts, OperationRequest{})
	require.NoError(t, err)
	assert.Equal(t, OperationStatusCompleted, resp.Status)

	series, ok := Artifact[*domain.Series](resp.State, ContextKeySeries)
	require.True(t, ok)
	assert.Equal(t, 2010, series.MinYear)
	assert.Equal(t, 2012, series.MaxYear)

	row2012, ok := series.Row(2012)
	require.True(t, ok)
	assert.Equal(t, "2.0", row2012.StockCapacity.StringFixed(1))
	assert.Equal(t, int64(0), row2012.StockCount)

	diag, ok := Artifact[*dataprocessing.Diagnostics](resp.State, ContextKeyDiagnostics)
	require.True(t, ok)
	assert.Equal(t, 1, diag.TotalMalformed())

	outputs, ok := Artifact[[]string](resp.State, ContextKeyOutputs)
	require.True(t, ok)
	require.Len(t, outputs, 2)

	full, err := os.ReadFile(opts.Paths.YearlyCSVPath("solar_test_yearly"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(full, []byte("\ufeffyear,additions_capacity,")))
	assert.Contains(t, string(full), "2011,0.000,0,0.000,0,0.000,0,5.000,0.000,5.000,1,0,1,2024-01-31")

	since, err := os.ReadFile(opts.Paths.YearlySinceCSVPath("solar_test_yearly", 2011))
	require.NoError(t, err)
	assert.NotContains(t, string(since), "\n2010,")
	assert.Contains(t, string(since), "\n2011,")
}

func TestPipeline_Idempotent(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, dir, scenarioExtract)
	opts := testOptions(dir)
	path := opts.Paths.YearlyCSVPath("solar_test_yearly")

	_, err := runPipeline(t, opts, OperationRequest{})
	require.NoError(t, err)
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = runPipeline(t, opts, OperationRequest{})
	require.NoError(t, err)
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestPipeline_EmptyInputWritesNothing(t *testing.T) {
	dir := t.TempDir()
	input := writeSnapshot(t, dir, extractHeader+"SEE1,In Betrieb,,,\"1,0\",2024-01-31\n")
	opts := testOptions(dir)

	resp, err := runPipeline(t, opts, OperationRequest{InputPath: input})
	require.Error(t, err)

	assert.True(t, errors.Is(err, apperrors.ErrEmptyInput))
	var emptyErr *apperrors.EmptyInputError
	require.True(t, errors.As(err, &emptyErr))
	assert.Equal(t, 1, emptyErr.Records)

	assert.Equal(t, StepStatusFailed, resp.Steps[StepIDReconcile].GetStatus())
	assert.Equal(t, StepStatusSkipped, resp.Steps[StepIDExport].GetStatus())

	_, statErr := os.Stat(opts.Paths.YearlyCSVPath("solar_test_yearly"))
	assert.True(t, os.IsNotExist(statErr))

	diag, ok := Artifact[*dataprocessing.Diagnostics](resp.State, ContextKeyDiagnostics)
	require.True(t, ok)
	assert.Equal(t, 1, diag.TotalRecords)
}

func TestPipeline_MissingColumnFailsLoad(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, dir, "EinheitBetriebsstatus,Bruttoleistung\nIn Betrieb,1\n")

	resp, err := runPipeline(t, testOptions(dir), OperationRequest{})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrTypeParsing, apperrors.TypeOf(err))
	assert.Equal(t, StepStatusFailed, resp.Steps[StepIDLoad].GetStatus())
	assert.Equal(t, StepStatusSkipped, resp.Steps[StepIDNormalize].GetStatus())
}

func TestPipeline_NoSnapshot(t *testing.T) {
	resp, err := runPipeline(t, testOptions(t.TempDir()), OperationRequest{})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrTypeNotFound, apperrors.TypeOf(err))
	assert.Equal(t, StepStatusFailed, resp.Steps[StepIDLoad].GetStatus())
}

func TestPipeline_StdoutAndWorkbook(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, dir, scenarioExtract)

	var out bytes.Buffer
	opts := testOptions(dir)
	opts.Stdout = &out
	opts.Pipeline.WriteWorkbook = true

	// stdout replaces the CSV files, so the reports directory must exist for the workbook
	require.NoError(t, os.MkdirAll(opts.Paths.ReportsDir, 0755))

	resp, err := runPipeline(t, opts, OperationRequest{})
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(out.Bytes(), []byte("\ufeffyear,")))
	_, statErr := os.Stat(opts.Paths.YearlyCSVPath("solar_test_yearly"))
	assert.True(t, os.IsNotExist(statErr))

	outputs, _ := Artifact[[]string](resp.State, ContextKeyOutputs)
	assert.Equal(t, []string{"-", opts.Paths.WorkbookPath("solar_test_yearly")}, outputs)

	f, err := excelize.OpenFile(opts.Paths.WorkbookPath("solar_test_yearly"))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"yearly", "yearly_since_2011"}, f.GetSheetList())
}
