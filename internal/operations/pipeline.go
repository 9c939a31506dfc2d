package operations

import (
	"io"
	"log/slog"

	"solarstock/internal/config"
	"solarstock/internal/dataprocessing"
	"solarstock/internal/exporter"
	"solarstock/internal/files"
	"solarstock/internal/infrastructure"
)

// PipelineOptions wires the steps of a reconciliation run
type PipelineOptions struct {
	Paths    *config.Paths
	Pipeline config.PipelineConfig

	// Stdout, when set, receives the full series CSV instead of the reports directory
	Stdout io.Writer

	Metrics *infrastructure.PipelineMetrics
	Logger  *slog.Logger
}

// NewPipeline creates a manager with load, normalize, aggregate, reconcile
// and export registered in that order
func NewPipeline(opts PipelineOptions) (*Manager, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	precision := opts.Pipeline.CapacityPrecision

	targets := ExportTargets{
		Stdout:   opts.Stdout,
		FullPath: opts.Paths.YearlyCSVPath(opts.Pipeline.OutputName),
		Cutoff:   opts.Pipeline.CutoffYear,
	}
	if opts.Pipeline.WriteCutoff {
		targets.CutoffPath = opts.Paths.YearlySinceCSVPath(opts.Pipeline.OutputName, opts.Pipeline.CutoffYear)
	}
	var workbook *exporter.WorkbookExporter
	if opts.Pipeline.WriteWorkbook {
		workbook = exporter.NewWorkbookExporter(precision, logger)
		targets.WorkbookPath = opts.Paths.WorkbookPath(opts.Pipeline.OutputName)
	}

	m := NewManager(nil, opts.Metrics, logger)
	m.SetConfig(&Config{StepTimeout: opts.Pipeline.StepTimeout})

	steps := []Step{
		NewLoadStep(files.NewDiscovery(logger), dataprocessing.NewLoader(logger), opts.Paths.SnapshotPattern),
		NewNormalizeStep(dataprocessing.NewNormalizer(logger), opts.Metrics),
		NewAggregateStep(dataprocessing.NewAggregator(logger), opts.Metrics),
		NewReconcileStep(dataprocessing.NewReconciler(logger)),
		NewExportStep(exporter.NewSeriesExporter(opts.Paths, precision, logger), workbook, targets),
	}
	for _, step := range steps {
		if err := m.RegisterStage(step); err != nil {
			return nil, err
		}
	}

	return m, nil
}
