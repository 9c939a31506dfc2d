package operations

import (
	"context"
	"fmt"
	"io"

	"solarstock/internal/dataprocessing"
	"solarstock/internal/exporter"
	"solarstock/internal/files"
	"solarstock/internal/infrastructure"
	"solarstock/pkg/contracts/domain"
)

// LoadStep resolves the input extract and reads it into a table
type LoadStep struct {
	BaseStage
	discovery *files.Discovery
	loader    *dataprocessing.Loader
	pattern   string
}

// NewLoadStep creates the load step. pattern is the snapshot glob used when
// the request names no input file.
func NewLoadStep(discovery *files.Discovery, loader *dataprocessing.Loader, pattern string) *LoadStep {
	return &LoadStep{
		BaseStage: NewBaseStage(StepIDLoad, StepNameLoad, nil),
		discovery: discovery,
		loader:    loader,
		pattern:   pattern,
	}
}

// Execute loads the extract
func (s *LoadStep) Execute(ctx context.Context, state *OperationState) error {
	explicit, _ := Artifact[string](state, ContextKeyInputPath)

	path, err := s.discovery.ResolveInput(explicit, s.pattern)
	if err != nil {
		return err
	}

	table, err := s.loader.LoadFile(ctx, path)
	if err != nil {
		return err
	}

	state.SetContext(ContextKeyInputPath, path)
	state.SetContext(ContextKeyTable, table)
	if st := state.GetStage(s.ID()); st != nil {
		st.SetMetadata("input_path", path)
		st.SetMetadata("rows", len(table.Rows))
	}
	return nil
}

// NormalizeStep turns raw rows into unit records
type NormalizeStep struct {
	BaseStage
	normalizer *dataprocessing.Normalizer
	metrics    *infrastructure.PipelineMetrics
}

// NewNormalizeStep creates the normalize step
func NewNormalizeStep(normalizer *dataprocessing.Normalizer, metrics *infrastructure.PipelineMetrics) *NormalizeStep {
	return &NormalizeStep{
		BaseStage:  NewBaseStage(StepIDNormalize, StepNameNormalize, []string{StepIDLoad}),
		normalizer: normalizer,
		metrics:    metrics,
	}
}

// Validate requires a loaded table
func (s *NormalizeStep) Validate(state *OperationState) error {
	if _, ok := Artifact[*dataprocessing.Table](state, ContextKeyTable); !ok {
		return fmt.Errorf("no input table loaded")
	}
	return nil
}

// Execute normalizes every row of the table
func (s *NormalizeStep) Execute(ctx context.Context, state *OperationState) error {
	table, _ := Artifact[*dataprocessing.Table](state, ContextKeyTable)

	records, diag := s.normalizer.Normalize(ctx, table.Rows)
	if err := ctx.Err(); err != nil {
		return err
	}

	state.SetContext(ContextKeyRecords, records)
	state.SetContext(ContextKeyDiagnostics, diag)

	for _, status := range diag.SortedStatuses() {
		s.metrics.RecordRecords(ctx, status, int64(diag.StatusCounts[status]))
	}
	for field, n := range diag.MalformedDates {
		s.metrics.RecordMalformedDates(ctx, field, int64(n))
	}
	if st := state.GetStage(s.ID()); st != nil {
		st.SetMetadata("records", len(records))
		st.SetMetadata("malformed_dates", diag.TotalMalformed())
	}
	return nil
}

// AggregateStep reduces unit records to yearly additions and removals
type AggregateStep struct {
	BaseStage
	aggregator *dataprocessing.Aggregator
	metrics    *infrastructure.PipelineMetrics
}

// NewAggregateStep creates the aggregate step
func NewAggregateStep(aggregator *dataprocessing.Aggregator, metrics *infrastructure.PipelineMetrics) *AggregateStep {
	return &AggregateStep{
		BaseStage:  NewBaseStage(StepIDAggregate, StepNameAggregate, []string{StepIDNormalize}),
		aggregator: aggregator,
		metrics:    metrics,
	}
}

// Validate requires normalized records
func (s *AggregateStep) Validate(state *OperationState) error {
	if _, ok := Artifact[[]domain.UnitRecord](state, ContextKeyRecords); !ok {
		return fmt.Errorf("no normalized records")
	}
	return nil
}

// Execute builds both flow partitions
func (s *AggregateStep) Execute(ctx context.Context, state *OperationState) error {
	records, _ := Artifact[[]domain.UnitRecord](state, ContextKeyRecords)
	diag, _ := Artifact[*dataprocessing.Diagnostics](state, ContextKeyDiagnostics)

	flows, err := s.aggregator.Aggregate(ctx, records, diag)
	if err != nil {
		return err
	}
	state.SetContext(ContextKeyFlows, flows)

	if diag != nil {
		for kind, n := range diag.InconsistentRecords {
			s.metrics.RecordInconsistentRecords(ctx, kind, int64(n))
		}
	}
	if st := state.GetStage(s.ID()); st != nil {
		st.SetMetadata("addition_years", len(flows.Additions))
		st.SetMetadata("removal_years", len(flows.Removals))
	}
	return nil
}

// ReconcileStep builds the dense yearly series
type ReconcileStep struct {
	BaseStage
	reconciler *dataprocessing.Reconciler
}

// NewReconcileStep creates the reconcile step
func NewReconcileStep(reconciler *dataprocessing.Reconciler) *ReconcileStep {
	return &ReconcileStep{
		BaseStage:  NewBaseStage(StepIDReconcile, StepNameReconcile, []string{StepIDAggregate}),
		reconciler: reconciler,
	}
}

// Validate requires flows
func (s *ReconcileStep) Validate(state *OperationState) error {
	if _, ok := Artifact[*dataprocessing.Flows](state, ContextKeyFlows); !ok {
		return fmt.Errorf("no aggregated flows")
	}
	return nil
}

// Execute reconciles flows into the series
func (s *ReconcileStep) Execute(ctx context.Context, state *OperationState) error {
	records, _ := Artifact[[]domain.UnitRecord](state, ContextKeyRecords)
	flows, _ := Artifact[*dataprocessing.Flows](state, ContextKeyFlows)
	diag, _ := Artifact[*dataprocessing.Diagnostics](state, ContextKeyDiagnostics)

	series, err := s.reconciler.Reconcile(ctx, records, flows, diag)
	if err != nil {
		return err
	}
	state.SetContext(ContextKeySeries, series)

	if st := state.GetStage(s.ID()); st != nil {
		st.SetMetadata("years", series.Len())
	}
	return nil
}

// ExportTargets selects where the series is written
type ExportTargets struct {
	// Stdout, when set, receives the full series CSV instead of FullPath
	Stdout io.Writer

	FullPath   string
	CutoffPath string
	Cutoff     int

	// WorkbookPath, when set, also writes an XLSX workbook
	WorkbookPath string
}

// ExportStep writes the series files
type ExportStep struct {
	BaseStage
	series   *exporter.SeriesExporter
	workbook *exporter.WorkbookExporter
	targets  ExportTargets
}

// NewExportStep creates the export step. workbook may be nil.
func NewExportStep(series *exporter.SeriesExporter, workbook *exporter.WorkbookExporter, targets ExportTargets) *ExportStep {
	return &ExportStep{
		BaseStage: NewBaseStage(StepIDExport, StepNameExport, []string{StepIDReconcile}),
		series:    series,
		workbook:  workbook,
		targets:   targets,
	}
}

// Validate requires a reconciled series
func (s *ExportStep) Validate(state *OperationState) error {
	series, ok := Artifact[*domain.Series](state, ContextKeySeries)
	if !ok || series.Len() == 0 {
		return fmt.Errorf("no reconciled series")
	}
	return nil
}

// Execute writes every requested output
func (s *ExportStep) Execute(ctx context.Context, state *OperationState) error {
	series, _ := Artifact[*domain.Series](state, ContextKeySeries)

	var outputs []string
	if s.targets.Stdout != nil {
		if err := s.series.WriteTo(s.targets.Stdout, series.Rows); err != nil {
			return fmt.Errorf("failed to write series to stdout: %w", err)
		}
		outputs = append(outputs, "-")
	} else {
		written, err := s.series.Export(ctx, series, exporter.ExportOptions{
			FullPath:   s.targets.FullPath,
			CutoffPath: s.targets.CutoffPath,
			Cutoff:     s.targets.Cutoff,
		})
		outputs = append(outputs, written...)
		if err != nil {
			state.SetContext(ContextKeyOutputs, outputs)
			return err
		}
	}

	if s.workbook != nil && s.targets.WorkbookPath != "" {
		if err := s.workbook.Export(ctx, s.targets.WorkbookPath, series, s.targets.Cutoff); err != nil {
			state.SetContext(ContextKeyOutputs, outputs)
			return err
		}
		outputs = append(outputs, s.targets.WorkbookPath)
	}

	state.SetContext(ContextKeyOutputs, outputs)
	if st := state.GetStage(s.ID()); st != nil {
		st.SetMetadata("outputs", outputs)
	}
	return nil
}
