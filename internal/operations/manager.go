package operations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"solarstock/internal/infrastructure"
)

// Config holds execution settings for the manager
type Config struct {
	// StepTimeout bounds each step; zero disables the bound
	StepTimeout time.Duration
}

// NewConfig returns the default manager configuration: steps run unbounded
func NewConfig() *Config {
	return &Config{}
}

// Manager runs the registered steps of a pipeline one after another
type Manager struct {
	registry *Registry
	config   *Config
	tracer   *OperationTracer
	logger   *slog.Logger
}

// NewManager creates a manager over registry. metrics may be nil.
func NewManager(registry *Registry, metrics *infrastructure.PipelineMetrics, logger *slog.Logger) *Manager {
	if registry == nil {
		registry = NewRegistry()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		registry: registry,
		config:   NewConfig(),
		tracer:   NewOperationTracer(metrics),
		logger:   logger.With("component", "operation_manager"),
	}
}

// RegisterStage adds a step to the manager's registry
func (m *Manager) RegisterStage(step Step) error {
	return m.registry.Register(step)
}

// SetConfig replaces the execution settings
func (m *Manager) SetConfig(config *Config) {
	if config != nil {
		m.config = config
	}
}

// Execute runs every registered step in dependency order. The first failing
// step fails the run and every later step is skipped. The response is
// returned even on failure so callers can inspect step states and artifacts.
func (m *Manager) Execute(ctx context.Context, req OperationRequest) (*OperationResponse, error) {
	if req.ID == "" {
		req.ID = infrastructure.GenerateTraceID()
	}
	ctx = infrastructure.WithTraceID(ctx, req.ID)

	state := NewOperationState(req.ID)
	if req.InputPath != "" {
		state.SetContext(ContextKeyInputPath, req.InputPath)
	}

	steps, err := m.registry.GetDependencyOrder()
	if err != nil {
		state.Fail(err)
		return m.createResponse(state), NewFatalError("invalid step graph", err)
	}
	for _, step := range steps {
		state.SetStage(step.ID(), NewStepState(step.ID(), step.Name()))
	}

	ctx, span := m.tracer.TraceOperationExecution(ctx, req.ID, req)

	m.logger.InfoContext(ctx, "operation_started",
		slog.String("operation_id", req.ID),
		slog.Int("stage_count", len(steps)))
	state.Start()

	err = m.executeSequential(ctx, state, steps)
	switch {
	case err == nil:
		state.Complete()
	case GetErrorType(err) == ErrorTypeCancellation:
		state.Cancel(err)
	default:
		state.Fail(err)
	}
	m.tracer.RecordOperationCompletion(ctx, span, state.GetStatus(), err)

	m.logger.InfoContext(ctx, "operation_finished",
		slog.String("operation_id", req.ID),
		slog.String("status", string(state.GetStatus())),
		slog.Duration("duration", state.Duration()))

	return m.createResponse(state), err
}

// executeSequential executes steps one by one
func (m *Manager) executeSequential(ctx context.Context, state *OperationState, steps []Step) error {
	for i, step := range steps {
		select {
		case <-ctx.Done():
			m.logger.WarnContext(ctx, "operation_cancelled",
				slog.String("operation_id", state.ID),
				slog.String("step", step.ID()))
			m.skipRemaining(state, steps[i:], "operation cancelled")
			return NewCancellationError(step.ID())
		default:
		}

		m.logger.InfoContext(ctx, "executing_stage",
			slog.String("operation_id", state.ID),
			slog.String("step", step.ID()),
			slog.Int("stage_number", i+1),
			slog.Int("total_stages", len(steps)))

		if err := m.executeStage(ctx, state, step); err != nil {
			m.logger.ErrorContext(ctx, "stage_failed",
				slog.String("operation_id", state.ID),
				slog.String("step", step.ID()),
				slog.String("error", err.Error()))
			m.skipRemaining(state, steps[i+1:], fmt.Sprintf("previous step %s failed", step.ID()))
			return err
		}
	}
	return nil
}

// executeStage executes a single step inside its own span
func (m *Manager) executeStage(ctx context.Context, state *OperationState, step Step) error {
	stepState := state.GetStage(step.ID())
	if stepState == nil {
		return NewFatalError("step state not found", nil)
	}

	if err := m.checkDependencies(state, step); err != nil {
		stepState.Skip(err.Error())
		return err
	}

	if err := step.Validate(state); err != nil {
		verr := NewValidationError(step.ID(), err.Error())
		stepState.Fail(verr)
		return verr
	}

	stageCtx := ctx
	if m.config.StepTimeout > 0 {
		var cancel context.CancelFunc
		stageCtx, cancel = context.WithTimeout(ctx, m.config.StepTimeout)
		defer cancel()
	}
	stageCtx, span := m.tracer.TraceStageExecution(stageCtx, state.ID, step.ID())

	stepState.Start()
	err := step.Execute(stageCtx, state)
	if err != nil && errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		err = NewTimeoutError(step.ID(), m.config.StepTimeout.String())
	} else if err != nil {
		err = WrapError(err, step.ID(), "")
	}

	if err != nil {
		stepState.Fail(err)
	} else {
		stepState.Complete()
	}
	m.tracer.RecordStageCompletion(stageCtx, span, step.ID(), stepState.Duration(), err)

	m.logger.DebugContext(ctx, "stage_finished",
		slog.String("operation_id", state.ID),
		slog.String("step", step.ID()),
		slog.String("status", string(stepState.GetStatus())),
		slog.Duration("duration", stepState.Duration()))

	return err
}

// checkDependencies ensures every dependency of step completed
func (m *Manager) checkDependencies(state *OperationState, step Step) error {
	for _, dep := range step.GetDependencies() {
		depState := state.GetStage(dep)
		if depState == nil || depState.GetStatus() != StepStatusCompleted {
			return NewDependencyError(step.ID(), dep, fmt.Sprintf("dependency %s not completed", dep))
		}
	}
	return nil
}

// skipRemaining marks every pending step in steps as skipped
func (m *Manager) skipRemaining(state *OperationState, steps []Step, reason string) {
	for _, step := range steps {
		if s := state.GetStage(step.ID()); s != nil && s.GetStatus() == StepStatusPending {
			s.Skip(reason)
			m.logger.Info("stage_skipped",
				slog.String("operation_id", state.ID),
				slog.String("step", step.ID()),
				slog.String("reason", reason))
		}
	}
}

func (m *Manager) createResponse(state *OperationState) *OperationResponse {
	resp := &OperationResponse{
		ID:       state.ID,
		Status:   state.GetStatus(),
		Duration: state.Duration(),
		Steps:    state.Steps,
		State:    state,
	}
	if state.Error != nil {
		resp.Error = state.Error.Error()
	}
	return resp
}
