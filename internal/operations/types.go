package operations

import (
	"time"
)

// Step identifiers, in pipeline order
const (
	StepIDLoad      = "load"
	StepIDNormalize = "normalize"
	StepIDAggregate = "aggregate"
	StepIDReconcile = "reconcile"
	StepIDExport    = "export"
)

// Step names
const (
	StepNameLoad      = "Load Extract"
	StepNameNormalize = "Normalize Records"
	StepNameAggregate = "Aggregate Annual Flows"
	StepNameReconcile = "Reconcile Series"
	StepNameExport    = "Export Series"
)

// Context keys for artifacts passed between steps
const (
	ContextKeyInputPath   = "input_path"
	ContextKeyTable       = "table"
	ContextKeyRecords     = "records"
	ContextKeyDiagnostics = "diagnostics"
	ContextKeyFlows       = "flows"
	ContextKeySeries      = "series"
	ContextKeyOutputs     = "outputs"
)

// OperationRequest represents a request to execute a pipeline run
type OperationRequest struct {
	ID string `json:"id"`
	// InputPath overrides snapshot discovery when set
	InputPath string `json:"input_path,omitempty"`
}

// OperationResponse represents the outcome of a pipeline run
type OperationResponse struct {
	ID       string                `json:"id"`
	Status   OperationStatusValue  `json:"status"`
	Duration time.Duration         `json:"duration"`
	Steps    map[string]*StepState `json:"steps"`
	Error    string                `json:"error,omitempty"`

	// State carries the artifacts of the run
	State *OperationState `json:"-"`
}
