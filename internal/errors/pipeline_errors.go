package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrEmptyInput is matched by every EmptyInputError
var ErrEmptyInput = stderrors.New("no record has a resolvable commissioning date")

// Is and As re-export the standard helpers so callers need a single errors import
var (
	Is = stderrors.Is
	As = stderrors.As
)

// EmptyInputError reports that no year axis can be built because no record
// carries a known commissioning date. It is fatal for a run.
type EmptyInputError struct {
	Records int
}

// Error implements the error interface
func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("cannot build year axis from %d records: %s", e.Records, ErrEmptyInput)
}

// Is makes errors.Is(err, ErrEmptyInput) hold
func (e *EmptyInputError) Is(target error) bool {
	return target == ErrEmptyInput
}

// Unwrap exposes the app error classification
func (e *EmptyInputError) Unwrap() error {
	return NewAppError(ErrTypeEmptyInput, "no resolvable years", nil)
}

// MalformedDateError describes a date field that could not be parsed.
// The normalizer recovers it locally and only counts it.
type MalformedDateError struct {
	Field string
	Value string
	Row   int
}

// Error implements the error interface
func (e *MalformedDateError) Error() string {
	return fmt.Sprintf("row %d: malformed date in %s: %q", e.Row, e.Field, e.Value)
}

// Inconsistency kinds reported by InconsistentRecordWarning
const (
	InconsistencyMissingDecommissioningDate = "decommissioned_without_date"
	InconsistencyUnexpectedDecommissioning  = "date_without_decommissioned_status"
)

// InconsistentRecordWarning flags a record whose status and decommissioning
// date disagree. It never aborts a run.
type InconsistentRecordWarning struct {
	Kind   string
	UnitID string
	Status string
}

// Error implements the error interface
func (w *InconsistentRecordWarning) Error() string {
	if w.UnitID != "" {
		return fmt.Sprintf("inconsistent record %s (status %q): %s", w.UnitID, w.Status, w.Kind)
	}
	return fmt.Sprintf("inconsistent record (status %q): %s", w.Status, w.Kind)
}
