// Package operations runs a reconciliation as a sequence of steps.
//
// The steps load, normalize, aggregate, reconcile and export are registered
// in a Registry and executed in dependency order by a Manager. Artifacts pass
// between steps through the OperationState context. The first failing step
// fails the run and every later step is skipped, so a run that cannot build a
// series never writes output.
package operations
