// Package app wires configuration, logging, telemetry, the reconciliation
// pipeline and the report server into one Application.
//
// A command builds the configuration, calls NewApplication, runs the pipeline
// once with RunPipeline and, when asked to, serves the published result with
// Serve until its context is cancelled. Stop flushes telemetry and closes the
// log file. Errors are returned to the caller, which decides the exit code.
package app
