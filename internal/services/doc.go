// Package services holds the application services behind the report server:
// running the pipeline, publishing its result and reporting health.
package services
