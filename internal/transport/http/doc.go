// Package http serves the latest reconciliation result read-only.
//
// Handlers stay thin: they parse and validate the request, ask the report
// service for data and render JSON or CSV. Errors are rendered as RFC 7807
// problem details through the shared error handler.
//
// Routes:
//
//	GET /api/health
//	GET /api/series[?from=YYYY]
//	GET /api/series.csv[?from=YYYY]
//	GET /api/diagnostics
//	GET /metrics
package http
