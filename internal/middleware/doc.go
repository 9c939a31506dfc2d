// Package middleware provides the HTTP middleware chain of the report server:
// request IDs, structured request logging, panic recovery, rate limiting,
// security headers and OpenTelemetry instrumentation.
package middleware
