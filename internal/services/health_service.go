package services

import (
	"context"
	"runtime"
	"time"
)

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Services  map[string]ServiceHealth `json:"services,omitempty"`
	Runtime   map[string]interface{}   `json:"runtime,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthService reports server health
type HealthService struct {
	version   string
	reports   *ReportService
	startTime time.Time
}

// NewHealthService creates a health service reporting on reports
func NewHealthService(version string, reports *ReportService) *HealthService {
	return &HealthService{
		version:   version,
		reports:   reports,
		startTime: time.Now(),
	}
}

// HealthCheck returns overall health. The server is "ok" once a report is published.
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Version:   hs.version,
		Services:  make(map[string]ServiceHealth),
		Runtime: map[string]interface{}{
			"uptime_seconds": time.Since(hs.startTime).Seconds(),
			"go_version":     runtime.Version(),
			"goroutines":     runtime.NumGoroutine(),
		},
	}

	if hs.reports != nil && hs.reports.Ready() {
		status.Services["report"] = ServiceHealth{Status: "ready"}
	} else {
		status.Status = "degraded"
		status.Services["report"] = ServiceHealth{Status: "not_ready", Message: "no report published"}
	}
	return status
}
