package http

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"solarstock/internal/config"
	apperrors "solarstock/internal/errors"
	"solarstock/internal/exporter"
	"solarstock/internal/infrastructure"
	customMiddleware "solarstock/internal/middleware"
	"solarstock/internal/services"
)

// RouterOptions wires the report server
type RouterOptions struct {
	Reports   *services.ReportService
	Health    *services.HealthService
	Exporter  *exporter.SeriesExporter
	RateLimit config.RateLimitConfig
	Providers *infrastructure.OTelProviders
	Logger    *slog.Logger
}

// NewRouter builds the chi router. Middleware order: RequestID, RealIP, OTel,
// logger, recoverer, security headers, rate limit.
func NewRouter(opts RouterOptions) *chi.Mux {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	errorHandler := apperrors.NewErrorHandler(logger, false)

	r := chi.NewRouter()
	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	r.Group(func(r chi.Router) {
		otelMiddleware, err := customMiddleware.NewOTelMiddleware(opts.Providers)
		if err != nil {
			logger.Error("Failed to create OpenTelemetry middleware", slog.String("error", err.Error()))
		} else {
			r.Use(otelMiddleware.Handler)
		}
		r.Use(customMiddleware.StructuredLogger(logger))
		r.Use(customMiddleware.Recoverer(errorHandler))
		r.Use(customMiddleware.SecurityHeaders)
		if opts.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(opts.RateLimit.RPS, opts.RateLimit.Burst, logger).Handler)
		}

		r.Route("/api", func(r chi.Router) {
			r.Use(render.SetContentType(render.ContentTypeJSON))

			healthHandler := NewHealthHandler(opts.Health, logger)
			r.Get("/health", healthHandler.HealthCheck)

			reportHandler := NewReportHandler(opts.Reports, opts.Exporter, logger, errorHandler)
			reportHandler.RegisterRoutes(r)
		})
	})

	// Prometheus metrics endpoint, outside the middleware group
	if opts.Providers != nil && opts.Providers.PrometheusHTTP != nil {
		r.Handle("/metrics", opts.Providers.PrometheusHTTP)
	}

	return r
}
