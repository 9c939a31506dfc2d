package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"solarstock/internal/config"
	"solarstock/internal/exporter"
	"solarstock/internal/infrastructure"
	"solarstock/internal/operations"
	"solarstock/internal/services"
	handlers "solarstock/internal/transport/http"
)

// Options adjust an application beyond its configuration
type Options struct {
	// Stdout, when set, receives the full series CSV instead of the reports directory
	Stdout io.Writer
	// Logger replaces the global logger built from the configuration
	Logger *slog.Logger
}

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Paths         *config.Paths
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.PipelineMetrics

	Reports    *services.ReportService
	Operations *services.OperationService
	Health     *services.HealthService

	Router *chi.Mux
	Server *http.Server
}

// NewApplication wires every component from cfg
func NewApplication(cfg *config.Config, opts Options) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}

	paths, err := cfg.ResolvePaths()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logCfg := cfg.Logging
		logCfg.FilePath = paths.GetLogPath(logCfg.FilePath)
		if logCfg.Output != "console" {
			if err := paths.EnsureDirectories(); err != nil {
				return nil, fmt.Errorf("failed to ensure directories: %w", err)
			}
		}
		logger, err = infrastructure.InitializeLogger(logCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
	}

	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion),
		slog.String("region", cfg.Pipeline.Region))
	paths.LogPathResolution(logger)

	providers, err := infrastructure.InitializeOTel(cfg.Telemetry, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.NewPipelineMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}

	manager, err := operations.NewPipeline(operations.PipelineOptions{
		Paths:    paths,
		Pipeline: cfg.Pipeline,
		Stdout:   opts.Stdout,
		Metrics:  metrics,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build pipeline: %w", err)
	}

	reports := services.NewReportService(logger)
	a := &Application{
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: providers,
		Metrics:       metrics,
		Reports:       reports,
		Operations:    services.NewOperationService(manager, reports, logger),
		Health:        services.NewHealthService(config.AppVersion, reports),
	}

	a.setupRouter()
	a.createServer()

	return a, nil
}

// setupRouter configures the HTTP router of the report server
func (a *Application) setupRouter() {
	a.Router = handlers.NewRouter(handlers.RouterOptions{
		Reports:   a.Reports,
		Health:    a.Health,
		Exporter:  exporter.NewSeriesExporter(a.Paths, a.Config.Pipeline.CapacityPrecision, a.Logger),
		RateLimit: a.Config.Server.RateLimit,
		Providers: a.OTelProviders,
		Logger:    a.Logger,
	})
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         a.Config.Server.Addr,
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
	}
}

// RunPipeline executes one reconciliation over the configured input. The
// result is published for the report server when the run succeeds.
func (a *Application) RunPipeline(ctx context.Context) (*operations.OperationResponse, error) {
	resp, err := a.Operations.Run(ctx, operations.OperationRequest{
		InputPath: a.Config.Paths.InputFile,
	})
	if err != nil {
		return resp, err
	}

	outputs, _ := operations.Artifact[[]string](resp.State, operations.ContextKeyOutputs)
	a.Logger.InfoContext(infrastructure.WithTraceID(ctx, resp.ID), "Reconciliation completed",
		slog.String("run_id", resp.ID),
		slog.Any("outputs", outputs),
		slog.Duration("duration", resp.Duration))
	return resp, nil
}

// Serve runs the report server until ctx is cancelled, then shuts it down gracefully
func (a *Application) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}
	return a.ServeListener(ctx, ln)
}

// ServeListener is Serve on an existing listener
func (a *Application) ServeListener(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		a.Logger.InfoContext(ctx, "Report server listening", slog.String("address", ln.Addr().String()))
		if err := a.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		a.Logger.InfoContext(ctx, "Shutting down report server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	return nil
}

// Stop flushes telemetry and closes the log file
func (a *Application) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.shutdownTimeout())
	defer cancel()

	var errs []error
	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := infrastructure.CloseLogFile(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (a *Application) shutdownTimeout() time.Duration {
	if a.Config.Server.ShutdownTimeout > 0 {
		return a.Config.Server.ShutdownTimeout
	}
	return config.DefaultShutdownTimeout
}
