package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apperrors "solarstock/internal/errors"
	"solarstock/internal/exporter"
	"solarstock/pkg/contracts/domain"
)

// seriesQuery holds the validated query parameters of the series endpoints
type seriesQuery struct {
	From int `validate:"omitempty,min=1800,max=2200"`
}

// SeriesResponse is the JSON form of a (possibly sliced) series
type SeriesResponse struct {
	RunID        string           `json:"run_id"`
	Source       string           `json:"source"`
	MinYear      int              `json:"min_year"`
	MaxYear      int              `json:"max_year"`
	From         int              `json:"from,omitempty"`
	DownloadDate domain.Date      `json:"download_date"`
	Count        int              `json:"count"`
	Rows         []domain.YearRow `json:"rows"`
}

// ReportHandler serves the series and the run report
type ReportHandler struct {
	service      ReportServiceInterface
	exporter     *exporter.SeriesExporter
	validate     *validator.Validate
	logger       *slog.Logger
	errorHandler *apperrors.ErrorHandler
}

// NewReportHandler creates a report handler. csv formats the CSV endpoint.
func NewReportHandler(service ReportServiceInterface, csv *exporter.SeriesExporter, logger *slog.Logger, errorHandler *apperrors.ErrorHandler) *ReportHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportHandler{
		service:      service,
		exporter:     csv,
		validate:     validator.New(),
		logger:       logger.With(slog.String("component", "report_handler")),
		errorHandler: errorHandler,
	}
}

// RegisterRoutes adds the report routes to r
func (h *ReportHandler) RegisterRoutes(r chi.Router) {
	r.Get("/series", h.GetSeries)
	r.Get("/series.csv", h.GetSeriesCSV)
	r.Get("/diagnostics", h.GetDiagnostics)
}

// parseSeriesQuery reads and validates ?from=YYYY
func (h *ReportHandler) parseSeriesQuery(r *http.Request) (seriesQuery, error) {
	var q seriesQuery
	if raw := r.URL.Query().Get("from"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return q, apperrors.NewAppValidationError(fmt.Sprintf("from must be a year, got %q", raw))
		}
		q.From = year
	}
	if err := h.validate.Struct(q); err != nil {
		return q, apperrors.NewAppValidationError(fmt.Sprintf("from must be between 1800 and 2200, got %d", q.From))
	}
	return q, nil
}

// GetSeries handles GET /api/series
func (h *ReportHandler) GetSeries(w http.ResponseWriter, r *http.Request) {
	q, err := h.parseSeriesQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	report, rows, err := h.service.Series(q.From)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.DebugContext(r.Context(), "serving series",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.Int("from", q.From),
		slog.Int("rows", len(rows)))

	if rows == nil {
		rows = []domain.YearRow{}
	}
	render.JSON(w, r, SeriesResponse{
		RunID:        report.RunID,
		Source:       report.Source,
		MinYear:      report.Series.MinYear,
		MaxYear:      report.Series.MaxYear,
		From:         q.From,
		DownloadDate: report.Series.DownloadDate,
		Count:        len(rows),
		Rows:         rows,
	})
}

// GetSeriesCSV handles GET /api/series.csv
func (h *ReportHandler) GetSeriesCSV(w http.ResponseWriter, r *http.Request) {
	q, err := h.parseSeriesQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	_, rows, err := h.service.Series(q.From)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	// encode first so a failure can still become a problem response
	var buf bytes.Buffer
	if err := h.exporter.WriteTo(&buf, rows); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	filename := "yearly.csv"
	if q.From != 0 {
		filename = fmt.Sprintf("yearly_since_%d.csv", q.From)
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// GetDiagnostics handles GET /api/diagnostics
func (h *ReportHandler) GetDiagnostics(w http.ResponseWriter, r *http.Request) {
	diag, err := h.service.Diagnostics()
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, diag)
}
