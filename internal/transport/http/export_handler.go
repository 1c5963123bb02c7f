package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	apierrors "feedbackpulse/internal/errors"
	"feedbackpulse/internal/exporter"
	"feedbackpulse/internal/infrastructure"
	"feedbackpulse/internal/middleware"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeCSV  = "text/csv; charset=utf-8"
)

// ExportHandler serves the summary downloads
type ExportHandler struct {
	service      FeedbackServiceInterface
	validator    *middleware.Validator
	errorHandler *apierrors.ErrorHandler
	metrics      *infrastructure.BusinessMetrics
	logger       *slog.Logger
	now          func() time.Time
}

// NewExportHandler creates a new export handler. metrics may be nil.
func NewExportHandler(service FeedbackServiceInterface, validator *middleware.Validator, errorHandler *apierrors.ErrorHandler, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		service:      service,
		validator:    validator,
		errorHandler: errorHandler,
		metrics:      metrics,
		logger:       infrastructure.WithComponent(logger, "export_handler"),
		now:          time.Now,
	}
}

// Routes returns the export routes
func (h *ExportHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/summary.xlsx", h.SummaryXLSX)
	r.Get("/summary.csv", h.SummaryCSV)
	return r
}

// SummaryXLSX handles GET /api/export/summary.xlsx
func (h *ExportHandler) SummaryXLSX(w http.ResponseWriter, r *http.Request) {
	view, ok := h.loadView(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	err := exporter.WriteWorkbook(&buf, exporter.Workbook{
		KPIs:     view.KPIs,
		Rows:     view.Summary,
		Comments: view.Comments,
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.NewStorageError("build summary workbook", err))
		return
	}

	h.send(w, r, "xlsx", contentTypeXLSX, buf.Bytes())
}

// SummaryCSV handles GET /api/export/summary.csv
func (h *ExportHandler) SummaryCSV(w http.ResponseWriter, r *http.Request) {
	view, ok := h.loadView(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := exporter.WriteSummaryCSV(&buf, view.Summary, exporter.CSVOptions{BOMPrefix: true}); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.NewStorageError("build summary csv", err))
		return
	}

	h.send(w, r, "csv", contentTypeCSV, buf.Bytes())
}

func (h *ExportHandler) loadView(w http.ResponseWriter, r *http.Request) (DashboardView, bool) {
	query, err := parseDashboardQuery(r, h.validator)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return DashboardView{}, false
	}

	dash, err := h.service.Dashboard(r.Context(), query)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return DashboardView{}, false
	}

	return buildDashboardView(dash, query.AllDates), true
}

func (h *ExportHandler) send(w http.ResponseWriter, r *http.Request, format, contentType string, body []byte) {
	filename := fmt.Sprintf("resumo_especialistas_%s.%s", h.now().Format("20060102"), format)

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(body); err != nil {
		h.logger.WarnContext(r.Context(), "export write failed",
			slog.String("format", format),
			slog.String("error", err.Error()))
		return
	}

	infrastructure.RecordExport(r.Context(), h.metrics, format)
	h.logger.InfoContext(r.Context(), "summary exported",
		slog.String("format", format),
		slog.Int("bytes", len(body)))
}
