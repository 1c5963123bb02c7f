package http

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"math"
	"net/http"

	apierrors "feedbackpulse/internal/errors"
	"feedbackpulse/internal/infrastructure"
	"feedbackpulse/internal/middleware"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(template.New("pages").Funcs(template.FuncMap{
	"barWidth": barWidth,
}).ParseFS(templateFS, "templates/*.html"))

// Page titles.
const (
	DashboardTitle = "Pesquisa de Satisfação - Reuniões"
	ChartTitle     = "% Avaliada por Especialista"
)

// HTMLHandler renders the server-side dashboard page
type HTMLHandler struct {
	service      FeedbackServiceInterface
	validator    *middleware.Validator
	errorHandler *apierrors.ErrorHandler
	logger       *slog.Logger
}

// NewHTMLHandler creates a new page handler
func NewHTMLHandler(service FeedbackServiceInterface, validator *middleware.Validator, errorHandler *apierrors.ErrorHandler, logger *slog.Logger) *HTMLHandler {
	return &HTMLHandler{
		service:      service,
		validator:    validator,
		errorHandler: errorHandler,
		logger:       infrastructure.WithComponent(logger, "html_handler"),
	}
}

type dashboardPage struct {
	Title             string
	ChartTitle        string
	View              DashboardView
	XLSXHref          template.URL
	CSVHref           template.URL
	NoDataMessage     string
	NoCommentsMessage string
}

type errorPage struct {
	Title  string
	Status int
	Detail string
	Trace  string
}

// Dashboard handles GET /
func (h *HTMLHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	query, err := parseDashboardQuery(r, h.validator)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	dash, err := h.service.Dashboard(r.Context(), query)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "dashboard.html", dashboardPage{
		Title:             DashboardTitle,
		ChartTitle:        ChartTitle,
		View:              buildDashboardView(dash, query.AllDates),
		XLSXHref:          exportHref("/api/export/summary.xlsx", r),
		CSVHref:           exportHref("/api/export/summary.csv", r),
		NoDataMessage:     NoDataMessage,
		NoCommentsMessage: NoCommentsMessage,
	})
}

func (h *HTMLHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	problem := h.errorHandler.ErrorToProblem(err, r)

	h.logger.ErrorContext(r.Context(), "dashboard page failed",
		slog.String("error", err.Error()),
		slog.Int("status", problem.Status),
		slog.String("type", problem.Type))

	page := errorPage{
		Title:  problem.Title,
		Status: problem.Status,
		Detail: problem.Detail,
		Trace:  middleware.GetReqID(r.Context()),
	}
	h.render(w, r, problem.Status, "error.html", page)
}

func (h *HTMLHandler) render(w http.ResponseWriter, r *http.Request, status int, name string, data interface{}) {
	var buf bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		h.logger.ErrorContext(r.Context(), "template render failed",
			slog.String("template", name),
			slog.String("error", err.Error()))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// exportHref carries the current filter over to a download link
func exportHref(path string, r *http.Request) template.URL {
	if r.URL.RawQuery == "" {
		return template.URL(path)
	}
	return template.URL(path + "?" + r.URL.Query().Encode())
}

// barWidth clamps a percentage to [0, 100] for the chart bars
func barWidth(rate float64) float64 {
	if math.IsNaN(rate) {
		return 0
	}
	return math.Max(0, math.Min(100, rate))
}
