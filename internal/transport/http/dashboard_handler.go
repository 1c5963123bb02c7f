package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "feedbackpulse/internal/errors"
	"feedbackpulse/internal/infrastructure"
	"feedbackpulse/internal/middleware"
)

// DashboardHandler serves the JSON dashboard API
type DashboardHandler struct {
	service      FeedbackServiceInterface
	validator    *middleware.Validator
	errorHandler *apierrors.ErrorHandler
	logger       *slog.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service FeedbackServiceInterface, validator *middleware.Validator, errorHandler *apierrors.ErrorHandler, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		validator:    validator,
		errorHandler: errorHandler,
		logger:       infrastructure.WithComponent(logger, "dashboard_handler"),
	}
}

// Routes returns the dashboard routes
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/dashboard", h.GetDashboard)
	r.Post("/dashboard/refresh", h.Refresh)
	r.Get("/specialists", h.GetSpecialists)
	r.Get("/comments", h.GetComments)

	return r
}

// GetDashboard handles GET /api/dashboard
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	query, err := parseDashboardQuery(r, h.validator)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	dash, err := h.service.Dashboard(r.Context(), query)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, buildDashboardView(dash, query.AllDates))
}

// Refresh handles POST /api/dashboard/refresh
func (h *DashboardHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	dropped := h.service.Invalidate(r.Context())
	h.logger.InfoContext(r.Context(), "dashboard refresh requested",
		slog.Bool("dropped", dropped))

	render.JSON(w, r, map[string]interface{}{
		"refreshed": true,
		"dropped":   dropped,
	})
}

// GetSpecialists handles GET /api/specialists
func (h *DashboardHandler) GetSpecialists(w http.ResponseWriter, r *http.Request) {
	specialists, err := h.service.Specialists(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if specialists == nil {
		specialists = []string{}
	}

	render.JSON(w, r, map[string]interface{}{
		"specialists": specialists,
		"count":       len(specialists),
	})
}

// GetComments handles GET /api/comments
func (h *DashboardHandler) GetComments(w http.ResponseWriter, r *http.Request) {
	query, err := parseDashboardQuery(r, h.validator)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	groups, err := h.service.Comments(r.Context(), query)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	resp := map[string]interface{}{
		"comments": groups,
		"count":    countComments(groups),
	}
	if len(groups) == 0 {
		resp["comments"] = []struct{}{}
		resp["message"] = NoCommentsMessage
	}
	render.JSON(w, r, resp)
}
