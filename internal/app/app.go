package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"

	"feedbackpulse/internal/config"
	apierrors "feedbackpulse/internal/errors"
	"feedbackpulse/internal/infrastructure"
	customMiddleware "feedbackpulse/internal/middleware"
	"feedbackpulse/internal/services"
	"feedbackpulse/internal/source"
	handlers "feedbackpulse/internal/transport/http"
	"feedbackpulse/pkg/contracts"
)

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.BusinessMetrics
	ErrorHandler  *apierrors.ErrorHandler
	Validator     *customMiddleware.Validator
	Services      *ServiceContainer
}

// ServiceContainer holds all application services
type ServiceContainer struct {
	Cache    *services.DatasetCache
	Feedback *services.FeedbackService
	Health   *services.HealthService
}

// NewApplication loads configuration, initializes the global logger and
// builds the application.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return New(cfg, logger)
}

// New builds the application from an already validated configuration
func New(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	logger.Info("Application starting",
		slog.String("name", contracts.AppName),
		slog.String("version", contracts.Version),
		slog.String("source_kind", cfg.Source.Kind),
		slog.String("source", cfg.Source.Location()))

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.CreateBusinessMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
		ErrorHandler:  apierrors.NewErrorHandler(logger, cfg.Telemetry.Environment == "development"),
		Validator:     customMiddleware.NewValidator(logger),
	}

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices initializes all application services
func (a *Application) initializeServices() error {
	fetcher, err := source.New(a.Config.Source, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create source fetcher: %w", err)
	}

	cache := services.NewDatasetCache(a.Config.Source.CacheTTL, a.Config.Source.MaxCacheEntries)
	feedback := services.NewFeedbackService(fetcher, cache, a.Metrics, a.Logger).
		WithFetchTimeout(a.Config.Source.FetchTimeout)

	a.Services = &ServiceContainer{
		Cache:    cache,
		Feedback: feedback,
		Health:   services.NewHealthService(contracts.Version, contracts.BuildTime, contracts.GitCommit, feedback, a.Logger),
	}

	a.Logger.Info("Services initialized",
		slog.String("cache_ttl", a.Config.Source.CacheTTL.String()),
		slog.Int("max_cache_entries", a.Config.Source.MaxCacheEntries))

	return nil
}

// setupRouter wires middleware and routes.
// Ordering: RequestID → RealIP → Logger → Recoverer → OTel → headers → Timeout
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(apierrors.RecoveryMiddleware(a.ErrorHandler))

	otelMiddleware, err := customMiddleware.NewOTelMiddleware(a.OTelProviders, a.Metrics)
	if err != nil {
		a.Logger.Error("Failed to create OpenTelemetry middleware", slog.String("error", err.Error()))
	} else {
		r.Use(otelMiddleware.Handler)
	}

	r.Use(customMiddleware.DefaultSecureHeaders().Handler)
	r.Use(customMiddleware.StripSlashes)

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	feedback := a.Services.Feedback
	dashboardHandler := handlers.NewDashboardHandler(feedback, a.Validator, a.ErrorHandler, a.Logger)
	exportHandler := handlers.NewExportHandler(feedback, a.Validator, a.ErrorHandler, a.Metrics, a.Logger)
	htmlHandler := handlers.NewHTMLHandler(feedback, a.Validator, a.ErrorHandler, a.Logger)
	healthHandler := handlers.NewHealthHandler(a.Services.Health, a.Logger)

	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.Timeout(a.Config.Server.WriteTimeout))
		r.Use(customMiddleware.Compress(5))

		r.Get("/", htmlHandler.Dashboard)

		r.Route("/api", func(r chi.Router) {
			// health stays reachable when the limiter trips
			r.Mount("/health", healthHandler.Routes())
			r.Get("/version", healthHandler.Version)

			r.Group(func(r chi.Router) {
				if a.Config.Security.RateLimit.Enabled {
					r.Use(customMiddleware.NewRateLimiter(
						a.Config.Security.RateLimit.RPS,
						a.Config.Security.RateLimit.Burst,
						a.Logger,
						a.ErrorHandler,
					).Handler)
				}

				r.Mount("/export", exportHandler.Routes())
				r.Mount("/", dashboardHandler.Routes())
			})
		})
	})

	a.Router = r
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Start starts the HTTP server and warms the dataset cache in the background
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", contracts.AppName),
		slog.String("version", contracts.Version),
		slog.Int("port", a.Config.Server.Port),
		slog.String("level", a.Config.Logging.Level))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	go a.warmUp(ctx)

	a.Logger.InfoContext(ctx, "Application started successfully",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))

	return nil
}

// warmUp loads the survey once so the first page view is served from cache.
// A failure is only logged; readiness reports it until a load succeeds.
func (a *Application) warmUp(ctx context.Context) error {
	ctx = infrastructure.EnsureTraceID(ctx)
	dataset, err := a.Services.Feedback.Load(ctx)
	if err != nil {
		a.Logger.WarnContext(ctx, "Startup load failed, will retry on first request",
			slog.String("error", err.Error()))
		return err
	}

	a.Logger.InfoContext(ctx, "Startup load complete",
		slog.Int("rows", dataset.Len()),
		slog.Int("cell_failures", dataset.CellFailures))
	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	a.Services.Cache.Stop()

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")

	if err := infrastructure.CloseLogFile(); err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}
	return nil
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case sig := <-sigChan:
		a.Logger.InfoContext(ctx, "Received interrupt signal", slog.String("signal", sig.String()))
	case <-ctx.Done():
		a.Logger.WarnContext(ctx, "Server stopped unexpectedly")
	}

	return a.Stop(context.Background())
}
