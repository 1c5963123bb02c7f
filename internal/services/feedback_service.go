package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"feedbackpulse/internal/config"
	"feedbackpulse/internal/dataprocessing"
	apperrors "feedbackpulse/internal/errors"
	"feedbackpulse/internal/infrastructure"
	"feedbackpulse/internal/source"
	"feedbackpulse/pkg/contracts/domain"
)

// DashboardQuery is a validated dashboard request.
//
// A nil Specialists slice selects everyone; a non-nil empty one selects no
// one. Without From and To the loaded date span is used unless AllDates is
// set.
type DashboardQuery struct {
	From        *time.Time
	To          *time.Time
	Specialists []string
	AllDates    bool
}

// Dashboard is everything one dashboard view needs
type Dashboard struct {
	Source   string    `json:"source"`
	LoadedAt time.Time `json:"loaded_at"`

	// Range is the date interval actually applied.
	Range domain.DateRange `json:"range"`

	// DataRange spans the known dates of the whole dataset.
	DataRange domain.DateRange `json:"data_range"`

	// Available lists every specialist of the dataset; Selected is the
	// filter that was applied, nil meaning all.
	Available []string `json:"available_specialists"`
	Selected  []string `json:"selected_specialists"`

	Responses int                                 `json:"responses"`
	KPIs      domain.KPIs                         `json:"kpis"`
	Summary   map[string]domain.SpecialistSummary `json:"summary"`
	Comments  []domain.CommentGroup               `json:"comments"`
}

// IsEmpty reports whether the filter left nothing to show
func (d *Dashboard) IsEmpty() bool {
	return d.Responses == 0
}

// SourceStatus describes the last load of the survey source
type SourceStatus struct {
	Location  string     `json:"location"`
	Cached    bool       `json:"cached"`
	LoadedAt  *time.Time `json:"loaded_at,omitempty"`
	Rows      int        `json:"rows"`
	LastError string     `json:"last_error,omitempty"`
	Cache     CacheStats `json:"cache"`
}

// FeedbackService loads the survey through a Fetcher and serves filtered
// aggregates over the cached dataset.
type FeedbackService struct {
	fetcher source.Fetcher
	parser  *dataprocessing.Parser
	cache   *DatasetCache
	group   singleflight.Group
	metrics *infrastructure.BusinessMetrics
	logger  *slog.Logger

	fetchTimeout time.Duration

	mu        sync.RWMutex
	lastError error
}

// NewFeedbackService creates a feedback service. metrics may be nil.
func NewFeedbackService(fetcher source.Fetcher, cache *DatasetCache, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *FeedbackService {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("service", "feedback"))

	logger.Info("FeedbackService initialized",
		slog.String("source", fetcher.Location()),
		slog.Float64("cache_ttl_seconds", cache.GetStats().TTLSeconds))

	return &FeedbackService{
		fetcher: fetcher,
		parser:  dataprocessing.NewParser(logger),
		cache:   cache,
		metrics: metrics,
		logger:  logger,

		fetchTimeout: config.DefaultFetchTimeout,
	}
}

// WithFetchTimeout bounds every source fetch by d
func (s *FeedbackService) WithFetchTimeout(d time.Duration) *FeedbackService {
	if d > 0 {
		s.fetchTimeout = d
	}
	return s
}

// Load returns the cleaned dataset, fetching it when the cache has no live
// entry. Concurrent callers missing the cache share one fetch.
func (s *FeedbackService) Load(ctx context.Context) (*domain.Dataset, error) {
	key := s.fetcher.Location()

	if dataset, ok := s.cache.Get(key); ok {
		infrastructure.RecordCacheLookup(ctx, s.metrics, true)
		return dataset, nil
	}
	infrastructure.RecordCacheLookup(ctx, s.metrics, false)

	ch := s.group.DoChan(key, func() (interface{}, error) {
		if entry, ok := s.cache.Peek(key); ok {
			return entry.Dataset, nil
		}
		// the shared fetch outlives any single caller
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.fetchTimeout)
		defer cancel()
		return s.fetchAndParse(fetchCtx, key)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*domain.Dataset), nil
	}
}

func (s *FeedbackService) fetchAndParse(ctx context.Context, key string) (*domain.Dataset, error) {
	ctx, span := otel.Tracer(infrastructure.MeterName).Start(ctx, "feedback.load",
		trace.WithAttributes(attribute.String("source.location", key)))
	defer span.End()

	start := time.Now()
	logger := s.logger.With(slog.String("source", key))

	records, err := s.fetcher.Fetch(ctx)
	if err == nil {
		infrastructure.AddSpanEvent(ctx, "source.fetched", attribute.Int("records", len(records)))
	}

	var dataset *domain.Dataset
	if err == nil {
		dataset, err = s.parser.Parse(ctx, records, key)
		if err != nil {
			err = apperrors.NewParsingError("clean survey table", fmt.Errorf("%w: %w", source.ErrFetchFailed, err)).
				WithContext("location", key)
		}
	}

	elapsed := time.Since(start)
	if err != nil {
		s.setLastError(err)
		infrastructure.RecordError(ctx, err)
		infrastructure.RecordSourceLoad(ctx, s.metrics, key, elapsed, 0, 0, err)
		logger.ErrorContext(ctx, "survey load failed",
			slog.String("error", err.Error()),
			slog.Duration("elapsed", elapsed))
		return nil, err
	}

	s.setLastError(nil)
	s.cache.Set(key, dataset)
	infrastructure.RecordSourceLoad(ctx, s.metrics, key, elapsed, dataset.Len(), dataset.CellFailures, nil)
	span.SetAttributes(attribute.Int("dataset.rows", dataset.Len()))

	logger.InfoContext(ctx, "survey loaded",
		slog.Int("rows", dataset.Len()),
		slog.Int("cell_failures", dataset.CellFailures),
		slog.Duration("elapsed", elapsed))

	return dataset, nil
}

// Dashboard filters the dataset and computes every view of the dashboard
func (s *FeedbackService) Dashboard(ctx context.Context, query DashboardQuery) (*Dashboard, error) {
	if query.From != nil && query.To != nil && dataprocessing.CalendarDate(*query.From).After(dataprocessing.CalendarDate(*query.To)) {
		return nil, apperrors.NewAppValidationError(
			fmt.Sprintf("from %s is after to %s", query.From.Format("2006-01-02"), query.To.Format("2006-01-02")),
			ErrInvalidFilter)
	}

	dataset, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	bounds := dataprocessing.DateBounds(dataset.Responses)
	effective := domain.DateRange{From: query.From, To: query.To}
	if effective.IsZero() && !query.AllDates {
		effective = bounds
	}

	filtered := dataprocessing.Filter(dataset.Responses, dataprocessing.FilterOptions{
		From:        effective.From,
		To:          effective.To,
		Specialists: query.Specialists,
	})

	s.logger.DebugContext(ctx, "dashboard computed",
		slog.Int("responses", len(filtered)),
		slog.Int("total", dataset.Len()))

	return &Dashboard{
		Source:    dataset.Source,
		LoadedAt:  dataset.LoadedAt,
		Range:     effective,
		DataRange: bounds,
		Available: dataprocessing.DistinctSpecialists(dataset.Responses),
		Selected:  query.Specialists,
		Responses: len(filtered),
		KPIs:      dataprocessing.ComputeKPIs(filtered),
		Summary:   dataprocessing.SummarizeBySpecialist(filtered),
		Comments:  dataprocessing.ExtractComments(filtered),
	}, nil
}

// Specialists returns the distinct specialists of the loaded dataset
func (s *FeedbackService) Specialists(ctx context.Context) ([]string, error) {
	dataset, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return dataprocessing.DistinctSpecialists(dataset.Responses), nil
}

// Comments returns the comment feed for query
func (s *FeedbackService) Comments(ctx context.Context, query DashboardQuery) ([]domain.CommentGroup, error) {
	dash, err := s.Dashboard(ctx, query)
	if err != nil {
		return nil, err
	}
	return dash.Comments, nil
}

// Invalidate drops the cached dataset so the next request refetches it
func (s *FeedbackService) Invalidate(ctx context.Context) bool {
	key := s.fetcher.Location()
	dropped := s.cache.Invalidate(key)
	s.logger.InfoContext(ctx, "dataset cache invalidated",
		slog.String("source", key),
		slog.Bool("had_entry", dropped))
	return dropped
}

// SourceStatus reports the state of the cached dataset
func (s *FeedbackService) SourceStatus() SourceStatus {
	key := s.fetcher.Location()
	status := SourceStatus{
		Location: key,
		Cache:    s.cache.GetStats(),
	}

	if entry, ok := s.cache.Peek(key); ok {
		status.Cached = true
		loadedAt := entry.Dataset.LoadedAt
		status.LoadedAt = &loadedAt
		status.Rows = entry.Dataset.Len()
	}

	s.mu.RLock()
	if s.lastError != nil {
		status.LastError = s.lastError.Error()
	}
	s.mu.RUnlock()

	return status
}

func (s *FeedbackService) setLastError(err error) {
	s.mu.Lock()
	s.lastError = err
	s.mu.Unlock()
}
