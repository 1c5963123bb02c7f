package http

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	apierrors "feedbackpulse/internal/errors"
	"feedbackpulse/internal/middleware"
	"feedbackpulse/internal/services"
	"feedbackpulse/internal/shared/testutil"
	"feedbackpulse/pkg/contracts/domain"
)

// MockFeedbackService is a mock implementation of FeedbackServiceInterface
type MockFeedbackService struct {
	mock.Mock
}

func (m *MockFeedbackService) Dashboard(ctx context.Context, query services.DashboardQuery) (*services.Dashboard, error) {
	args := m.Called(query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Dashboard), args.Error(1)
}

func (m *MockFeedbackService) Specialists(ctx context.Context) ([]string, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockFeedbackService) Comments(ctx context.Context, query services.DashboardQuery) ([]domain.CommentGroup, error) {
	args := m.Called(query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CommentGroup), args.Error(1)
}

func (m *MockFeedbackService) Invalidate(ctx context.Context) bool {
	return m.Called().Bool(0)
}

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func score(v float64) *float64 {
	return &v
}

// sampleDashboard has two specialists: Bruno fully evaluated, Ana half
func sampleDashboard() *services.Dashboard {
	return &services.Dashboard{
		Source:    "test.csv",
		LoadedAt:  time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
		Range:     domain.DateRange{From: day(2024, 1, 1), To: day(2024, 1, 31)},
		DataRange: domain.DateRange{From: day(2024, 1, 1), To: day(2024, 1, 31)},
		Available: []string{"Ana", "Bruno"},
		Responses: 4,
		KPIs: domain.KPIs{
			TotalMeetings:  4,
			TotalEvaluated: 3,
			EvaluationRate: 75,
			MeanRubric:     score(4),
		},
		Summary: map[string]domain.SpecialistSummary{
			"Ana": {
				Specialist: "Ana", MeetingsCount: 2, EvaluatedCount: 1,
				EvaluationRate: 50, MeanRubric: score(5),
			},
			"Bruno": {
				Specialist: "Bruno", MeetingsCount: 2, EvaluatedCount: 2,
				EvaluationRate: 100, MeanRubric: score(3.5),
			},
		},
		Comments: []domain.CommentGroup{
			{Specialist: "Ana", Items: []domain.CommentItem{{DateLabel: "01/01/2024", Text: "Excelente <b>reunião</b>"}}},
		},
	}
}

func emptyDashboard() *services.Dashboard {
	return &services.Dashboard{
		Source:    "test.csv",
		LoadedAt:  time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
		Available: []string{"Ana"},
		Selected:  []string{},
		Summary:   map[string]domain.SpecialistSummary{},
		Comments:  []domain.CommentGroup{},
	}
}

type handlerDeps struct {
	validator    *middleware.Validator
	errorHandler *apierrors.ErrorHandler
	logger       *slog.Logger
	logs         *testutil.BufferedSlogHandler
}

func newHandlerDeps(t *testing.T) handlerDeps {
	logger, logs := testutil.NewTestLogger(t)
	return handlerDeps{
		validator:    middleware.NewValidator(logger),
		errorHandler: apierrors.NewErrorHandler(logger, false),
		logger:       logger,
		logs:         logs,
	}
}
