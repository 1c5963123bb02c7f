package http

import (
	"context"

	"feedbackpulse/internal/services"
	"feedbackpulse/pkg/contracts/domain"
)

// FeedbackServiceInterface defines the operations the handlers need
type FeedbackServiceInterface interface {
	Dashboard(ctx context.Context, query services.DashboardQuery) (*services.Dashboard, error)
	Specialists(ctx context.Context) ([]string, error)
	Comments(ctx context.Context, query services.DashboardQuery) ([]domain.CommentGroup, error)
	Invalidate(ctx context.Context) bool
}
