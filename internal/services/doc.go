// Package services holds the business layer between the HTTP handlers and
// the survey source.
//
// FeedbackService owns the dataset cache: a cleaned Dataset is kept per
// source location for the configured TTL, concurrent misses share a single
// fetch, and failed loads are never stored. Every dashboard request then
// filters and aggregates the cached responses from scratch.
//
//	svc := services.NewFeedbackService(fetcher, services.NewDatasetCache(time.Hour, 16), metrics, logger)
//	dash, err := svc.Dashboard(ctx, services.DashboardQuery{})
//
// HealthService reports liveness, readiness and version information.
package services
