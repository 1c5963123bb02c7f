package dataprocessing

import (
	"sort"
	"time"

	"feedbackpulse/pkg/contracts/domain"
)

// FilterOptions selects a subset of responses.
//
// From and To are inclusive calendar dates and either may be nil. A nil
// Specialists slice selects everyone; a non-nil empty one selects no one.
type FilterOptions struct {
	From        *time.Time
	To          *time.Time
	Specialists []string
}

// HasDateRange reports whether either end of the interval is set.
func (o FilterOptions) HasDateRange() bool {
	return o.From != nil || o.To != nil
}

// Filter returns the responses matching opts in their original order. The
// input slice is never modified.
func Filter(responses []domain.Response, opts FilterOptions) []domain.Response {
	out := make([]domain.Response, 0, len(responses))

	var selected map[string]struct{}
	if opts.Specialists != nil {
		if len(opts.Specialists) == 0 {
			return out
		}
		selected = make(map[string]struct{}, len(opts.Specialists))
		for _, s := range opts.Specialists {
			selected[s] = struct{}{}
		}
	}

	var from, to time.Time
	if opts.From != nil {
		from = CalendarDate(*opts.From)
	}
	if opts.To != nil {
		to = CalendarDate(*opts.To)
	}

	for _, r := range responses {
		if opts.HasDateRange() {
			if !r.HasDate() {
				continue
			}
			day := CalendarDate(*r.SubmittedAt)
			if opts.From != nil && day.Before(from) {
				continue
			}
			if opts.To != nil && day.After(to) {
				continue
			}
		}

		if selected != nil {
			if _, ok := selected[r.Specialist]; !ok {
				continue
			}
		}

		out = append(out, r)
	}

	return out
}

// CalendarDate drops the time of day, keeping the date as written.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DistinctSpecialists returns the sorted unique specialists.
func DistinctSpecialists(responses []domain.Response) []string {
	seen := make(map[string]struct{})
	names := make([]string, 0)
	for _, r := range responses {
		if _, ok := seen[r.Specialist]; ok {
			continue
		}
		seen[r.Specialist] = struct{}{}
		names = append(names, r.Specialist)
	}
	sort.Strings(names)
	return names
}

// DateBounds returns the earliest and latest known submission dates. Both
// ends are nil when no response has a date.
func DateBounds(responses []domain.Response) domain.DateRange {
	var bounds domain.DateRange
	for _, r := range responses {
		if !r.HasDate() {
			continue
		}
		day := CalendarDate(*r.SubmittedAt)
		if bounds.From == nil || day.Before(*bounds.From) {
			d := day
			bounds.From = &d
		}
		if bounds.To == nil || day.After(*bounds.To) {
			d := day
			bounds.To = &d
		}
	}
	return bounds
}
