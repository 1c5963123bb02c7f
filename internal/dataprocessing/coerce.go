package dataprocessing

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// dateLayouts are tried in order; day comes before month.
var dateLayouts = []string{
	"2/1/2006",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2-1-2006",
	"2-1-2006 15:04:05",
	"2.1.2006",
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ParseDate parses a day-first date. ok is false when a non-blank value could
// not be parsed; the returned time is nil for blanks and failures alike.
func ParseDate(raw string) (t *time.Time, ok bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, true
	}

	for _, layout := range dateLayouts {
		if parsed, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return &parsed, true
		}
	}

	parsed, err := dateparse.ParseIn(s, time.UTC, dateparse.PreferMonthFirst(false))
	if err != nil {
		return nil, false
	}
	return &parsed, true
}

// ParseFloat coerces a numeric cell. NaN and infinities count as failures.
func ParseFloat(raw string) (v *float64, ok bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, true
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false
	}
	return &f, true
}

// meanOf returns the arithmetic mean of the non-nil values, nil when there are none.
func meanOf(values []*float64) *float64 {
	var (
		sum float64
		n   int
	)
	for _, v := range values {
		if v == nil {
			continue
		}
		sum += *v
		n++
	}
	if n == 0 {
		return nil
	}
	mean := sum / float64(n)
	return &mean
}
