// Package projection turns contract records into dated cash-flow events and
// aggregates them into bucketed projections with a running balance.
package projection

import (
	"time"

	"github.com/jesuscompany/cash-management/internal/models"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func daysInMonth(year int, month time.Month) int {
	// Day zero of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func firstOfMonth(t time.Time) time.Time {
	return date(t.Year(), t.Month(), 1)
}

func endOfMonth(t time.Time) time.Time {
	return date(t.Year(), t.Month(), daysInMonth(t.Year(), t.Month()))
}

// addMonthsClamped advances a date by whole calendar months, clamping the
// day to the target month's length (Jan 31 + 1 month = Feb 28). Applied
// iteratively to a recurring due date, the clamp carries forward: a day-31
// anchor becomes day-28 from February onward.
func addMonthsClamped(t time.Time, months int) time.Time {
	anchor := firstOfMonth(t).AddDate(0, months, 0)
	day := t.Day()
	if dim := daysInMonth(anchor.Year(), anchor.Month()); day > dim {
		day = dim
	}
	return date(anchor.Year(), anchor.Month(), day)
}

func minDate(a, b time.Time) time.Time {
	if b.Before(a) {
		return b
	}
	return a
}

func maxDate(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}

// GenerateDateRange produces the ordered period end-dates for a projection
// window. Daily emits one date per day. Weekly emits 7-day buckets anchored
// at start. Monthly emits calendar-month ends and quarterly 3-calendar-month
// ends; in all cases the final bucket is truncated to end.
func GenerateDateRange(start, end time.Time, timeframe string) ([]time.Time, error) {
	start = models.DateOf(start)
	end = models.DateOf(end)

	var dates []time.Time

	switch timeframe {
	case models.TimeframeDaily:
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			dates = append(dates, d)
		}

	case models.TimeframeWeekly:
		for d := start; !d.After(end); d = d.AddDate(0, 0, 7) {
			dates = append(dates, minDate(d.AddDate(0, 0, 6), end))
		}

	case models.TimeframeMonthly:
		for d := start; !d.After(end); d = firstOfMonth(d).AddDate(0, 1, 0) {
			dates = append(dates, minDate(endOfMonth(d), end))
		}

	case models.TimeframeQuarterly:
		for d := start; !d.After(end); d = firstOfMonth(d).AddDate(0, 3, 0) {
			dates = append(dates, minDate(endOfMonth(firstOfMonth(d).AddDate(0, 2, 0)), end))
		}

	default:
		return nil, &models.InvalidTimeframeError{Timeframe: timeframe}
	}

	return dates, nil
}
