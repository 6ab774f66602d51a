package models

import "time"

// DateOf truncates a timestamp to its UTC calendar date. All projection
// math operates on these normalized dates.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
