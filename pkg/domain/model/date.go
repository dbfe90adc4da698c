package model

import "time"

// DateOf returns the calendar date of t (in t's location) as midnight UTC.
// Due dates are stored and compared in this form.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DueDateFor returns the due date of a case opened at openedAt for a service with
// the given SLA, counted in calendar days.
func DueDateFor(openedAt time.Time, maxResolutionDays int) time.Time {
	return DateOf(openedAt).AddDate(0, 0, maxResolutionDays)
}
