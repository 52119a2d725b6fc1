package domain

import "time"

// FiscalYear defines a valid posting window. An entry's date must fall inside
// exactly one fiscal year, and that year must not be closed.
type FiscalYear struct {
	Code      string    `json:"code"` // e.g. "FY2025"
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	IsClosed  bool      `json:"isClosed"`
	AuditFields
}

// Covers reports whether the given date falls inside the fiscal year,
// bounds inclusive. Comparison is on calendar dates, not clock times.
func (fy FiscalYear) Covers(date time.Time) bool {
	d := truncateToDay(date)
	return !d.Before(truncateToDay(fy.StartDate)) && !d.After(truncateToDay(fy.EndDate))
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
