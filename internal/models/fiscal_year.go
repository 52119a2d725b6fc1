package models

import "time"

// FiscalYear is the fiscal_years table row.
type FiscalYear struct {
	Code      string    `json:"code"` // Primary Key, e.g. "FY2025"
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	IsClosed  bool      `json:"isClosed"`
	AuditFields
}
