package models

import "time"

// AuditRecord is the audit_log table row.
type AuditRecord struct {
	RecordID    string    `json:"recordID"` // Primary Key (UUID)
	Action      string    `json:"action"`
	EntityType  string    `json:"entityType"`
	EntityID    string    `json:"entityID"`
	DetailsJSON string    `json:"detailsJSON"`
	Timestamp   time.Time `json:"timestamp"`
	PerformedBy string    `json:"performedBy"`
}
