package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegularisationType is the cut-off family of a regularisation row.
type RegularisationType string

// RegularisationStatus indicates whether a proposal was posted to the ledger.
type RegularisationStatus string

// Regularisation is the regularisations table row.
type Regularisation struct {
	RegularisationID      string               `json:"regularisationID"` // Primary Key (UUID)
	Type                  RegularisationType   `json:"type"`
	Label                 string               `json:"label"`
	Amount                decimal.Decimal      `json:"amount"`
	AccrualAccount        string               `json:"accrualAccount"`
	ChargeAccount         string               `json:"chargeAccount"`
	OriginPeriodStart     time.Time            `json:"originPeriodStart"`
	OriginPeriodEnd       time.Time            `json:"originPeriodEnd"`
	ImputationPeriodStart time.Time            `json:"imputationPeriodStart"`
	ImputationPeriodEnd   time.Time            `json:"imputationPeriodEnd"`
	AutoReverse           bool                 `json:"autoReverse"`
	Status                RegularisationStatus `json:"status"`
	AuditFields
}
