package domain

import (
	"time"

	"github.com/Oss53pa/atlas-finance/internal/utils/money"
)

// RegularisationType identifies the four SYSCOHADA period-end adjustments.
type RegularisationType string

const (
	// CCA: charges constatées d'avance — prepaid expenses carried forward.
	RegularisationCCA RegularisationType = "CCA"
	// PCA: produits constatés d'avance — deferred revenue carried forward.
	RegularisationPCA RegularisationType = "PCA"
	// FNP: factures non parvenues — expenses incurred, invoice not received.
	RegularisationFNP RegularisationType = "FNP"
	// FAE: factures à établir — revenue earned, invoice not issued.
	RegularisationFAE RegularisationType = "FAE"
)

// RegularisationStatus is the lifecycle of a regularisation record.
type RegularisationStatus string

const (
	RegularisationProposed RegularisationStatus = "PROPOSED"
	RegularisationPosted   RegularisationStatus = "POSTED"
)

// Period is a date interval, bounds inclusive.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Days returns the inclusive day count of the period.
func (p Period) Days() int64 {
	return int64(truncateToDay(p.End).Sub(truncateToDay(p.Start)).Hours()/24) + 1
}

// Regularisation is a period-end adjustment produced by the accrual engine,
// later turned into one or two balanced journal entries through the ledger
// gateway.
type Regularisation struct {
	RegularisationID string               `json:"regularisationID"`
	Type             RegularisationType   `json:"type"`
	Label            string               `json:"label"`
	Amount           money.Amount         `json:"amount"`
	AccrualAccount   string               `json:"accrualAccount"` // 476/477/408/418-class, derived from Type
	ChargeAccount    string               `json:"chargeAccount"`  // charge (6x) or revenue (7x) account
	OriginPeriod     Period               `json:"originPeriod"`
	ImputationPeriod Period               `json:"imputationPeriod"`
	AutoReverse      bool                 `json:"autoReverse"`
	Status           RegularisationStatus `json:"status"`
	AuditFields
}
