package dto

import (
	"time"

	"github.com/Oss53pa/atlas-finance/internal/core/domain"
	"github.com/Oss53pa/atlas-finance/internal/utils/money"
)

// ProrationRequest asks for the carry-forward share of a charge or revenue
// whose service period straddles the fiscal-year-end cutoff.
type ProrationRequest struct {
	Type        domain.RegularisationType `json:"type" binding:"required,oneof=CCA PCA FNP FAE"`
	Amount      money.Amount              `json:"amount" binding:"required"`
	PeriodStart time.Time                 `json:"periodStart"`
	PeriodEnd   time.Time                 `json:"periodEnd"`
	CutoffDate  time.Time                 `json:"cutoffDate"`
}

// ProrationResponse carries the rounded carry-forward amount.
type ProrationResponse struct {
	Type         domain.RegularisationType `json:"type"`
	CarryForward money.Amount              `json:"carryForward"`
}

// CreateRegularisationRequest creates a proposed regularisation record.
type CreateRegularisationRequest struct {
	Type                  domain.RegularisationType `json:"type" binding:"required,oneof=CCA PCA FNP FAE"`
	Label                 string                    `json:"label" binding:"required"`
	Amount                money.Amount              `json:"amount" binding:"required"`
	ChargeAccount         string                    `json:"chargeAccount" binding:"required"`
	OriginPeriodStart     time.Time                 `json:"originPeriodStart" binding:"required"`
	OriginPeriodEnd       time.Time                 `json:"originPeriodEnd" binding:"required"`
	ImputationPeriodStart time.Time                 `json:"imputationPeriodStart" binding:"required"`
	ImputationPeriodEnd   time.Time                 `json:"imputationPeriodEnd" binding:"required"`
	AutoReverse           bool                      `json:"autoReverse"`
}

// RegularisationResponse is the public shape of a regularisation record.
type RegularisationResponse struct {
	RegularisationID string                      `json:"regularisationID"`
	Type             domain.RegularisationType   `json:"type"`
	Label            string                      `json:"label"`
	Amount           money.Amount                `json:"amount"`
	AccrualAccount   string                      `json:"accrualAccount"`
	ChargeAccount    string                      `json:"chargeAccount"`
	OriginPeriod     domain.Period               `json:"originPeriod"`
	ImputationPeriod domain.Period               `json:"imputationPeriod"`
	AutoReverse      bool                        `json:"autoReverse"`
	Status           domain.RegularisationStatus `json:"status"`
}

// ToRegularisationResponse converts a domain record to its response DTO.
func ToRegularisationResponse(r *domain.Regularisation) RegularisationResponse {
	return RegularisationResponse{
		RegularisationID: r.RegularisationID,
		Type:             r.Type,
		Label:            r.Label,
		Amount:           r.Amount,
		AccrualAccount:   r.AccrualAccount,
		ChargeAccount:    r.ChargeAccount,
		OriginPeriod:     r.OriginPeriod,
		ImputationPeriod: r.ImputationPeriod,
		AutoReverse:      r.AutoReverse,
		Status:           r.Status,
	}
}

// PostRegularisationsRequest turns proposed regularisations into ledger entries.
type PostRegularisationsRequest struct {
	RegularisationIDs []string  `json:"regularisationIDs" binding:"required,min=1"`
	PostingDate       time.Time `json:"postingDate" binding:"required"`
}
