package dto

import (
	"time"

	"github.com/Oss53pa/atlas-finance/internal/core/domain"
	"github.com/Oss53pa/atlas-finance/internal/utils/money"
)

// AccountResponse is the public shape of a chart-of-accounts entry.
type AccountResponse struct {
	Code         string             `json:"code"`
	Name         string             `json:"name"`
	Class        int                `json:"class"`
	AccountType  domain.AccountType `json:"accountType"`
	NormalSide   domain.BalanceSide `json:"normalSide"`
	Reconcilable bool               `json:"reconcilable"`
	IsActive     bool               `json:"isActive"`
}

// ToAccountResponse converts a domain account to its response DTO.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		Code:         a.Code,
		Name:         a.Name,
		Class:        a.Class,
		AccountType:  a.AccountType,
		NormalSide:   a.NormalSide,
		Reconcilable: a.Reconcilable,
		IsActive:     a.IsActive,
	}
}

// AccountBalanceResponse carries the recomputed running balance of an account.
type AccountBalanceResponse struct {
	AccountCode string       `json:"accountCode"`
	TotalDebit  money.Amount `json:"totalDebit"`
	TotalCredit money.Amount `json:"totalCredit"`
	Balance     money.Amount `json:"balance"`
}

// FiscalYearResponse is the public shape of a posting period.
type FiscalYearResponse struct {
	Code      string    `json:"code"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	IsClosed  bool      `json:"isClosed"`
}

// ToFiscalYearResponse converts a domain fiscal year to its response DTO.
func ToFiscalYearResponse(fy *domain.FiscalYear) FiscalYearResponse {
	return FiscalYearResponse{
		Code:      fy.Code,
		StartDate: fy.StartDate,
		EndDate:   fy.EndDate,
		IsClosed:  fy.IsClosed,
	}
}
