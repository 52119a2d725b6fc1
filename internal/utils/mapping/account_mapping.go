package mapping

import (
	"github.com/Oss53pa/atlas-finance/internal/core/domain"
	"github.com/Oss53pa/atlas-finance/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		Code:         d.Code,
		Name:         d.Name,
		Class:        d.Class,
		AccountType:  models.AccountType(d.AccountType),
		NormalSide:   models.BalanceSide(d.NormalSide),
		Reconcilable: d.Reconcilable,
		IsActive:     d.IsActive,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		Code:         m.Code,
		Name:         m.Name,
		Class:        m.Class,
		AccountType:  domain.AccountType(m.AccountType),
		NormalSide:   domain.BalanceSide(m.NormalSide),
		Reconcilable: m.Reconcilable,
		IsActive:     m.IsActive,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelFiscalYear converts a domain FiscalYear to a model FiscalYear
func ToModelFiscalYear(d domain.FiscalYear) models.FiscalYear {
	return models.FiscalYear{
		Code:        d.Code,
		StartDate:   d.StartDate,
		EndDate:     d.EndDate,
		IsClosed:    d.IsClosed,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainFiscalYear converts a model FiscalYear to a domain FiscalYear
func ToDomainFiscalYear(m models.FiscalYear) domain.FiscalYear {
	return domain.FiscalYear{
		Code:        m.Code,
		StartDate:   m.StartDate,
		EndDate:     m.EndDate,
		IsClosed:    m.IsClosed,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
