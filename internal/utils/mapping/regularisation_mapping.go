package mapping

import (
	"github.com/Oss53pa/atlas-finance/internal/core/domain"
	"github.com/Oss53pa/atlas-finance/internal/models"
	"github.com/Oss53pa/atlas-finance/internal/utils/money"
)

// ToModelRegularisation converts a domain Regularisation to a model Regularisation
func ToModelRegularisation(d domain.Regularisation) models.Regularisation {
	return models.Regularisation{
		RegularisationID:      d.RegularisationID,
		Type:                  models.RegularisationType(d.Type),
		Label:                 d.Label,
		Amount:                d.Amount.Decimal(),
		AccrualAccount:        d.AccrualAccount,
		ChargeAccount:         d.ChargeAccount,
		OriginPeriodStart:     d.OriginPeriod.Start,
		OriginPeriodEnd:       d.OriginPeriod.End,
		ImputationPeriodStart: d.ImputationPeriod.Start,
		ImputationPeriodEnd:   d.ImputationPeriod.End,
		AutoReverse:           d.AutoReverse,
		Status:                models.RegularisationStatus(d.Status),
		AuditFields:           ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainRegularisation converts a model Regularisation to a domain Regularisation
func ToDomainRegularisation(m models.Regularisation) domain.Regularisation {
	return domain.Regularisation{
		RegularisationID: m.RegularisationID,
		Type:             domain.RegularisationType(m.Type),
		Label:            m.Label,
		Amount:           money.FromDecimal(m.Amount),
		AccrualAccount:   m.AccrualAccount,
		ChargeAccount:    m.ChargeAccount,
		OriginPeriod:     domain.Period{Start: m.OriginPeriodStart, End: m.OriginPeriodEnd},
		ImputationPeriod: domain.Period{Start: m.ImputationPeriodStart, End: m.ImputationPeriodEnd},
		AutoReverse:      m.AutoReverse,
		Status:           domain.RegularisationStatus(m.Status),
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelAuditRecord converts a domain AuditRecord to a model AuditRecord
func ToModelAuditRecord(d domain.AuditRecord) models.AuditRecord {
	return models.AuditRecord(d)
}
