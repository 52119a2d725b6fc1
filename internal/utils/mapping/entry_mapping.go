package mapping

import (
	"github.com/Oss53pa/atlas-finance/internal/core/domain"
	"github.com/Oss53pa/atlas-finance/internal/models"
	"github.com/Oss53pa/atlas-finance/internal/utils/money"
)

// ToModelEntry converts a domain JournalEntry to a model JournalEntry. Lines
// are mapped separately, they live in their own table.
func ToModelEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:        d.EntryID,
		JournalCode:    d.JournalCode,
		EntryNumber:    d.EntryNumber,
		EntryDate:      d.EntryDate,
		Label:          d.Label,
		Reference:      d.Reference,
		Status:         models.EntryStatus(d.Status),
		TotalDebit:     d.TotalDebit.Decimal(),
		TotalCredit:    d.TotalCredit.Decimal(),
		Hash:           d.Hash,
		PreviousHash:   d.PreviousHash,
		Reversed:       d.Reversed,
		ReversalOfID:   d.ReversalOfID,
		ReversedByID:   d.ReversedByID,
		ReversalReason: d.ReversalReason,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainEntry converts a model JournalEntry to a domain JournalEntry
func ToDomainEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:        m.EntryID,
		JournalCode:    m.JournalCode,
		EntryNumber:    m.EntryNumber,
		EntryDate:      m.EntryDate,
		Label:          m.Label,
		Reference:      m.Reference,
		Status:         domain.EntryStatus(m.Status),
		TotalDebit:     money.FromDecimal(m.TotalDebit),
		TotalCredit:    money.FromDecimal(m.TotalCredit),
		Hash:           m.Hash,
		PreviousHash:   m.PreviousHash,
		Reversed:       m.Reversed,
		ReversalOfID:   m.ReversalOfID,
		ReversedByID:   m.ReversedByID,
		ReversalReason: m.ReversalReason,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelLine converts a domain JournalLine to a model JournalLine
func ToModelLine(entryID string, index int, d domain.JournalLine) models.JournalLine {
	return models.JournalLine{
		EntryID:        entryID,
		LineIndex:      index,
		AccountCode:    d.AccountCode,
		ThirdPartyCode: d.ThirdPartyCode,
		Label:          d.Label,
		Debit:          d.Debit.Decimal(),
		Credit:         d.Credit.Decimal(),
		AnalyticCode:   d.AnalyticCode,
		LettrageTag:    d.LettrageTag,
	}
}

// ToDomainLine converts a model JournalLine to a domain JournalLine
func ToDomainLine(m models.JournalLine) domain.JournalLine {
	return domain.JournalLine{
		AccountCode:    m.AccountCode,
		ThirdPartyCode: m.ThirdPartyCode,
		Label:          m.Label,
		Debit:          money.FromDecimal(m.Debit),
		Credit:         money.FromDecimal(m.Credit),
		AnalyticCode:   m.AnalyticCode,
		LettrageTag:    m.LettrageTag,
	}
}

// ToDomainLineSlice converts a slice of model JournalLines to domain lines,
// assuming they are already ordered by line index.
func ToDomainLineSlice(ms []models.JournalLine) []domain.JournalLine {
	ds := make([]domain.JournalLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLine(m)
	}
	return ds
}
