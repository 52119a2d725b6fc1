package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the workflow state of a journal entry row.
type EntryStatus string

const (
	Draft     EntryStatus = "DRAFT"
	Validated EntryStatus = "VALIDATED"
	Posted    EntryStatus = "POSTED"
)

// JournalEntry is the journal_entries table row.
type JournalEntry struct {
	EntryID        string          `json:"entryID"` // Primary Key (UUID)
	JournalCode    string          `json:"journalCode"`
	EntryNumber    string          `json:"entryNumber"` // Unique per journal
	EntryDate      time.Time       `json:"entryDate"`
	Label          string          `json:"label"`
	Reference      string          `json:"reference"`
	Status         EntryStatus     `json:"status"`
	TotalDebit     decimal.Decimal `json:"totalDebit"`
	TotalCredit    decimal.Decimal `json:"totalCredit"`
	Hash           string          `json:"hash"`
	PreviousHash   string          `json:"previousHash"`
	Reversed       bool            `json:"reversed"`
	ReversalOfID   *string         `json:"reversalOfID"`
	ReversedByID   *string         `json:"reversedByID"`
	ReversalReason string          `json:"reversalReason"`
	AuditFields
}

// JournalLine is the journal_lines table row. LineIndex preserves the order
// the lines were submitted in, which the entry hash depends on.
type JournalLine struct {
	EntryID        string          `json:"entryID"`
	LineIndex      int             `json:"lineIndex"`
	AccountCode    string          `json:"accountCode"`
	ThirdPartyCode string          `json:"thirdPartyCode"`
	Label          string          `json:"label"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	AnalyticCode   string          `json:"analyticCode"`
	LettrageTag    string          `json:"lettrageTag"`
}
