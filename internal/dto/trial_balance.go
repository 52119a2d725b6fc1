package dto

import "github.com/Oss53pa/atlas-finance/internal/utils/money"

// AccountBalanceLine is one row of the trial balance.
type AccountBalanceLine struct {
	AccountCode string       `json:"accountCode"`
	TotalDebit  money.Amount `json:"totalDebit"`
	TotalCredit money.Amount `json:"totalCredit"`
	Balance     money.Amount `json:"balance"` // debit minus credit
}

// NumberingGap reports a hole in a journal's piece-number sequence.
type NumberingGap struct {
	JournalCode      string `json:"journalCode"`
	MissingSequences []int  `json:"missingSequences"`
}

// TrialBalanceReport is the output of the read-only ledger auditor.
type TrialBalanceReport struct {
	EntryCount       int                  `json:"entryCount"`
	TotalDebit       money.Amount         `json:"totalDebit"`
	TotalCredit      money.Amount         `json:"totalCredit"`
	Balanced         bool                 `json:"balanced"`
	Accounts         []AccountBalanceLine `json:"accounts"`
	NumberingGaps    []NumberingGap       `json:"numberingGaps"`
	ChainIntact      bool                 `json:"chainIntact"`
	FirstBrokenEntry string               `json:"firstBrokenEntry,omitempty"` // entry number of the first broken link
}
