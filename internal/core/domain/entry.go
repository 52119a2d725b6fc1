package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/Oss53pa/atlas-finance/internal/utils/money"
)

// EntryStatus is the lifecycle state of a journal entry.
type EntryStatus string

const (
	StatusDraft     EntryStatus = "DRAFT"
	StatusValidated EntryStatus = "VALIDATED"
	StatusPosted    EntryStatus = "POSTED"
)

// JournalLine is a single line of a journal entry, affecting one account.
// Exactly one of Debit/Credit is non-zero on a valid line.
type JournalLine struct {
	AccountCode    string       `json:"accountCode"`
	ThirdPartyCode string       `json:"thirdPartyCode,omitempty"`
	Label          string       `json:"label"`
	Debit          money.Amount `json:"debit"`
	Credit         money.Amount `json:"credit"`
	AnalyticCode   string       `json:"analyticCode,omitempty"` // cost-center code
	LettrageTag    string       `json:"lettrageTag,omitempty"`  // reconciliation tag
}

// JournalEntry is a single balanced double-entry transaction. Once admitted it
// carries an integrity hash chained to the previously stored entry; once posted
// its lines, amounts, date and hash are frozen for the life of the record.
type JournalEntry struct {
	EntryID        string        `json:"entryID"`
	JournalCode    string        `json:"journalCode"` // subledger, e.g. "AC", "VE", "BQ"
	EntryNumber    string        `json:"entryNumber"` // "<JOURNAL>-<6-digit sequence>"
	EntryDate      time.Time     `json:"entryDate"`
	Label          string        `json:"label"`
	Reference      string        `json:"reference,omitempty"`
	Lines          []JournalLine `json:"lines"`
	Status         EntryStatus   `json:"status"`
	TotalDebit     money.Amount  `json:"totalDebit"`
	TotalCredit    money.Amount  `json:"totalCredit"`
	Hash           string        `json:"hash"`
	PreviousHash   string        `json:"previousHash"`
	Reversed       bool          `json:"reversed"`
	ReversalOfID   *string       `json:"reversalOfID,omitempty"`
	ReversedByID   *string       `json:"reversedByID,omitempty"`
	ReversalReason string        `json:"reversalReason,omitempty"`
	AuditFields
}

// ComputeTotals sums the debit and credit columns of the entry's lines.
func (e *JournalEntry) ComputeTotals() (totalDebit, totalCredit money.Amount) {
	for _, line := range e.Lines {
		totalDebit = totalDebit.Add(line.Debit)
		totalCredit = totalCredit.Add(line.Credit)
	}
	return totalDebit, totalCredit
}

// NetCashEffect returns the net debit-minus-credit effect of this entry on the
// given account. Cash accounts carry a debit-normal balance, so a negative
// result reduces the till.
func (e *JournalEntry) NetCashEffect(accountCode string) money.Amount {
	net := money.Zero()
	for _, line := range e.Lines {
		if line.AccountCode == accountCode {
			net = net.Add(line.Debit).Sub(line.Credit)
		}
	}
	return net
}

// ChainPayload serializes the content covered by the integrity hash. Status and
// audit fields are deliberately excluded: the workflow may move an entry
// through its lifecycle after admission without invalidating the chain.
func (e *JournalEntry) ChainPayload() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s|%s|%s|%s|%s",
		e.JournalCode, e.EntryNumber, e.EntryDate.UTC().Format("2006-01-02"), e.Label, e.Reference)
	for _, line := range e.Lines {
		fmt.Fprintf(&b, "|%s:%s:%s:%s:%s",
			line.AccountCode, line.ThirdPartyCode, line.Label, line.Debit.String(), line.Credit.String())
	}
	return b.String()
}
