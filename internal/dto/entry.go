package dto

import (
	"time"

	"github.com/Oss53pa/atlas-finance/internal/core/domain"
	"github.com/Oss53pa/atlas-finance/internal/utils/money"
)

// CreateEntryLineRequest is one candidate line of a proposed entry.
type CreateEntryLineRequest struct {
	AccountCode    string       `json:"accountCode" binding:"required"`
	ThirdPartyCode string       `json:"thirdPartyCode"`
	Label          string       `json:"label"`
	Debit          money.Amount `json:"debit"`
	Credit         money.Amount `json:"credit"`
	AnalyticCode   string       `json:"analyticCode"`
	LettrageTag    string       `json:"lettrageTag"`
}

// CreateEntryRequest is a candidate journal entry proposed for admission.
// This is the single boundary where loosely-structured input is converted into
// the strict domain shape; nothing reaches the ledger gateway without passing
// through ToDomain.
type CreateEntryRequest struct {
	JournalCode string                   `json:"journalCode" binding:"required,journalcode"`
	EntryDate   time.Time                `json:"entryDate" binding:"required"`
	Label       string                   `json:"label"`
	Reference   string                   `json:"reference"`
	EntryNumber string                   `json:"entryNumber"` // optional; minted by the gateway when absent
	Lines       []CreateEntryLineRequest `json:"lines" binding:"required"`
}

// ToDomain converts the request into a strict domain entry with draft status.
func (r CreateEntryRequest) ToDomain() domain.JournalEntry {
	lines := make([]domain.JournalLine, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = domain.JournalLine{
			AccountCode:    l.AccountCode,
			ThirdPartyCode: l.ThirdPartyCode,
			Label:          l.Label,
			Debit:          l.Debit,
			Credit:         l.Credit,
			AnalyticCode:   l.AnalyticCode,
			LettrageTag:    l.LettrageTag,
		}
	}
	return domain.JournalEntry{
		JournalCode: r.JournalCode,
		EntryNumber: r.EntryNumber,
		EntryDate:   r.EntryDate,
		Label:       r.Label,
		Reference:   r.Reference,
		Lines:       lines,
		Status:      domain.StatusDraft,
	}
}

// BatchAdmitRequest proposes several entries for strictly sequential admission.
type BatchAdmitRequest struct {
	Entries []CreateEntryRequest `json:"entries" binding:"required,min=1"`
}

// ToDomainSlice converts every candidate of the batch, preserving order.
func (r BatchAdmitRequest) ToDomainSlice() []domain.JournalEntry {
	entries := make([]domain.JournalEntry, len(r.Entries))
	for i, req := range r.Entries {
		entries[i] = req.ToDomain()
	}
	return entries
}

// BatchWorkflowRequest applies one workflow transition to several entries.
type BatchWorkflowRequest struct {
	EntryIDs []string `json:"entryIDs" binding:"required,min=1"`
}

// ReverseEntryRequest asks for a compensating entry against a validated or
// posted original.
type ReverseEntryRequest struct {
	ReversalDate time.Time `json:"reversalDate" binding:"required"`
	Reason       string    `json:"reason" binding:"required"`
}

// EntryLineResponse mirrors a stored journal line.
type EntryLineResponse struct {
	AccountCode    string       `json:"accountCode"`
	ThirdPartyCode string       `json:"thirdPartyCode,omitempty"`
	Label          string       `json:"label"`
	Debit          money.Amount `json:"debit"`
	Credit         money.Amount `json:"credit"`
	AnalyticCode   string       `json:"analyticCode,omitempty"`
	LettrageTag    string       `json:"lettrageTag,omitempty"`
}

// EntryResponse is the public shape of a stored journal entry.
type EntryResponse struct {
	EntryID        string              `json:"entryID"`
	JournalCode    string              `json:"journalCode"`
	EntryNumber    string              `json:"entryNumber"`
	EntryDate      time.Time           `json:"entryDate"`
	Label          string              `json:"label"`
	Reference      string              `json:"reference,omitempty"`
	Status         domain.EntryStatus  `json:"status"`
	TotalDebit     money.Amount        `json:"totalDebit"`
	TotalCredit    money.Amount        `json:"totalCredit"`
	Hash           string              `json:"hash"`
	PreviousHash   string              `json:"previousHash"`
	Reversed       bool                `json:"reversed"`
	ReversalOfID   *string             `json:"reversalOfID,omitempty"`
	ReversedByID   *string             `json:"reversedByID,omitempty"`
	ReversalReason string              `json:"reversalReason,omitempty"`
	Lines          []EntryLineResponse `json:"lines,omitempty"`
	CreatedAt      time.Time           `json:"createdAt"`
	CreatedBy      string              `json:"createdBy"`
}

// ToEntryResponse converts a domain entry to its response DTO.
func ToEntryResponse(e *domain.JournalEntry) EntryResponse {
	lines := make([]EntryLineResponse, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = EntryLineResponse{
			AccountCode:    l.AccountCode,
			ThirdPartyCode: l.ThirdPartyCode,
			Label:          l.Label,
			Debit:          l.Debit,
			Credit:         l.Credit,
			AnalyticCode:   l.AnalyticCode,
			LettrageTag:    l.LettrageTag,
		}
	}
	return EntryResponse{
		EntryID:        e.EntryID,
		JournalCode:    e.JournalCode,
		EntryNumber:    e.EntryNumber,
		EntryDate:      e.EntryDate,
		Label:          e.Label,
		Reference:      e.Reference,
		Status:         e.Status,
		TotalDebit:     e.TotalDebit,
		TotalCredit:    e.TotalCredit,
		Hash:           e.Hash,
		PreviousHash:   e.PreviousHash,
		Reversed:       e.Reversed,
		ReversalOfID:   e.ReversalOfID,
		ReversedByID:   e.ReversedByID,
		ReversalReason: e.ReversalReason,
		Lines:          lines,
		CreatedAt:      e.CreatedAt,
		CreatedBy:      e.CreatedBy,
	}
}

// ListEntriesParams holds pagination parameters for listing entries.
type ListEntriesParams struct {
	Limit     int
	NextToken *string
}

// ListEntriesResponse is a page of entries plus the cursor for the next page.
type ListEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	NextToken *string         `json:"nextToken,omitempty"`
}
