package services

import (
	"context"
	"time"

	"github.com/Oss53pa/atlas-finance/internal/core/domain"
	"github.com/Oss53pa/atlas-finance/internal/dto"
	"github.com/Oss53pa/atlas-finance/internal/utils/money"
)

// EntryValidatorSvc checks candidate entries against the ledger's invariants.
type EntryValidatorSvc interface {
	// ValidateShape runs the arithmetic and shape rules only, with no
	// repository access. Used for instant feedback and by the gateway.
	ValidateShape(entry *domain.JournalEntry) dto.ValidationResult

	// Validate runs the full rule set: shape rules plus fiscal-year coverage
	// and account existence. All violations are accumulated.
	Validate(ctx context.Context, entry *domain.JournalEntry) (dto.ValidationResult, error)
}

// AdmitOptions modifies gateway admission behaviour. TrustedSystemEntry skips
// arithmetic re-validation for entries balanced by construction (reversals,
// accrual postings); duplicate-number and cash-floor checks always run.
type AdmitOptions struct {
	TrustedSystemEntry bool
}

// LedgerSvcFacade is the single admission point for new entries.
type LedgerSvcFacade interface {
	// Admit validates, numbers, hash-chains and persists a candidate entry.
	// No write occurs for a rejected candidate.
	Admit(ctx context.Context, entry domain.JournalEntry, opts AdmitOptions) (*domain.JournalEntry, error)

	// AdmitBatch admits entries strictly sequentially so each previousHash
	// reflects the entry immediately before it.
	AdmitBatch(ctx context.Context, entries []domain.JournalEntry, opts AdmitOptions) dto.BatchResult

	// NextPieceNumber returns "<JOURNAL>-<6-digit zero-padded sequence>",
	// sequence = max(existing for that journal) + 1.
	NextPieceNumber(ctx context.Context, journalCode string) (string, error)

	GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)
	ListEntries(ctx context.Context, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)
}

// WorkflowSvcFacade governs the draft -> validated -> posted lifecycle.
type WorkflowSvcFacade interface {
	// ValidateEntry re-runs full validation on a draft and, on success, moves
	// it to validated. On failure the validator's verdict is returned and the
	// status is unchanged.
	ValidateEntry(ctx context.Context, entryID string, userID string) (dto.ValidationResult, error)

	// PostEntry moves a validated entry to its terminal posted status.
	PostEntry(ctx context.Context, entryID string, userID string) error

	// ReturnToDraft moves a validated entry back to draft. Not permitted from posted.
	ReturnToDraft(ctx context.Context, entryID string, userID string) error

	ValidateEntries(ctx context.Context, entryIDs []string, userID string) dto.BatchResult
	PostEntries(ctx context.Context, entryIDs []string, userID string) dto.BatchResult
}

// ReversalSvcFacade builds compensating entries for validated/posted entries.
type ReversalSvcFacade interface {
	// Reverse admits a new entry with every line's debit and credit swapped,
	// links it to the original and marks the original reversed. The original's
	// lines, hash and history are never mutated.
	Reverse(ctx context.Context, originalID string, reversalDate time.Time, reason string, userID string) (*domain.JournalEntry, error)
}

// AccrualSvcFacade prorates period-straddling charges/revenues and manages
// regularisation records.
type AccrualSvcFacade interface {
	// ProrateCarryForward computes the CCA/PCA share of amount attributable to
	// the portion of the service period after the fiscal-year-end cutoff.
	ProrateCarryForward(amount money.Amount, period domain.Period, cutoff time.Time) money.Amount

	// EstimateFlat returns the rounded flat estimate used for FNP/FAE.
	EstimateFlat(amount money.Amount) money.Amount

	CreateRegularisation(ctx context.Context, req dto.CreateRegularisationRequest, userID string) (*domain.Regularisation, error)
	ListRegularisations(ctx context.Context) ([]domain.Regularisation, error)

	// PostRegularisations turns proposed records into balanced ledger entries
	// through the gateway; AutoReverse schedules the swapped follow-up entry.
	PostRegularisations(ctx context.Context, req dto.PostRegularisationsRequest, userID string) dto.BatchResult
}

// TrialBalanceSvcFacade is the read-only batch verifier over the whole ledger.
type TrialBalanceSvcFacade interface {
	Audit(ctx context.Context) (*dto.TrialBalanceReport, error)
}

// AccountSvcFacade exposes chart-of-accounts and fiscal-year reads.
type AccountSvcFacade interface {
	GetAccountByCode(ctx context.Context, code string) (*domain.Account, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	CalculateAccountBalance(ctx context.Context, accountCode string) (*dto.AccountBalanceResponse, error)
	ListFiscalYears(ctx context.Context) ([]domain.FiscalYear, error)
}

// ServiceContainer bundles every service facade for handler wiring.
type ServiceContainer struct {
	Validator    EntryValidatorSvc
	Ledger       LedgerSvcFacade
	Workflow     WorkflowSvcFacade
	Reversal     ReversalSvcFacade
	Accrual      AccrualSvcFacade
	TrialBalance TrialBalanceSvcFacade
	Account      AccountSvcFacade
}
