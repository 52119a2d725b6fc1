package repositories

import (
	"context"
	"time"

	"github.com/Oss53pa/atlas-finance/internal/core/domain"
	"github.com/Oss53pa/atlas-finance/internal/utils/money"
)

// EntryReader defines the ledger read contract: ordered scan by date and point
// lookup by id and by (journal, entry number).
type EntryReader interface {
	// FindEntryByID retrieves an entry with its lines by its unique identifier.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindEntryByNumber retrieves an entry by its journal code and piece number.
	FindEntryByNumber(ctx context.Context, journalCode, entryNumber string) (*domain.JournalEntry, error)

	// FindLastEntry returns the most recently stored entry in chain order
	// (entry date, then creation time), or ErrNotFound on an empty ledger.
	FindLastEntry(ctx context.Context) (*domain.JournalEntry, error)

	// ListEntries retrieves a paginated list of entries using token-based pagination.
	ListEntries(ctx context.Context, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)

	// ListAllEntriesOrdered returns every entry with lines, in chain order.
	// Used by the cash-floor recomputation and the trial-balance auditor.
	ListAllEntriesOrdered(ctx context.Context) ([]domain.JournalEntry, error)

	// MaxSequenceForJournal returns the highest piece-number sequence already
	// minted for a journal, 0 when the journal has no entries.
	MaxSequenceForJournal(ctx context.Context, journalCode string) (int, error)

	// SumAccountMovements returns the total debits and credits recorded
	// against an account across the whole ledger.
	SumAccountMovements(ctx context.Context, accountCode string) (debit, credit money.Amount, err error)
}

// EntryWriter defines write operations for ledger entries. The ledger gateway
// is the sole caller of SaveEntry; workflow and reversal only touch status and
// reversal linkage.
type EntryWriter interface {
	// SaveEntry persists an admitted entry and its lines atomically.
	SaveEntry(ctx context.Context, entry domain.JournalEntry) error

	// UpdateEntryStatus moves an entry to a new lifecycle status.
	UpdateEntryStatus(ctx context.Context, entryID string, status domain.EntryStatus, updatedBy string, updatedAt time.Time) error

	// MarkEntryReversed flags the original entry and links it to its
	// compensating entry. No other field of the original is touched.
	MarkEntryReversed(ctx context.Context, entryID string, reversedByID string, reason string, updatedBy string, updatedAt time.Time) error
}

// EntryRepositoryFacade combines entry read and write operations.
type EntryRepositoryFacade interface {
	EntryReader
	EntryWriter
}
