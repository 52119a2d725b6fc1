package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Oss53pa/atlas-finance/internal/apperrors"
	"github.com/Oss53pa/atlas-finance/internal/core/domain"
	portsrepo "github.com/Oss53pa/atlas-finance/internal/core/ports/repositories"
	"github.com/Oss53pa/atlas-finance/internal/models"
	"github.com/Oss53pa/atlas-finance/internal/utils/mapping"
	"github.com/Oss53pa/atlas-finance/internal/utils/money"
	"github.com/Oss53pa/atlas-finance/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const uniqueViolation = "23505"

// entryColumns is the shared select list for journal_entries scans.
const entryColumns = `
	entry_id, journal_code, entry_number, entry_date, label, reference, status,
	total_debit, total_credit, hash, previous_hash,
	reversed, reversal_of_id, reversed_by_id, reversal_reason,
	created_at, created_by, last_updated_at, last_updated_by`

// chainOrder is the canonical scan order of the ledger: entry date first,
// then creation time, then the insertion sequence as tie-breaker. FindLastEntry
// and ListAllEntriesOrdered must agree on it or the hash chain appears broken.
const chainOrder = ` ORDER BY entry_date, created_at, seq`

type PgxEntryRepository struct {
	BaseRepository
}

// newPgxEntryRepository creates the repository for journal entries and lines.
func newPgxEntryRepository(pool *pgxpool.Pool) portsrepo.EntryRepositoryFacade {
	return &PgxEntryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxEntryRepository implements portsrepo.EntryRepositoryFacade
var _ portsrepo.EntryRepositoryFacade = (*PgxEntryRepository)(nil)

// SaveEntry persists an entry and its lines atomically within a DB transaction.
func (r *PgxEntryRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // no-op once committed

	modelEntry := mapping.ToModelEntry(entry)
	entryQuery := `
		INSERT INTO journal_entries (
			entry_id, journal_code, entry_number, entry_date, label, reference, status,
			total_debit, total_credit, hash, previous_hash,
			reversed, reversal_of_id, reversed_by_id, reversal_reason,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);
	`
	_, err = tx.Exec(ctx, entryQuery,
		modelEntry.EntryID,
		modelEntry.JournalCode,
		modelEntry.EntryNumber,
		modelEntry.EntryDate,
		modelEntry.Label,
		modelEntry.Reference,
		modelEntry.Status,
		modelEntry.TotalDebit,
		modelEntry.TotalCredit,
		modelEntry.Hash,
		modelEntry.PreviousHash,
		modelEntry.Reversed,
		modelEntry.ReversalOfID,
		modelEntry.ReversedByID,
		modelEntry.ReversalReason,
		modelEntry.CreatedAt,
		modelEntry.CreatedBy,
		modelEntry.LastUpdatedAt,
		modelEntry.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert entry "+modelEntry.EntryID, err)
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO journal_lines (entry_id, line_index, account_code, third_party_code, label, debit, credit, analytic_code, lettrage_tag)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	for i, line := range entry.Lines {
		modelLine := mapping.ToModelLine(entry.EntryID, i, line)
		batch.Queue(lineQuery,
			modelLine.EntryID,
			modelLine.LineIndex,
			modelLine.AccountCode,
			modelLine.ThirdPartyCode,
			modelLine.Label,
			modelLine.Debit,
			modelLine.Credit,
			modelLine.AnalyticCode,
			modelLine.LettrageTag,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute line batch for entry "+modelEntry.EntryID, err)
	}

	return r.Commit(ctx, tx)
}

// FindEntryByID retrieves an entry with its lines by its ID.
func (r *PgxEntryRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT` + entryColumns + ` FROM journal_entries WHERE entry_id = $1;`
	return r.findOne(ctx, query, entryID)
}

// FindEntryByNumber retrieves an entry by its journal code and piece number.
func (r *PgxEntryRepository) FindEntryByNumber(ctx context.Context, journalCode, entryNumber string) (*domain.JournalEntry, error) {
	query := `SELECT` + entryColumns + ` FROM journal_entries WHERE journal_code = $1 AND entry_number = $2;`
	return r.findOne(ctx, query, journalCode, entryNumber)
}

// FindLastEntry returns the chain tip, or ErrNotFound on an empty ledger.
func (r *PgxEntryRepository) FindLastEntry(ctx context.Context) (*domain.JournalEntry, error) {
	query := `SELECT` + entryColumns + ` FROM journal_entries
		ORDER BY entry_date DESC, created_at DESC, seq DESC LIMIT 1;`
	return r.findOne(ctx, query)
}

func (r *PgxEntryRepository) findOne(ctx context.Context, query string, args ...any) (*domain.JournalEntry, error) {
	modelEntry, err := scanEntry(r.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find entry", err)
	}

	lines, err := r.findLines(ctx, modelEntry.EntryID)
	if err != nil {
		return nil, err
	}
	entry := mapping.ToDomainEntry(*modelEntry)
	entry.Lines = mapping.ToDomainLineSlice(lines)
	return &entry, nil
}

func (r *PgxEntryRepository) findLines(ctx context.Context, entryID string) ([]models.JournalLine, error) {
	query := `
		SELECT entry_id, line_index, account_code, third_party_code, label, debit, credit, analytic_code, lettrage_tag
		FROM journal_lines
		WHERE entry_id = $1
		ORDER BY line_index;
	`
	rows, err := r.Pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines of entry "+entryID, err)
	}
	defer rows.Close()
	return scanLines(rows)
}

// ListEntries retrieves a page of entries in chain order using token-based
// pagination on (entry_date, created_at).
func (r *PgxEntryRepository) ListEntries(ctx context.Context, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	query := `SELECT` + entryColumns + ` FROM journal_entries`
	args := []any{}
	if nextToken != nil {
		afterDate, afterCreated, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, err
		}
		query += ` WHERE (entry_date, created_at) > ($1, $2)`
		args = append(args, afterDate, afterCreated)
	}
	query += chainOrder
	query += ` LIMIT ` + placeholder(len(args)+1)
	args = append(args, limit+1) // fetch one extra row to detect the next page

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list entries", err)
	}
	defer rows.Close()

	modelEntries, err := scanEntries(rows)
	if err != nil {
		return nil, nil, err
	}

	hasMore := len(modelEntries) > limit
	if hasMore {
		modelEntries = modelEntries[:limit]
	}

	entries, err := r.attachLines(ctx, modelEntries)
	if err != nil {
		return nil, nil, err
	}

	var token *string
	if hasMore && len(entries) > 0 {
		last := entries[len(entries)-1]
		t := pagination.EncodeToken(last.EntryDate, last.CreatedAt)
		token = &t
	}
	return entries, token, nil
}

// ListAllEntriesOrdered returns the whole ledger with lines, in chain order.
func (r *PgxEntryRepository) ListAllEntriesOrdered(ctx context.Context) ([]domain.JournalEntry, error) {
	query := `SELECT` + entryColumns + ` FROM journal_entries` + chainOrder + `;`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan journal_entries", err)
	}
	defer rows.Close()

	modelEntries, err := scanEntries(rows)
	if err != nil {
		return nil, err
	}
	return r.attachLines(ctx, modelEntries)
}

// attachLines loads the lines of every listed entry in one query and groups
// them back onto their entries.
func (r *PgxEntryRepository) attachLines(ctx context.Context, modelEntries []models.JournalEntry) ([]domain.JournalEntry, error) {
	entries := make([]domain.JournalEntry, len(modelEntries))
	if len(modelEntries) == 0 {
		return entries, nil
	}

	ids := make([]string, len(modelEntries))
	for i, m := range modelEntries {
		ids[i] = m.EntryID
		entries[i] = mapping.ToDomainEntry(m)
	}

	query := `
		SELECT entry_id, line_index, account_code, third_party_code, label, debit, credit, analytic_code, lettrage_tag
		FROM journal_lines
		WHERE entry_id = ANY($1)
		ORDER BY entry_id, line_index;
	`
	rows, err := r.Pool.Query(ctx, query, ids)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query journal_lines", err)
	}
	defer rows.Close()

	modelLines, err := scanLines(rows)
	if err != nil {
		return nil, err
	}
	byEntry := make(map[string][]domain.JournalLine, len(modelEntries))
	for _, line := range modelLines {
		byEntry[line.EntryID] = append(byEntry[line.EntryID], mapping.ToDomainLine(line))
	}
	for i := range entries {
		entries[i].Lines = byEntry[entries[i].EntryID]
	}
	return entries, nil
}

// MaxSequenceForJournal returns the highest minted piece-number sequence for a
// journal, 0 when the journal has no entries.
func (r *PgxEntryRepository) MaxSequenceForJournal(ctx context.Context, journalCode string) (int, error) {
	// Piece numbers are "<journal>-<6 digits>"; strip the prefix and take the max.
	query := `
		SELECT COALESCE(MAX(CAST(SUBSTRING(entry_number FROM LENGTH(journal_code) + 2) AS INTEGER)), 0)
		FROM journal_entries
		WHERE journal_code = $1;
	`
	var maxSeq int
	if err := r.Pool.QueryRow(ctx, query, journalCode).Scan(&maxSeq); err != nil {
		return 0, apperrors.NewAppError(500, "failed to read max sequence for journal "+journalCode, err)
	}
	return maxSeq, nil
}

// SumAccountMovements returns the ledger-wide debit and credit totals of an
// account.
func (r *PgxEntryRepository) SumAccountMovements(ctx context.Context, accountCode string) (money.Amount, money.Amount, error) {
	query := `
		SELECT COALESCE(SUM(debit), 0), COALESCE(SUM(credit), 0)
		FROM journal_lines
		WHERE account_code = $1;
	`
	var debit, credit decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, accountCode).Scan(&debit, &credit); err != nil {
		return money.Zero(), money.Zero(), apperrors.NewAppError(500, "failed to sum movements of account "+accountCode, err)
	}
	return money.FromDecimal(debit), money.FromDecimal(credit), nil
}

// UpdateEntryStatus moves an entry to a new lifecycle status.
func (r *PgxEntryRepository) UpdateEntryStatus(ctx context.Context, entryID string, status domain.EntryStatus, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE journal_entries
		SET status = $2, last_updated_by = $3, last_updated_at = $4
		WHERE entry_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, entryID, string(status), updatedBy, updatedAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status of entry "+entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// MarkEntryReversed flags the original entry and links its compensating entry.
func (r *PgxEntryRepository) MarkEntryReversed(ctx context.Context, entryID string, reversedByID string, reason string, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE journal_entries
		SET reversed = TRUE, reversed_by_id = $2, reversal_reason = $3, last_updated_by = $4, last_updated_at = $5
		WHERE entry_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, entryID, reversedByID, reason, updatedBy, updatedAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark entry "+entryID+" reversed", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}

func scanEntry(row pgx.Row) (*models.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.EntryID,
		&m.JournalCode,
		&m.EntryNumber,
		&m.EntryDate,
		&m.Label,
		&m.Reference,
		&m.Status,
		&m.TotalDebit,
		&m.TotalCredit,
		&m.Hash,
		&m.PreviousHash,
		&m.Reversed,
		&m.ReversalOfID,
		&m.ReversedByID,
		&m.ReversalReason,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func scanEntries(rows pgx.Rows) ([]models.JournalEntry, error) {
	var out []models.JournalEntry
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan entry row", err)
		}
		out = append(out, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate entry rows", err)
	}
	return out, nil
}

func scanLines(rows pgx.Rows) ([]models.JournalLine, error) {
	var out []models.JournalLine
	for rows.Next() {
		var m models.JournalLine
		err := rows.Scan(
			&m.EntryID,
			&m.LineIndex,
			&m.AccountCode,
			&m.ThirdPartyCode,
			&m.Label,
			&m.Debit,
			&m.Credit,
			&m.AnalyticCode,
			&m.LettrageTag,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line row", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate line rows", err)
	}
	return out, nil
}
