package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Oss53pa/atlas-finance/internal/apperrors"
	"github.com/Oss53pa/atlas-finance/internal/core/domain"
	portsrepo "github.com/Oss53pa/atlas-finance/internal/core/ports/repositories"
	portssvc "github.com/Oss53pa/atlas-finance/internal/core/ports/services"
	"github.com/Oss53pa/atlas-finance/internal/dto"
	"github.com/Oss53pa/atlas-finance/internal/middleware"
	"github.com/Oss53pa/atlas-finance/internal/utils/hashchain"
)

// ledgerService is the single admission point for new journal entries. It owns
// the hash chain: reading the current tip and writing the new entry happen
// inside one mutex-guarded region, so previousHash always references the entry
// immediately before.
type ledgerService struct {
	entryRepo portsrepo.EntryRepositoryFacade
	validator portssvc.EntryValidatorSvc

	// admitMu serializes the compute-tip-then-write region. Two concurrent
	// admissions reading the same tip would fork the chain.
	admitMu sync.Mutex
}

// NewLedgerService creates the ledger gateway.
func NewLedgerService(entryRepo portsrepo.EntryRepositoryFacade, validator portssvc.EntryValidatorSvc) portssvc.LedgerSvcFacade {
	return &ledgerService{
		entryRepo: entryRepo,
		validator: validator,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// Admit runs the admission pipeline: totals, shape validation (unless the
// entry is system-trusted), duplicate piece number check, cash-floor check,
// hash chaining, persistence. No write occurs for a rejected candidate.
func (s *ledgerService) Admit(ctx context.Context, entry domain.JournalEntry, opts portssvc.AdmitOptions) (*domain.JournalEntry, error) {
	s.admitMu.Lock()
	defer s.admitMu.Unlock()
	return s.admitLocked(ctx, entry, opts)
}

func (s *ledgerService) admitLocked(ctx context.Context, entry domain.JournalEntry, opts portssvc.AdmitOptions) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	// 1. Totals are always recomputed from the lines; a caller-supplied total
	// is never trusted.
	entry.TotalDebit, entry.TotalCredit = entry.ComputeTotals()

	// 2. Arithmetic validation, skipped only for entries balanced by
	// construction (reversals, accrual postings).
	if !opts.TrustedSystemEntry {
		result := s.validator.ValidateShape(&entry)
		if !result.IsValid {
			logger.Warn("Entry rejected by shape validation", slog.Int("violations", len(result.Errors)))
			return nil, apperrors.NewRejectionError(result.Errors)
		}
	}

	// 3. Piece number: mint the next one, or check a caller-supplied number
	// for collisions within its journal.
	if entry.EntryNumber == "" {
		number, err := s.nextPieceNumberLocked(ctx, entry.JournalCode)
		if err != nil {
			return nil, err
		}
		entry.EntryNumber = number
	} else {
		existing, err := s.entryRepo.FindEntryByNumber(ctx, entry.JournalCode, entry.EntryNumber)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to check entry number uniqueness: %w", err)
		}
		if existing != nil {
			return nil, apperrors.NewRejectionError([]string{
				fmt.Sprintf("entry number %s already used in journal %s by entry %s", entry.EntryNumber, entry.JournalCode, existing.EntryID),
			})
		}
	}

	// 4. Non-negative cash floor: recompute the running balance of every
	// touched cash account over the whole ledger and project this entry's
	// effect on top of it.
	if violations, err := s.cashFloorViolations(ctx, &entry); err != nil {
		return nil, err
	} else if len(violations) > 0 {
		logger.Warn("Entry rejected by cash floor check", slog.Int("violations", len(violations)))
		return nil, apperrors.NewRejectionError(violations)
	}

	// 5. Hash chaining. The tip is read here, inside the serialized region,
	// and the hash is assigned before persistence, never after.
	previousHash := hashchain.GenesisHash
	last, err := s.entryRepo.FindLastEntry(ctx)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to read chain tip: %w", err)
	}
	if last != nil {
		previousHash = last.Hash
	}
	entry.PreviousHash = previousHash
	entry.Hash = hashchain.Compute(entry.ChainPayload(), previousHash)

	// 6. Persist.
	if entry.EntryID == "" {
		entry.EntryID = uuid.NewString()
	}
	if entry.Status == "" {
		entry.Status = domain.StatusDraft
	}
	now := time.Now().UTC()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.LastUpdatedAt = now
	if entry.CreatedBy == "" {
		entry.CreatedBy = middleware.GetOperatorFromCtx(ctx)
	}
	if entry.LastUpdatedBy == "" {
		entry.LastUpdatedBy = entry.CreatedBy
	}

	if err := s.entryRepo.SaveEntry(ctx, entry); err != nil {
		logger.Error("Failed to persist admitted entry", slog.String("error", err.Error()), slog.String("entry_number", entry.EntryNumber))
		return nil, fmt.Errorf("failed to save entry %s: %w", entry.EntryNumber, err)
	}

	logger.Info("Entry admitted",
		slog.String("entry_id", entry.EntryID),
		slog.String("entry_number", entry.EntryNumber),
		slog.String("status", string(entry.Status)),
		slog.Bool("trusted", opts.TrustedSystemEntry),
	)
	return &entry, nil
}

// cashFloorViolations projects the post-entry balance of every cash account
// the entry touches. The balance is recomputed from the full ledger history,
// so the check is exact regardless of prior activity.
func (s *ledgerService) cashFloorViolations(ctx context.Context, entry *domain.JournalEntry) ([]string, error) {
	seen := make(map[string]struct{})
	var violations []string
	for _, line := range entry.Lines {
		code := line.AccountCode
		if !domain.IsCashAccount(code) {
			continue
		}
		if _, done := seen[code]; done {
			continue
		}
		seen[code] = struct{}{}

		debit, credit, err := s.entryRepo.SumAccountMovements(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("failed to compute balance of cash account %s: %w", code, err)
		}
		projected := debit.Sub(credit).Add(entry.NetCashEffect(code))
		if projected.IsNegative() {
			violations = append(violations, fmt.Sprintf("cash account %s would go negative: projected balance %s", code, projected))
		}
	}
	return violations, nil
}

// AdmitBatch admits entries strictly sequentially, never concurrently: the
// chain's correctness depends on each entry seeing the one admitted just
// before it. One rejection never aborts the rest of the batch.
func (s *ledgerService) AdmitBatch(ctx context.Context, entries []domain.JournalEntry, opts portssvc.AdmitOptions) dto.BatchResult {
	var result dto.BatchResult
	for i, entry := range entries {
		if _, err := s.Admit(ctx, entry, opts); err != nil {
			id := entry.EntryNumber
			if id == "" {
				id = strconv.Itoa(i)
			}
			result.Failures = append(result.Failures, dto.BatchFailure{ID: id, Error: err.Error()})
			continue
		}
		result.Succeeded++
	}
	return result
}

// NextPieceNumber returns the next piece number for a journal, in the form
// "<JOURNAL>-<6-digit zero-padded sequence>". A journal with no prior entries
// starts at 000001.
func (s *ledgerService) NextPieceNumber(ctx context.Context, journalCode string) (string, error) {
	s.admitMu.Lock()
	defer s.admitMu.Unlock()
	return s.nextPieceNumberLocked(ctx, journalCode)
}

func (s *ledgerService) nextPieceNumberLocked(ctx context.Context, journalCode string) (string, error) {
	maxSeq, err := s.entryRepo.MaxSequenceForJournal(ctx, journalCode)
	if err != nil {
		return "", fmt.Errorf("failed to compute next piece number for journal %s: %w", journalCode, err)
	}
	return fmt.Sprintf("%s-%06d", journalCode, maxSeq+1), nil
}

// GetEntryByID retrieves a stored entry with its lines.
func (s *ledgerService) GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to find entry by ID", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		}
		return nil, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}
	return entry, nil
}

// ListEntries retrieves a paginated list of entries in chain order.
func (s *ledgerService) ListEntries(ctx context.Context, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	entries, nextToken, err := s.entryRepo.ListEntries(ctx, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	responses := make([]dto.EntryResponse, len(entries))
	for i := range entries {
		responses[i] = dto.ToEntryResponse(&entries[i])
	}
	return &dto.ListEntriesResponse{Entries: responses, NextToken: nextToken}, nil
}
