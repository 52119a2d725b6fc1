package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Oss53pa/atlas-finance/internal/apperrors"
	"github.com/Oss53pa/atlas-finance/internal/core/domain"
	portsrepo "github.com/Oss53pa/atlas-finance/internal/core/ports/repositories"
	portssvc "github.com/Oss53pa/atlas-finance/internal/core/ports/services"
	"github.com/Oss53pa/atlas-finance/internal/middleware"
)

// reversalService builds compensating entries. It never mutates history: the
// original keeps its lines, hash and status, gaining only the reversed flag
// and a back-reference to the new entry.
type reversalService struct {
	entryRepo portsrepo.EntryRepositoryFacade
	auditRepo portsrepo.AuditRepositoryFacade
	ledger    portssvc.LedgerSvcFacade
}

// NewReversalService creates the reversal protocol.
func NewReversalService(entryRepo portsrepo.EntryRepositoryFacade, auditRepo portsrepo.AuditRepositoryFacade, ledger portssvc.LedgerSvcFacade) portssvc.ReversalSvcFacade {
	return &reversalService{
		entryRepo: entryRepo,
		auditRepo: auditRepo,
		ledger:    ledger,
	}
}

var _ portssvc.ReversalSvcFacade = (*reversalService)(nil)

// Reverse creates the compensating entry for a validated or posted original:
// same journal, same accounts and amounts with debit and credit swapped, a
// fresh piece number, admitted in trusted-system mode directly as validated.
func (s *reversalService) Reverse(ctx context.Context, originalID string, reversalDate time.Time, reason string, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	original, err := s.entryRepo.FindEntryByID(ctx, originalID)
	if err != nil {
		return nil, fmt.Errorf("failed to find original entry %s: %w", originalID, err)
	}
	if original.Status != domain.StatusValidated && original.Status != domain.StatusPosted {
		return nil, fmt.Errorf("%w: entry %s is %s, only validated or posted entries can be reversed", apperrors.ErrConflict, original.EntryNumber, original.Status)
	}
	if original.Reversed {
		reversedBy := ""
		if original.ReversedByID != nil {
			reversedBy = *original.ReversedByID
		}
		return nil, fmt.Errorf("%w: entry %s was already reversed by entry %s", apperrors.ErrConflict, original.EntryNumber, reversedBy)
	}

	// Swap each line's sides; a balanced entry stays balanced by construction.
	swapped := make([]domain.JournalLine, len(original.Lines))
	for i, line := range original.Lines {
		swapped[i] = domain.JournalLine{
			AccountCode:    line.AccountCode,
			ThirdPartyCode: line.ThirdPartyCode,
			Label:          line.Label,
			Debit:          line.Credit,
			Credit:         line.Debit,
			AnalyticCode:   line.AnalyticCode,
			LettrageTag:    line.LettrageTag,
		}
	}

	reversal := domain.JournalEntry{
		EntryID:      uuid.NewString(),
		JournalCode:  original.JournalCode,
		EntryDate:    reversalDate,
		Label:        fmt.Sprintf("Extourne de %s - %s", original.EntryNumber, original.Label),
		Reference:    original.EntryNumber,
		Lines:        swapped,
		Status:       domain.StatusValidated,
		ReversalOfID: &original.EntryID,
		AuditFields: domain.AuditFields{
			CreatedBy:     userID,
			LastUpdatedBy: userID,
		},
	}

	admitted, err := s.ledger.Admit(ctx, reversal, portssvc.AdmitOptions{TrustedSystemEntry: true})
	if err != nil {
		logger.Error("Failed to admit reversal entry", slog.String("error", err.Error()), slog.String("original_id", originalID))
		return nil, fmt.Errorf("failed to admit reversal of entry %s: %w", original.EntryNumber, err)
	}

	now := time.Now().UTC()
	if err := s.entryRepo.MarkEntryReversed(ctx, original.EntryID, admitted.EntryID, reason, userID, now); err != nil {
		logger.Error("Failed to mark original entry as reversed", slog.String("error", err.Error()), slog.String("original_id", originalID), slog.String("reversal_id", admitted.EntryID))
		return nil, fmt.Errorf("failed to link reversal to entry %s: %w", original.EntryNumber, err)
	}

	details, _ := json.Marshal(map[string]string{
		"originalEntryNumber": original.EntryNumber,
		"reversalEntryNumber": admitted.EntryNumber,
		"reason":              reason,
	})
	record := domain.AuditRecord{
		RecordID:    uuid.NewString(),
		Action:      "reverse",
		EntityType:  "journal_entry",
		EntityID:    original.EntryID,
		DetailsJSON: string(details),
		Timestamp:   now,
		PerformedBy: userID,
	}
	if err := s.auditRepo.SaveAuditRecord(ctx, record); err != nil {
		logger.Error("Failed to append reversal audit record", slog.String("error", err.Error()))
	}

	logger.Info("Entry reversed",
		slog.String("original_number", original.EntryNumber),
		slog.String("reversal_number", admitted.EntryNumber),
	)
	return admitted, nil
}
