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
	"github.com/Oss53pa/atlas-finance/internal/dto"
	"github.com/Oss53pa/atlas-finance/internal/middleware"
)

// allowedTransitions is the exhaustive lifecycle table. Posted is terminal:
// its only neutralization path is a compensating reversal entry, never a
// status change.
var allowedTransitions = map[domain.EntryStatus][]domain.EntryStatus{
	domain.StatusDraft:     {domain.StatusValidated},
	domain.StatusValidated: {domain.StatusPosted, domain.StatusDraft},
	domain.StatusPosted:    {},
}

// canTransition reports whether moving from -> to is a legal lifecycle step.
func canTransition(from, to domain.EntryStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// workflowService drives the draft -> validated -> posted state machine and
// appends one audit record per transition.
type workflowService struct {
	entryRepo portsrepo.EntryRepositoryFacade
	auditRepo portsrepo.AuditRepositoryFacade
	validator portssvc.EntryValidatorSvc
}

// NewWorkflowService creates the status workflow engine.
func NewWorkflowService(entryRepo portsrepo.EntryRepositoryFacade, auditRepo portsrepo.AuditRepositoryFacade, validator portssvc.EntryValidatorSvc) portssvc.WorkflowSvcFacade {
	return &workflowService{
		entryRepo: entryRepo,
		auditRepo: auditRepo,
		validator: validator,
	}
}

var _ portssvc.WorkflowSvcFacade = (*workflowService)(nil)

// transition performs the status change and writes the audit record.
func (s *workflowService) transition(ctx context.Context, entry *domain.JournalEntry, to domain.EntryStatus, action, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !canTransition(entry.Status, to) {
		return fmt.Errorf("%w: cannot move entry %s from %s to %s", apperrors.ErrConflict, entry.EntryNumber, entry.Status, to)
	}

	now := time.Now().UTC()
	if err := s.entryRepo.UpdateEntryStatus(ctx, entry.EntryID, to, userID, now); err != nil {
		logger.Error("Failed to update entry status", slog.String("error", err.Error()), slog.String("entry_id", entry.EntryID))
		return fmt.Errorf("failed to update status of entry %s: %w", entry.EntryID, err)
	}

	s.appendAudit(ctx, action, entry.EntryID, map[string]string{
		"entryNumber": entry.EntryNumber,
		"from":        string(entry.Status),
		"to":          string(to),
	}, userID, now)

	logger.Info("Entry status changed",
		slog.String("entry_id", entry.EntryID),
		slog.String("from", string(entry.Status)),
		slog.String("to", string(to)),
	)
	return nil
}

// appendAudit writes one structured record to the write-only audit sink.
// A failing sink is logged, not propagated: the transition itself stands.
func (s *workflowService) appendAudit(ctx context.Context, action, entityID string, details map[string]string, userID string, at time.Time) {
	detailsJSON, _ := json.Marshal(details)
	record := domain.AuditRecord{
		RecordID:    uuid.NewString(),
		Action:      action,
		EntityType:  "journal_entry",
		EntityID:    entityID,
		DetailsJSON: string(detailsJSON),
		Timestamp:   at,
		PerformedBy: userID,
	}
	if err := s.auditRepo.SaveAuditRecord(ctx, record); err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to append audit record", slog.String("error", err.Error()), slog.String("action", action))
	}
}

// ValidateEntry re-runs the full validator on a draft and promotes it to
// validated. A draft may have drifted out of validity since creation (a fiscal
// year closed in the meantime), so validity is re-checked here, at the moment
// of transition.
func (s *workflowService) ValidateEntry(ctx context.Context, entryID string, userID string) (dto.ValidationResult, error) {
	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return dto.ValidationResult{}, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}
	if entry.Status != domain.StatusDraft {
		return dto.ValidationResult{}, fmt.Errorf("%w: entry %s is %s, only drafts can be validated", apperrors.ErrConflict, entry.EntryNumber, entry.Status)
	}

	result, err := s.validator.Validate(ctx, entry)
	if err != nil {
		return dto.ValidationResult{}, err
	}
	if !result.IsValid {
		// Status unchanged; the verdict tells the caller what to fix.
		return result, nil
	}

	if err := s.transition(ctx, entry, domain.StatusValidated, "validate", userID); err != nil {
		return dto.ValidationResult{}, err
	}
	return result, nil
}

// PostEntry moves a validated entry to its terminal posted status. No
// re-validation happens here: validity is checked at the validate step and
// validated -> posted is assumed to occur promptly.
func (s *workflowService) PostEntry(ctx context.Context, entryID string, userID string) error {
	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}
	if entry.Status != domain.StatusValidated {
		return fmt.Errorf("%w: entry %s is %s, only validated entries can be posted", apperrors.ErrConflict, entry.EntryNumber, entry.Status)
	}
	return s.transition(ctx, entry, domain.StatusPosted, "post", userID)
}

// ReturnToDraft moves a validated entry back to draft. Posted entries never
// come back.
func (s *workflowService) ReturnToDraft(ctx context.Context, entryID string, userID string) error {
	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}
	if entry.Status != domain.StatusValidated {
		return fmt.Errorf("%w: entry %s is %s, only validated entries can return to draft", apperrors.ErrConflict, entry.EntryNumber, entry.Status)
	}
	return s.transition(ctx, entry, domain.StatusDraft, "return_to_draft", userID)
}

// ValidateEntries applies ValidateEntry to each ID; one entry's failure never
// aborts the rest.
func (s *workflowService) ValidateEntries(ctx context.Context, entryIDs []string, userID string) dto.BatchResult {
	var result dto.BatchResult
	for _, id := range entryIDs {
		verdict, err := s.ValidateEntry(ctx, id, userID)
		switch {
		case err != nil:
			result.Failures = append(result.Failures, dto.BatchFailure{ID: id, Error: err.Error()})
		case !verdict.IsValid:
			result.Failures = append(result.Failures, dto.BatchFailure{ID: id, Error: apperrors.NewRejectionError(verdict.Errors).Error()})
		default:
			result.Succeeded++
		}
	}
	return result
}

// PostEntries applies PostEntry to each ID.
func (s *workflowService) PostEntries(ctx context.Context, entryIDs []string, userID string) dto.BatchResult {
	var result dto.BatchResult
	for _, id := range entryIDs {
		if err := s.PostEntry(ctx, id, userID); err != nil {
			result.Failures = append(result.Failures, dto.BatchFailure{ID: id, Error: err.Error()})
			continue
		}
		result.Succeeded++
	}
	return result
}
