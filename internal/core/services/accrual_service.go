package services

import (
	"context"
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
	"github.com/Oss53pa/atlas-finance/internal/utils/money"
)

// regularisationJournal is the miscellaneous-operations journal receiving
// period-end adjustment entries.
const regularisationJournal = "OD"

// accrualAccounts maps each regularisation type to its SYSCOHADA
// regularisation account.
var accrualAccounts = map[domain.RegularisationType]string{
	domain.RegularisationCCA: "476000", // charges constatées d'avance
	domain.RegularisationPCA: "477000", // produits constatés d'avance
	domain.RegularisationFNP: "408000", // fournisseurs, factures non parvenues
	domain.RegularisationFAE: "418000", // clients, factures à établir
}

// accrualService computes period-end proratings and turns them into balanced
// entries through the ledger gateway.
type accrualService struct {
	regRepo portsrepo.RegularisationRepositoryFacade
	ledger  portssvc.LedgerSvcFacade
}

// NewAccrualService creates the accrual engine.
func NewAccrualService(regRepo portsrepo.RegularisationRepositoryFacade, ledger portssvc.LedgerSvcFacade) portssvc.AccrualSvcFacade {
	return &accrualService{
		regRepo: regRepo,
		ledger:  ledger,
	}
}

var _ portssvc.AccrualSvcFacade = (*accrualService)(nil)

// ProrateCarryForward computes the share of a charge or revenue attributable
// to the portion of its service period after the fiscal-year-end cutoff.
// Day counts are inclusive on both ends; rounding is half-to-even at two
// decimals, applied once at the end of the computation.
func (s *accrualService) ProrateCarryForward(amount money.Amount, period domain.Period, cutoff time.Time) money.Amount {
	// Nothing straddles the boundary: the whole period belongs to the
	// closing year.
	if !dayOf(period.End).After(dayOf(cutoff)) {
		return money.Zero()
	}

	totalDays := period.Days()
	if totalDays <= 0 {
		return money.Zero()
	}

	carriedDays := domain.Period{Start: cutoff, End: period.End}.Days()
	if carriedDays > totalDays {
		// Period starts on or after the cutoff: the full amount carries over.
		carriedDays = totalDays
	}
	return amount.Prorate(carriedDays, totalDays)
}

// EstimateFlat is the degenerate FNP/FAE case: no date split, just the
// estimate under the same rounding rule.
func (s *accrualService) EstimateFlat(amount money.Amount) money.Amount {
	return money.FromDecimal(amount.Decimal())
}

// CreateRegularisation maps the type to its regularisation account and
// persists a proposed record.
func (s *accrualService) CreateRegularisation(ctx context.Context, req dto.CreateRegularisationRequest, userID string) (*domain.Regularisation, error) {
	accrualAccount, ok := accrualAccounts[req.Type]
	if !ok {
		return nil, fmt.Errorf("%w: unknown regularisation type %s", apperrors.ErrValidation, req.Type)
	}

	now := time.Now().UTC()
	reg := domain.Regularisation{
		RegularisationID: uuid.NewString(),
		Type:             req.Type,
		Label:            req.Label,
		Amount:           req.Amount,
		AccrualAccount:   accrualAccount,
		ChargeAccount:    req.ChargeAccount,
		OriginPeriod:     domain.Period{Start: req.OriginPeriodStart, End: req.OriginPeriodEnd},
		ImputationPeriod: domain.Period{Start: req.ImputationPeriodStart, End: req.ImputationPeriodEnd},
		AutoReverse:      req.AutoReverse,
		Status:           domain.RegularisationProposed,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.regRepo.SaveRegularisation(ctx, reg); err != nil {
		return nil, fmt.Errorf("failed to save regularisation: %w", err)
	}

	middleware.GetLoggerFromCtx(ctx).Info("Regularisation created",
		slog.String("regularisation_id", reg.RegularisationID),
		slog.String("type", string(reg.Type)),
		slog.String("amount", reg.Amount.String()),
	)
	return &reg, nil
}

// ListRegularisations returns every stored regularisation record.
func (s *accrualService) ListRegularisations(ctx context.Context) ([]domain.Regularisation, error) {
	regs, err := s.regRepo.ListRegularisations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list regularisations: %w", err)
	}
	return regs, nil
}

// regularisationLines builds the balanced line pair for a regularisation
// posting. CCA and FAE debit the regularisation account; PCA and FNP credit it.
func regularisationLines(reg *domain.Regularisation) []domain.JournalLine {
	accrual := domain.JournalLine{AccountCode: reg.AccrualAccount, Label: reg.Label}
	charge := domain.JournalLine{AccountCode: reg.ChargeAccount, Label: reg.Label}

	switch reg.Type {
	case domain.RegularisationCCA, domain.RegularisationFAE:
		accrual.Debit = reg.Amount
		charge.Credit = reg.Amount
	default: // PCA, FNP
		charge.Debit = reg.Amount
		accrual.Credit = reg.Amount
	}
	return []domain.JournalLine{accrual, charge}
}

// swapLines inverts debit and credit for the auto-reversal entry.
func swapLines(lines []domain.JournalLine) []domain.JournalLine {
	swapped := make([]domain.JournalLine, len(lines))
	for i, line := range lines {
		swapped[i] = line
		swapped[i].Debit = line.Credit
		swapped[i].Credit = line.Debit
	}
	return swapped
}

// PostRegularisations turns proposed records into ledger entries through the
// gateway, in trusted-system mode: the line pairs are balanced by
// construction. AutoReverse schedules the swapped entry on the first day of
// the imputation period.
func (s *accrualService) PostRegularisations(ctx context.Context, req dto.PostRegularisationsRequest, userID string) dto.BatchResult {
	logger := middleware.GetLoggerFromCtx(ctx)
	var result dto.BatchResult

	for _, id := range req.RegularisationIDs {
		if err := s.postOne(ctx, id, req.PostingDate, userID); err != nil {
			logger.Warn("Failed to post regularisation", slog.String("regularisation_id", id), slog.String("error", err.Error()))
			result.Failures = append(result.Failures, dto.BatchFailure{ID: id, Error: err.Error()})
			continue
		}
		result.Succeeded++
	}
	return result
}

func (s *accrualService) postOne(ctx context.Context, id string, postingDate time.Time, userID string) error {
	reg, err := s.regRepo.FindRegularisationByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to find regularisation %s: %w", id, err)
	}
	if reg.Status != domain.RegularisationProposed {
		return fmt.Errorf("%w: regularisation %s is %s, only proposed records can be posted", apperrors.ErrConflict, id, reg.Status)
	}

	lines := regularisationLines(reg)
	entry := domain.JournalEntry{
		JournalCode: regularisationJournal,
		EntryDate:   postingDate,
		Label:       fmt.Sprintf("%s - %s", reg.Type, reg.Label),
		Reference:   reg.RegularisationID,
		Lines:       lines,
		Status:      domain.StatusValidated,
		AuditFields: domain.AuditFields{CreatedBy: userID, LastUpdatedBy: userID},
	}
	if _, err := s.ledger.Admit(ctx, entry, portssvc.AdmitOptions{TrustedSystemEntry: true}); err != nil {
		return fmt.Errorf("failed to admit regularisation entry: %w", err)
	}

	if reg.AutoReverse {
		reversal := domain.JournalEntry{
			JournalCode: regularisationJournal,
			EntryDate:   reg.ImputationPeriod.Start,
			Label:       fmt.Sprintf("%s - %s (extourne)", reg.Type, reg.Label),
			Reference:   reg.RegularisationID,
			Lines:       swapLines(lines),
			Status:      domain.StatusValidated,
			AuditFields: domain.AuditFields{CreatedBy: userID, LastUpdatedBy: userID},
		}
		if _, err := s.ledger.Admit(ctx, reversal, portssvc.AdmitOptions{TrustedSystemEntry: true}); err != nil {
			return fmt.Errorf("failed to admit auto-reversal entry: %w", err)
		}
	}

	if err := s.regRepo.UpdateRegularisationStatus(ctx, id, domain.RegularisationPosted, userID, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to mark regularisation %s posted: %w", id, err)
	}
	return nil
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
