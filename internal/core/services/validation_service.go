package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Oss53pa/atlas-finance/internal/core/domain"
	portsrepo "github.com/Oss53pa/atlas-finance/internal/core/ports/repositories"
	portssvc "github.com/Oss53pa/atlas-finance/internal/core/ports/services"
	"github.com/Oss53pa/atlas-finance/internal/dto"
	"github.com/Oss53pa/atlas-finance/internal/middleware"
)

// validationService checks candidate entries against the ledger invariants.
// Shape rules are pure; the full check also consults the chart of accounts and
// the fiscal-year calendar.
type validationService struct {
	accountRepo    portsrepo.AccountRepositoryFacade
	fiscalYearRepo portsrepo.FiscalYearRepositoryFacade
}

// NewValidationService creates the entry validator.
func NewValidationService(accountRepo portsrepo.AccountRepositoryFacade, fiscalYearRepo portsrepo.FiscalYearRepositoryFacade) portssvc.EntryValidatorSvc {
	return &validationService{
		accountRepo:    accountRepo,
		fiscalYearRepo: fiscalYearRepo,
	}
}

var _ portssvc.EntryValidatorSvc = (*validationService)(nil)

// shapeViolations runs the arithmetic and shape rules (line count, sign rules,
// single-sided lines, exact balance) and accumulates every violation. The
// line-count rule short-circuits: against zero or one line there is nothing
// meaningful to validate.
func (s *validationService) shapeViolations(entry *domain.JournalEntry) []string {
	if len(entry.Lines) < 2 {
		return []string{fmt.Sprintf("entry must have at least 2 lines, got %d", len(entry.Lines))}
	}

	var errs []string
	for i, line := range entry.Lines {
		idx := i + 1
		if line.Debit.IsNegative() {
			errs = append(errs, fmt.Sprintf("line %d (account %s): debit %s is negative", idx, line.AccountCode, line.Debit))
		}
		if line.Credit.IsNegative() {
			errs = append(errs, fmt.Sprintf("line %d (account %s): credit %s is negative", idx, line.AccountCode, line.Credit))
		}
		if line.Debit.IsPositive() && line.Credit.IsPositive() {
			errs = append(errs, fmt.Sprintf("line %d (account %s): debit %s and credit %s cannot both be set", idx, line.AccountCode, line.Debit, line.Credit))
		}
		if line.Debit.IsZero() && line.Credit.IsZero() {
			errs = append(errs, fmt.Sprintf("line %d (account %s): debit and credit are both zero", idx, line.AccountCode))
		}
	}

	totalDebit, totalCredit := entry.ComputeTotals()
	if !totalDebit.Equal(totalCredit) {
		diff := totalDebit.Sub(totalCredit)
		if diff.IsNegative() {
			diff = diff.Neg()
		}
		errs = append(errs, fmt.Sprintf("entry is unbalanced: total debit %s != total credit %s (difference %s)", totalDebit, totalCredit, diff))
	}
	return errs
}

func (s *validationService) warnings(entry *domain.JournalEntry) []string {
	var warns []string
	if entry.Label == "" {
		warns = append(warns, "entry label is empty")
	}
	if entry.JournalCode == "" {
		warns = append(warns, "journal code is empty")
	}
	return warns
}

// ValidateShape is the lightweight synchronous check: shape and arithmetic
// rules only, no repository access.
func (s *validationService) ValidateShape(entry *domain.JournalEntry) dto.ValidationResult {
	return dto.NewValidationResult(s.shapeViolations(entry), s.warnings(entry))
}

// Validate runs the full rule set. Violations are accumulated, never
// short-circuited (except the line-count rule), so a single round trip reports
// everything the caller must fix.
func (s *validationService) Validate(ctx context.Context, entry *domain.JournalEntry) (dto.ValidationResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	errs := s.shapeViolations(entry)
	if len(entry.Lines) < 2 {
		return dto.NewValidationResult(errs, s.warnings(entry)), nil
	}

	// Fiscal-year coverage: the entry date must fall inside exactly one
	// non-closed year.
	years, err := s.fiscalYearRepo.FindYearsCovering(ctx, entry.EntryDate)
	if err != nil {
		logger.Error("Failed to look up fiscal years for validation", slog.String("error", err.Error()))
		return dto.ValidationResult{}, fmt.Errorf("failed to look up fiscal years: %w", err)
	}
	dateStr := entry.EntryDate.Format("2006-01-02")
	switch len(years) {
	case 0:
		errs = append(errs, fmt.Sprintf("no fiscal year covers entry date %s", dateStr))
	case 1:
		if years[0].IsClosed {
			errs = append(errs, fmt.Sprintf("fiscal year %s covering entry date %s is closed", years[0].Code, dateStr))
		}
	default:
		errs = append(errs, fmt.Sprintf("entry date %s falls inside %d overlapping fiscal years", dateStr, len(years)))
	}

	// Account existence: every referenced code must be in the chart.
	codes := make([]string, 0, len(entry.Lines))
	for _, line := range entry.Lines {
		codes = append(codes, line.AccountCode)
	}
	accounts, err := s.accountRepo.FindAccountsByCodes(ctx, uniqueStrings(codes))
	if err != nil {
		logger.Error("Failed to look up accounts for validation", slog.String("error", err.Error()))
		return dto.ValidationResult{}, fmt.Errorf("failed to look up accounts: %w", err)
	}
	for i, line := range entry.Lines {
		acc, found := accounts[line.AccountCode]
		if !found {
			errs = append(errs, fmt.Sprintf("line %d: unknown account code %s", i+1, line.AccountCode))
			continue
		}
		if !acc.IsActive {
			errs = append(errs, fmt.Sprintf("line %d: account %s is inactive", i+1, line.AccountCode))
		}
	}

	return dto.NewValidationResult(errs, s.warnings(entry)), nil
}

// uniqueStrings returns a slice containing only the unique strings from the input.
func uniqueStrings(input []string) []string {
	seen := make(map[string]struct{}, len(input))
	result := make([]string, 0, len(input))
	for _, str := range input {
		if _, ok := seen[str]; !ok {
			seen[str] = struct{}{}
			result = append(result, str)
		}
	}
	return result
}
